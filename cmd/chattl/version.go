package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/chattl"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", chattl.Name, chattl.FullVersion())
			if chattl.BuildDate != "unknown" && chattl.BuildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", chattl.BuildDate)
			}
			return nil
		},
	}
}
