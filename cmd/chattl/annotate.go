package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/chattl/annotate"
	"github.com/ZaguanLabs/chattl/settings"
)

type annotateOptions struct {
	reveal     bool
	output     string
	jsonOutput bool
	quiet      bool
}

func newAnnotateCmd(a *app) *cobra.Command {
	var opts annotateOptions
	cmd := &cobra.Command{
		Use:   "annotate <file.html>",
		Short: "Attach translation annotations to a chat page snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnnotate(cmd, args, opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.reveal, "reveal", false, "reveal (and translate) every annotation")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print annotations as JSON instead of HTML")
	flags.BoolVar(&opts.quiet, "quiet", false, "suppress scan statistics")
	return cmd
}

type annotationJSON struct {
	ID                  string `json:"id"`
	SourceText          string `json:"source_text"`
	State               string `json:"state"`
	Visible             bool   `json:"visible"`
	Result              string `json:"result,omitempty"`
	NoTranslationNeeded bool   `json:"no_translation_needed,omitempty"`
}

func (a *app) runAnnotate(cmd *cobra.Command, args []string, opts annotateOptions) error {
	ctx := cmd.Context()

	var (
		input     io.Reader = cmd.InOrStdin()
		inputName           = "stdin"
	)
	if len(args) == 1 {
		f, err := os.Open(args[0]) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		defer f.Close()
		input = f
		inputName = filepath.Base(args[0])
	}

	doc, err := annotate.ParseHTML(input)
	if err != nil {
		return err
	}

	rt, err := a.openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	s := rt.controller.Settings()
	annotator := annotate.New(rt.controller,
		annotate.WithLanguage(s.YourLanguage),
		annotate.WithMessages(settings.Catalog(s.UILanguage)),
		annotate.WithLogger(rt.log),
	)
	rt.controller.OnDisable(annotator.Clear)

	var result annotate.ScanResult
	if s.Enabled {
		result = annotator.Scan(doc)
	} else {
		rt.log.Info("translation disabled, page left unchanged")
	}

	failed := 0
	if opts.reveal {
		for _, id := range result.IDs() {
			if _, err := annotator.Reveal(ctx, id); err != nil {
				failed++
			}
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if opts.jsonOutput {
		list := make([]annotationJSON, 0)
		for _, ann := range annotator.Annotations() {
			list = append(list, annotationJSON{
				ID:                  ann.ID,
				SourceText:          ann.SourceText,
				State:               ann.State.String(),
				Visible:             ann.Visible,
				Result:              ann.Result,
				NoTranslationNeeded: ann.NoTranslationNeeded,
			})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			return err
		}
	} else if err := doc.Render(out); err != nil {
		return err
	}

	if !opts.quiet {
		stats := result.Stats()
		errOut := cmd.ErrOrStderr()
		fmt.Fprintf(errOut, "\nAnnotated %s\n", inputName)
		fmt.Fprintf(errOut, "  Added:       %d\n", stats.Added)
		fmt.Fprintf(errOut, "  Replaced:    %d\n", stats.Replaced)
		fmt.Fprintf(errOut, "  Duplicates:  %d\n", stats.Duplicates)
		fmt.Fprintf(errOut, "  Skipped:     %d\n", stats.Skipped)
		if opts.reveal {
			fmt.Fprintf(errOut, "  Failed:      %d\n", failed)
		}
	}
	return nil
}
