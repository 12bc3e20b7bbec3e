// Command chattl drives the chat translation core from the command line:
// one-off translations, compose session scripts, page snapshot annotation
// and settings management.
package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"pkt.systems/psi"
	"pkt.systems/pslog"

	"github.com/ZaguanLabs/chattl"
	"github.com/ZaguanLabs/chattl/provider"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)

	if err := run(ctx, newApp(os.Stdin, os.Stdout, os.Stderr), os.Args[1:]); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("chattl command failed")
		return 1
	}
	return 0
}

// app carries the process streams and the provider factory shared by
// every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath  string
	newProvider func(log pslog.Logger) chattl.Provider
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		newProvider: func(log pslog.Logger) chattl.Provider {
			return provider.NewRouter(provider.WithRouterLogger(log))
		},
	}
}

func run(ctx context.Context, a *app, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "chattl",
		Short:         "Inline translation for chat compose boxes and messages",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "settings file (default: user config dir)")

	root.AddCommand(newTranslateCmd(a))
	root.AddCommand(newComposeCmd(a))
	root.AddCommand(newAnnotateCmd(a))
	root.AddCommand(newSettingsCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}
