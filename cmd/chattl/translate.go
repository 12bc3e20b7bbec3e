package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/chattl"
	"github.com/ZaguanLabs/chattl/settings"
)

type translateOptions struct {
	to        string
	from      string
	provider  string
	apiKey    string
	formality string
	incoming  bool
}

func newTranslateCmd(a *app) *cobra.Command {
	var opts translateOptions
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text through the request queue",
		Long: "Translate text from the user's language into the other participants' language " +
			"(or the reverse with --incoming). Text is read from stdin when no arguments are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTranslate(cmd, args, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.to, "to", "", "target language (default from settings)")
	flags.StringVar(&opts.from, "from", "", "source language or auto (default from settings)")
	flags.StringVar(&opts.provider, "provider", "", "deepl, chatgpt or mymemory (default from settings)")
	flags.StringVar(&opts.apiKey, "api-key", "", "provider API key (default from settings)")
	flags.StringVar(&opts.formality, "formality", "", "default, prefer_more or prefer_less")
	flags.BoolVar(&opts.incoming, "incoming", false, "translate a received message into your language")
	return cmd
}

func (a *app) runTranslate(cmd *cobra.Command, args []string, opts translateOptions) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("no text to translate")
	}

	rt, err := a.openRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	s := rt.controller.Settings()
	req := s.OutgoingRequest(text)
	if opts.incoming {
		req = s.IncomingRequest(text)
	}
	if opts.to != "" {
		req.TargetLang = opts.to
	}
	if opts.from != "" {
		req.SourceLang = opts.from
	}
	if opts.provider != "" {
		req.Provider = chattl.ProviderName(opts.provider)
		if !req.Provider.Valid() {
			return &chattl.ConfigError{Field: "provider", Message: fmt.Sprintf("unknown provider %q", opts.provider)}
		}
	}
	if opts.apiKey != "" {
		req.APIKey = opts.apiKey
	}
	if opts.formality != "" {
		req.Formality = chattl.Formality(opts.formality)
		if !req.Formality.Valid() {
			return &chattl.ConfigError{Field: "formality", Message: fmt.Sprintf("unknown formality %q", opts.formality)}
		}
	}

	if chattl.IsAuto(req.TargetLang) {
		return &chattl.ConfigError{Field: "to", Message: "target language must not be auto"}
	}

	out := text
	if !chattl.SameLanguage(req.SourceLang, req.TargetLang) {
		if req.Provider.RequiresKey() && strings.TrimSpace(req.APIKey) == "" {
			return &chattl.ConfigError{Field: settings.KeyAPIKey, Message: "required for " + string(req.Provider)}
		}
		out, err = rt.queue.Enqueue(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
