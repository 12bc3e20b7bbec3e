package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ZaguanLabs/chattl/settings"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show, validate, change or watch the settings file",
	}
	cmd.AddCommand(newSettingsShowCmd(a))
	cmd.AddCommand(newSettingsValidateCmd(a))
	cmd.AddCommand(newSettingsSetCmd(a))
	cmd.AddCommand(newSettingsWatchCmd(a))
	return cmd
}

func newSettingsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings with the API key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			file := store.Current()
			file.Settings = file.Redacted()
			file.Cache.RedisPassword = ""
			data, err := yaml.Marshal(file)
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newSettingsValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			file := store.Current()
			if err := file.Validate(); err != nil {
				msg := settings.Catalog(file.UILanguage).Get(settings.MsgInvalidSetting)
				return fmt.Errorf("%s: %w", msg, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", store.Path())
			return err
		},
	}
}

func newSettingsSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value...",
		Short: "Change settings and save them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			file := store.Current()
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("expected key=value, got %q", arg)
				}
				if err := file.Set(strings.TrimSpace(key), value); err != nil {
					return err
				}
			}
			changes, err := store.Save(file)
			if err != nil {
				return err
			}
			msg := settings.Catalog(file.UILanguage).Get(settings.MsgSettingsSaved)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d changed)\n", msg, len(changes))
			return err
		},
	}
}

func newSettingsWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print setting changes as the file is edited",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			return rt.store.Watch(cmd.Context(), func(_ settings.Settings, changes settings.Changes) {
				if err := rt.controller.ApplyChanges(changes); err != nil {
					rt.log.Warn("settings change rejected", "err", err)
					return
				}
				for _, key := range settings.Keys {
					change, ok := changes[key]
					if !ok {
						continue
					}
					if key == settings.KeyAPIKey {
						fmt.Fprintf(out, "%s changed\n", key)
						continue
					}
					fmt.Fprintf(out, "%s: %v -> %v\n", key, change.OldValue, change.NewValue)
				}
			})
		},
	}
}
