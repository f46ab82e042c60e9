package main

import (
	"fmt"

	"github.com/Scalingo/projects-widget/model"
	"github.com/Scalingo/projects-widget/service"
	"github.com/Scalingo/projects-widget/store"
	"github.com/Scalingo/projects-widget/view"
	"github.com/spf13/cobra"
)

// withThemeStore runs fn on a theme store backed by the SQLite preferences.
// The document only lives for the duration of the command.
func withThemeStore(fn func(themes *service.ThemeStore) model.ThemePreference) (model.ThemePreference, error) {
	preferences, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return "", err
	}
	defer preferences.Close()

	doc := view.NewDocument(view.PageOptions{Username: cfg.Github.Username})
	themes := service.NewThemeStore(doc, preferences, func() bool {
		return cfg.Theme.PreferDark
	})

	return fn(themes), nil
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the theme used by exported pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		pref, err := withThemeStore(func(themes *service.ThemeStore) model.ThemePreference {
			return themes.Init()
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), pref)
		return nil
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between the light and dark theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		pref, err := withThemeStore(func(themes *service.ThemeStore) model.ThemePreference {
			themes.Init()
			return themes.Toggle()
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), pref)
		return nil
	},
}

var themeSetCmd = &cobra.Command{
	Use:       "set light|dark",
	Short:     "Persist the given theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		requested, err := model.ParseThemePreference(args[0])
		if err != nil {
			return err
		}

		_, err = withThemeStore(func(themes *service.ThemeStore) model.ThemePreference {
			themes.Apply(requested)
			return requested
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), requested)
		return nil
	},
}

func init() {
	themeCmd.AddCommand(themeToggleCmd)
	themeCmd.AddCommand(themeSetCmd)
}
