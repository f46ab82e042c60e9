package main

import (
	"fmt"

	"github.com/Scalingo/projects-widget/export"
	"github.com/Scalingo/projects-widget/store"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	exportOutputDir  string
	exportPreferDark bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render one static page per sort order",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("out") {
			cfg.Export.OutputDir = exportOutputDir
		}

		if cmd.Flags().Changed("prefer-dark") {
			cfg.Theme.PreferDark = exportPreferDark
		}

		githubService, err := newGithubService(cmd.Context(), *cfg)
		if err != nil {
			return err
		}

		page, err := loadPage(*cfg)
		if err != nil {
			return err
		}

		preferences, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer preferences.Close()

		files, err := export.NewExportService(*cfg, githubService, preferences, page).Export(cmd.Context(), cfg.Export.OutputDir)
		if err != nil {
			return err
		}

		log.WithField("files", len(files)).Info("export finished")
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutputDir, "out", "o", "public", "output directory")
	exportCmd.Flags().BoolVar(&exportPreferDark, "prefer-dark", false, "platform prefers a dark color scheme when no theme is persisted")
}
