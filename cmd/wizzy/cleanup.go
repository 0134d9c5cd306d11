package main

import (
	"github.com/sandevgo/wizzybot/internal/config"
	"github.com/sandevgo/wizzybot/internal/core"
	"github.com/sandevgo/wizzybot/internal/service/docstore"
	"github.com/sandevgo/wizzybot/internal/service/history"
	"github.com/sandevgo/wizzybot/internal/service/janitor"
	"github.com/sandevgo/wizzybot/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var cleanupDocDays int

var cleanupCmd = &cobra.Command{
	Use:           "cleanup",
	Short:         "Purge expired history and stale document context",
	Long:          `Runs a single retention pass and exits. Intended for an external cron when CLEANUP_CRON is unset.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg := config.NewAppConfig(ctx)
		cleanupCfg := config.NewCleanupConfig(ctx)

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		histories := history.NewManager(sqlite.NewHistoryRepo(db), appCfg.HistoryWindow, appCfg.HistoryMaxAge, core.SystemClock)
		documents := docstore.NewManager(sqlite.NewDocumentRepo(db), core.SystemClock)

		docDays := cleanupCfg.DocumentRetentionDays
		if cmd.Flags().Changed("doc-days") {
			docDays = cleanupDocDays
		}

		_, err = janitor.New(histories, documents, docDays).Run(ctx)
		return err
	},
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDocDays, "doc-days", 7, "purge documents uploaded more than this many days ago")
	rootCmd.AddCommand(cleanupCmd)
}
