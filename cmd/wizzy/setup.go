package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/wizzybot/internal/config"
	"github.com/sandevgo/wizzybot/internal/core"
	"github.com/sandevgo/wizzybot/internal/providers/gemini"
	"github.com/sandevgo/wizzybot/internal/providers/groq"
	"github.com/sandevgo/wizzybot/internal/providers/serper"
	"github.com/sandevgo/wizzybot/internal/service/assembler"
	"github.com/sandevgo/wizzybot/internal/service/command"
	"github.com/sandevgo/wizzybot/internal/service/docstore"
	"github.com/sandevgo/wizzybot/internal/service/history"
	"github.com/sandevgo/wizzybot/internal/service/janitor"
	"github.com/sandevgo/wizzybot/internal/service/registry"
	"github.com/sandevgo/wizzybot/internal/service/router"
	"github.com/sandevgo/wizzybot/internal/storage/sqlite"
	"github.com/sandevgo/wizzybot/internal/transport/telegram"
	"github.com/sandevgo/wizzybot/pkg/log"
	"github.com/sandevgo/wizzybot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	googleCfg := config.NewGoogleConfig(ctx)
	groqCfg := config.NewGroqConfig(ctx)
	serperCfg := config.NewSerperConfig(ctx)
	cleanupCfg := config.NewCleanupConfig(ctx)
	tgCfg := config.NewTelegramConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	historyRepo := sqlite.NewHistoryRepo(db)
	documentRepo := sqlite.NewDocumentRepo(db)
	sessionRepo := sqlite.NewSessionRepo(db)

	// 3. Domain services
	histories := history.NewManager(historyRepo, appCfg.HistoryWindow, appCfg.HistoryMaxAge, core.SystemClock)
	documents := docstore.NewManager(documentRepo, core.SystemClock)
	sessions := registry.New(sessionRepo, core.SystemClock)
	contexts := assembler.New(documents, core.SystemClock)

	// 4. AI Providers
	ai := gemini.New(gemini.Config{
		BaseURL: googleCfg.BaseURL,
		APIKey:  googleCfg.APIKey,
		Model:   googleCfg.Model,
	})

	var speech core.SpeechSynthesizer
	if groqCfg.Enabled() {
		speech = groq.New(groq.Config{
			BaseURL: groqCfg.BaseURL,
			APIKey:  groqCfg.APIKey,
			Model:   groqCfg.Model,
			Voice:   groqCfg.Voice,
		})
	} else {
		logger.Info().Msg("speech synthesis disabled, voice replies degrade to text")
	}

	search := serper.New(serper.Config{
		BaseURL: serperCfg.BaseURL,
		APIKey:  serperCfg.APIKey,
		Results: serperCfg.Results,
		Country: serperCfg.Country,
	})

	// 5. Commands
	commands := command.New(command.NewCommands(histories, documents, sessions, search))

	// 6. Message Router
	// The bot downloads files for the router and delivers its replies.
	// The closure breaks the cycle: bot is assigned below, before the
	// webhook server starts accepting updates.
	var bot *telegram.Bot
	msgRouter := router.New(router.Deps{
		History:     histories,
		Documents:   documents,
		Registry:    sessions,
		Context:     contexts,
		Chat:        ai,
		Transcriber: ai,
		Vision:      ai,
		Summarizer:  ai,
		Speech:      speech,
		Files: router.FileFunc(func(ctx context.Context, fileID string) ([]byte, error) {
			return bot.DownloadFile(ctx, fileID)
		}),
		Commands:         commands,
		MaxDocumentBytes: appCfg.MaxDocumentBytes,
	})

	// 7. Transport
	bot, err = telegram.NewBot(ctx, tgCfg, msgRouter, commands)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	services = append(services, telegram.NewServer(tgCfg, bot))

	// 8. Retention Scheduler
	if cleanupCfg.Cron != "" {
		cleaner := janitor.New(histories, documents, cleanupCfg.DocumentRetentionDays)
		scheduler, err := janitor.NewScheduler(cleaner, cleanupCfg.Cron)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize cleanup scheduler")
		}
		services = append(services, scheduler)
	}

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
