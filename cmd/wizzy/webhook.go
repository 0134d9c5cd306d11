package main

import (
	"context"
	"errors"
	"time"

	"github.com/sandevgo/wizzybot/internal/config"
	"github.com/sandevgo/wizzybot/internal/transport/telegram"
	"github.com/sandevgo/wizzybot/pkg/log"
	"github.com/spf13/cobra"
)

var dropPending bool

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage the Telegram webhook",
}

var webhookSetCmd = &cobra.Command{
	Use:           "set [url]",
	Short:         "Point Telegram update delivery at the public endpoint",
	Long:          `Registers the webhook URL with Telegram. Without an argument, WEBHOOK_URL and WEBHOOK_PATH from the environment are used.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		bot, tgCfg, err := newWebhookBot(ctx)
		if err != nil {
			return err
		}

		url := tgCfg.WebhookEndpoint()
		if len(args) > 0 {
			url = args[0]
		}
		if url == "" {
			return errors.New("no webhook url: pass one or set WEBHOOK_URL")
		}

		if err := bot.SetWebhook(ctx, url); err != nil {
			return err
		}
		log.FromCtx(ctx).Info().Str("url", url).Msg("webhook registered")
		return nil
	},
}

var webhookInfoCmd = &cobra.Command{
	Use:           "info",
	Short:         "Show the current webhook state",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		bot, _, err := newWebhookBot(ctx)
		if err != nil {
			return err
		}

		info, err := bot.WebhookState(ctx)
		if err != nil {
			return err
		}

		logger := log.FromCtx(ctx)
		logger.Info().
			Str("url", info.URL).
			Int("pending_updates", info.PendingUpdateCount).
			Bool("custom_certificate", info.HasCustomCertificate).
			Msg("webhook state")
		if info.LastErrorMessage != "" {
			logger.Warn().
				Str("error", info.LastErrorMessage).
				Time("at", time.Unix(info.LastErrorDate, 0).UTC()).
				Msg("last delivery error")
		}
		return nil
	},
}

var webhookDeleteCmd = &cobra.Command{
	Use:           "delete",
	Short:         "Remove the webhook registration",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		bot, _, err := newWebhookBot(ctx)
		if err != nil {
			return err
		}

		if err := bot.DeleteWebhook(ctx, dropPending); err != nil {
			return err
		}
		log.FromCtx(ctx).Info().Bool("dropped_pending", dropPending).Msg("webhook removed")
		return nil
	},
}

// newWebhookBot builds a bot for webhook management only. No updates are
// processed, so it runs without a router or commands.
func newWebhookBot(ctx context.Context) (*telegram.Bot, *config.TelegramConfig, error) {
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, nil, err
	}

	tgCfg := config.NewTelegramConfig(ctx)
	bot, err := telegram.NewBot(ctx, tgCfg, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	return bot, tgCfg, nil
}

func init() {
	webhookDeleteCmd.Flags().BoolVar(&dropPending, "drop-pending", false, "discard queued updates on delete")
	webhookCmd.AddCommand(webhookSetCmd, webhookInfoCmd, webhookDeleteCmd)
	rootCmd.AddCommand(webhookCmd)
}
