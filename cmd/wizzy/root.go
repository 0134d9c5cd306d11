package main

import (
	"context"
	"os"

	"github.com/sandevgo/wizzybot/internal/config"
	"github.com/sandevgo/wizzybot/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "wizzy",
	Short: "Wizzy Bot — a Telegram assistant with conversation memory",
	Long:  `Wizzy Bot answers Telegram messages with per-chat conversation memory, document context, voice transcription and image understanding.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
