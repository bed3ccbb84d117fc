package main

import (
	"context"
	"os"

	"github.com/sandevgo/pepebot/internal/config"
	"github.com/sandevgo/pepebot/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "pepebot",
	Short: "PepeBot — the community card chat bot",
	Long:  `PepeBot routes community chat into card answers, lore stories and banter.`,
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
