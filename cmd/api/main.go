package main

import (
	"log/slog"
	"os"

	"github.com/gsbenevides2/hassbridge/internal/config"
	"github.com/gsbenevides2/hassbridge/internal/util"

	"github.com/carlmjohnson/versioninfo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// set by the root command before any subcommand runs
var (
	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	slog.SetDefault(util.NewConsoleLogger(os.Stderr, slog.LevelInfo))
	if err := rootCmd().Execute(); err != nil {
		slog.Error("hassbridge", "error", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hassbridge",
		Short:         "Typed bridge between home services and a Home Assistant hub",
		Version:       versioninfo.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			// load and print config
			cfg, err = config.Load()
			if err != nil {
				slog.Error("config errors", "error", err)
				return err
			}
			slog.SetDefault(util.NewConsoleLogger(os.Stderr, util.SlogLevel(cfg.LogLevel)))
			slog.Info("Using", "config", config.Redacted(*cfg))

			// zap logger
			zapCfg := zap.NewProductionConfig()
			zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
			logger, err = zapCfg.Build()
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	root.AddCommand(serveCmd(), discoverCmd(), stateCmd())
	return root
}
