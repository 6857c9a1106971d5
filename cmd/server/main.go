package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/prepdash/internal/config"
	"github.com/vytor/prepdash/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// configLoader resolves configuration and installs the default logger.
type configLoader func() (config.Config, *logger.Logger, error)

func newRootCmd() *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "prepdash",
		Short:         "Diagnostic assessment server for JEE and NEET aspirants",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides DB_PATH)")

	// loadConfig runs for every subcommand so flags win over the environment.
	var loadConfig configLoader = func() (config.Config, *logger.Logger, error) {
		cfg := config.Load()
		if dbPath != "" {
			cfg.DBPath = dbPath
		}

		log := logger.New(
			logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
			logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
			logger.WithColors(logger.ParseFormat(cfg.LogFormat) == logger.FormatText),
		)
		logger.SetDefault(log)

		if err := cfg.Validate(); err != nil {
			log.Error("invalid configuration: %v", err)
			return cfg, log, err
		}
		return cfg, log, nil
	}

	serve := newServeCmd(loadConfig)
	root.AddCommand(serve, newSeedCmd(loadConfig))
	root.RunE = serve.RunE
	return root
}
