// Package cmd holds the eventforms command line.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"eventforms/config"
)

var envFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "eventforms",
		Short:         "Event registration form builder API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if envFile != "" {
				config.LoadEnv(envFile)
			} else {
				config.LoadEnv()
			}
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "Load variables from this file instead of .env")

	serve := NewServeCmd()
	root.AddCommand(serve, NewMigrateCmd())

	// Running the binary without a subcommand starts the server.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("❌ " + err.Error())
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the default logger at the
// configured level.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
