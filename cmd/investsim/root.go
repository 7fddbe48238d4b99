package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/investsim/config"
	"github.com/rustyeddy/investsim/store"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "investsim",
	Short:         "Simulated crypto investing against a live price feed",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgPath == "" {
			cfg = config.Default()
			return nil
		}
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (YAML or JSON)")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(sellCmd)
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(marketCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func openStore() (*store.SQLite, error) {
	return store.Open(cfg.Store.DBPath)
}

func newLogger() *zap.Logger {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Log.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err == nil {
			zcfg.Level = level
		}
	}
	logger, err := zcfg.Build()
	if err != nil {
		// Fall back to a silent logger rather than refusing to run.
		return zap.NewNop()
	}
	return logger
}
