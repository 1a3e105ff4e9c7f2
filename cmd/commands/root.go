package commands

// Root command for Cobra CLI
// Loads configuration and logging before any subcommand runs
// Registers all subcommands (greet, store, render)

import (
	"dtimelog/internal/infra/config"
	"dtimelog/internal/infra/log"

	"github.com/spf13/cobra"
)

// cfg is filled by the root PersistentPreRunE for the running subcommand.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dtimelog",
	Short: "dtimelog - greetings, a seeded record store and candlestick charts",
	Long: `dtimelog prints greetings, seeds a local SQLite record store with a fixed users table,
and renders daily price bars as an SVG or PNG candlestick chart.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntime,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { log.Sync() },
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (env: DTIMELOG_CONFIG, default ./config.yaml or ./etc/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (env: LOG_LEVEL)")

	rootCmd.AddCommand(greetCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(renderCmd)
}

func loadRuntime(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	cfg = loaded

	return log.Init(log.Options{
		Dir:     cfg.App.LogDir,
		Level:   cfg.App.LogLevel,
		Console: cfg.App.Console,
	})
}
