package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/config"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/logging"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/store"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rumorsim",
		Short: "Rumor propagation simulator for scale-free social networks",
		Long: `rumorsim grows scale-free social networks and simulates how a rumor
spreads, mutates, and fragments as nodes broadcast, remember, and
garble what they hear.

Generated networks and run results are stored in SQLite so they can be
reused across runs, compared, and rendered after the fact.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.rumorsim/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log verbosity: info, debug, or trace (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newGenerateCmd(),
		newNetworksCmd(),
		newRunCmd(),
		newRunsCmd(),
		newStatsCmd(),
		newRenderCmd(),
		newExperimentCmd(),
		newServeCmd(),
	)

	return rootCmd
}

// loadConfig resolves the configuration a subcommand runs with: the --config
// file if given, otherwise the default locations, with the --db and
// --log-level flags applied on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Storage.Path = db
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newSimLogger builds the operational logger for a subcommand. Logs go to
// stderr so stdout stays clean for command output and --json consumers.
func newSimLogger(cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, os.Stderr)
}

// openStore opens the result database named by the configuration.
func openStore(cfg *config.Config) (*store.Store, error) {
	s, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.Storage.Path, err)
	}
	return s, nil
}
