// Package cmd holds the skillsnap command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/goliatone/go-skillsnap/internal/config"
	"github.com/goliatone/go-skillsnap/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "skillsnap",
	Short: "SkillSnap portfolio API",
	Long: `SkillSnap serves per-user projects and skills over a JSON API, backed by a
relational store and a shared read-through cache.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if dbURL, _ := cmd.Flags().GetString("db-url"); dbURL != "" {
			cfg.DatabaseURL = dbURL
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.LogLevel = level
		}

		logger = logging.New(os.Stderr, cfg.LogLevel, cfg.LogPretty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("db-url", "", "Database connection URL (env: DATABASE_URL)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (env: LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(seedCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
