package cmd

import (
	"fmt"

	"github.com/goliatone/go-skillsnap/internal/storage"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management commands",
	Long:  `Commands for managing database migrations and schema.`,
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize migration tables",
	Long:  `Creates the migration tracking tables in the database. Run this once during initial setup.`,
	RunE: withDB(func(cmd *cobra.Command, db *bun.DB) error {
		if err := storage.NewMigrator(db).Init(cmd.Context()); err != nil {
			return fmt.Errorf("failed to initialize migrator: %w", err)
		}
		logger.Info().Msg("migration tables initialized")
		return nil
	}),
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Applies all pending migrations to the database with locking to prevent concurrent migrations.`,
	RunE: withDB(func(cmd *cobra.Command, db *bun.DB) error {
		_, err := storage.Migrate(cmd.Context(), db, logger)
		return err
	}),
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long:  `Displays applied and pending migrations.`,
	RunE: withDB(func(cmd *cobra.Command, db *bun.DB) error {
		ms, err := storage.NewMigrator(db).MigrationsWithStatus(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Migrations:")
		for _, m := range ms {
			status := "pending"
			if m.GroupID > 0 {
				status = fmt.Sprintf("applied (group %d)", m.GroupID)
			}
			fmt.Fprintf(out, "  %s: %s\n", m.Name, status)
		}
		fmt.Fprintf(out, "%d pending\n", len(ms.Unapplied()))
		return nil
	}),
}

var dbRollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Rollback last migration group",
	Long:  `Rolls back the most recently applied migration group with locking to prevent concurrent operations.`,
	RunE: withDB(func(cmd *cobra.Command, db *bun.DB) error {
		_, err := storage.Rollback(cmd.Context(), db, logger)
		return err
	}),
}

// withDB opens the configured database for the duration of fn.
func withDB(fn func(cmd *cobra.Command, db *bun.DB) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer storage.Close(db)

		return fn(cmd, db)
	}
}

func init() {
	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbRollbackCmd)
}
