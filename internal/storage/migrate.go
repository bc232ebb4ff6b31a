package storage

import (
	"context"
	"fmt"

	"github.com/goliatone/go-skillsnap/internal/storage/migrations"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// NewMigrator returns a migrator over the registered schema history.
func NewMigrator(db *bun.DB) *migrate.Migrator {
	return migrate.NewMigrator(db, migrations.Migrations)
}

// Migrate creates the bookkeeping tables if needed and applies every pending
// migration under the migration lock.
func Migrate(ctx context.Context, db *bun.DB, logger zerolog.Logger) (*migrate.MigrationGroup, error) {
	migrator := NewMigrator(db)

	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize migrator: %w", err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to release migration lock")
		}
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	if group.IsZero() {
		logger.Info().Msg("no new migrations to apply")
	} else {
		logger.Info().Str("group", group.String()).Msg("applied migrations")
	}
	return group, nil
}

// Rollback reverts the most recently applied migration group.
func Rollback(ctx context.Context, db *bun.DB, logger zerolog.Logger) (*migrate.MigrationGroup, error) {
	migrator := NewMigrator(db)

	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to release migration lock")
		}
	}()

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("rollback failed: %w", err)
	}

	if group.IsZero() {
		logger.Info().Msg("no migrations to roll back")
	} else {
		logger.Info().Str("group", group.String()).Msg("rolled back migrations")
	}
	return group, nil
}
