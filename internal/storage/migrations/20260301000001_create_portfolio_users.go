package migrations

import (
	"context"
	"fmt"

	"github.com/goliatone/go-skillsnap/internal/model"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20260301000001, down_20260301000001)
}

// up_20260301000001 creates the portfolio_users table
func up_20260301000001(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*model.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create portfolio_users table: %w", err)
	}
	return nil
}

// down_20260301000001 drops the portfolio_users table
func down_20260301000001(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDropTable().
		Model((*model.User)(nil)).
		IfExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop portfolio_users table: %w", err)
	}
	return nil
}
