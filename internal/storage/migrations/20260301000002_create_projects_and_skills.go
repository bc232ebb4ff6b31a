package migrations

import (
	"context"
	"fmt"

	"github.com/goliatone/go-skillsnap/internal/model"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20260301000002, down_20260301000002)
}

const ownerForeignKey = `("portfolio_user_id") REFERENCES "portfolio_users" ("id") ON DELETE CASCADE`

// up_20260301000002 creates the per-user resource tables. Rows go away with their owner.
func up_20260301000002(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		name  string
		model any
	}{
		{name: "projects", model: (*model.Project)(nil)},
		{name: "skills", model: (*model.Skill)(nil)},
	}

	for _, t := range tables {
		_, err := db.NewCreateTable().
			Model(t.model).
			IfNotExists().
			ForeignKey(ownerForeignKey).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}

		_, err = db.NewCreateIndex().
			Model(t.model).
			Index(fmt.Sprintf("idx_%s_portfolio_user_id", t.name)).
			Column("portfolio_user_id").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create owner index on %s: %w", t.name, err)
		}
	}
	return nil
}

// down_20260301000002 drops the projects and skills tables
func down_20260301000002(ctx context.Context, db *bun.DB) error {
	for _, m := range []any{(*model.Skill)(nil), (*model.Project)(nil)} {
		_, err := db.NewDropTable().
			Model(m).
			IfExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return nil
}
