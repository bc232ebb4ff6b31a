package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-skillsnap/internal/model"
	"github.com/uptrace/bun"
)

// ErrAlreadySeeded is returned by Seed when the database already has users.
var ErrAlreadySeeded = errors.New("storage: sample data already exists")

// PasswordHasher hashes the demo account password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// DemoEmail and DemoPassword are the credentials of the seeded account.
const (
	DemoEmail    = "jordan@skillsnap.com"
	DemoPassword = "password123"
)

// Seed inserts the demo portfolio in one transaction. It refuses to run
// against a database that already has users.
func Seed(ctx context.Context, db *bun.DB, hasher PasswordHasher) (*model.User, error) {
	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	user := &model.User{
		Email:           DemoEmail,
		Name:            "Jordan Developer",
		FirstName:       "Jordan",
		LastName:        "Developer",
		PasswordHash:    hash,
		Bio:             "Full-stack developer passionate about learning new tech.",
		ProfileImageURL: "https://example.com/images/jordan.png",
	}

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		users := NewUserRepository(tx)
		n, err := users.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadySeeded
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}

		projects := NewProjectRepository(tx)
		for _, p := range []model.Project{
			{Title: "Task Tracker", Description: "Manage tasks effectively", ImageURL: "https://example.com/images/task.png"},
			{Title: "Weather App", Description: "Forecast weather using APIs", ImageURL: "https://example.com/images/weather.png"},
		} {
			p.PortfolioUserID = user.ID
			if _, err := projects.Insert(ctx, p); err != nil {
				return fmt.Errorf("seed project %q: %w", p.Title, err)
			}
		}

		skills := NewSkillRepository(tx)
		for _, s := range []model.Skill{
			{Name: "C#", Level: model.LevelAdvanced},
			{Name: "Blazor", Level: model.LevelIntermediate},
		} {
			s.PortfolioUserID = user.ID
			if _, err := skills.Insert(ctx, s); err != nil {
				return fmt.Errorf("seed skill %q: %w", s.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
