package cmd

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-skillsnap/internal/storage"
	"github.com/goliatone/go-skillsnap/pkg/di"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo portfolio",
	Long: `Creates the demo user ` + storage.DemoEmail + ` with two projects and two skills.
Refuses to run when any user already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c, err := di.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer c.Close()

		if _, err := storage.Migrate(ctx, c.DB(), logger); err != nil {
			return err
		}

		user, err := storage.Seed(ctx, c.DB(), c.Hasher())
		if errors.Is(err, storage.ErrAlreadySeeded) {
			logger.Warn().Msg("database already has users, nothing seeded")
			return err
		}
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		logger.Info().
			Int64("user_id", user.ID).
			Str("email", user.Email).
			Msg("seeded demo portfolio")
		return nil
	},
}
