package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-skillsnap/internal/storage"
	"github.com/goliatone/go-skillsnap/pkg/di"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout      = 30 * time.Second
	limiterSweepInterval = time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Starts the HTTP server. Pending migrations are applied first unless --migrate=false.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ServerAddr = addr
		}
		runMigrations, _ := cmd.Flags().GetBool("migrate")

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		c, err := di.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer c.Close()

		logger.Info().
			Str("database", string(storage.DetectDatabaseType(cfg.DatabaseURL))).
			Msg("connected to database")

		if runMigrations {
			if _, err := storage.Migrate(ctx, c.DB(), logger); err != nil {
				return err
			}
		}

		go c.AuthLimiter().Run(ctx, limiterSweepInterval, logger)

		srv := &http.Server{
			Addr:              cfg.ServerAddr,
			Handler:           c.Router(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", srv.Addr).Msg("starting server")
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				srv.Close()
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}
			logger.Info().Msg("server stopped")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Server bind address (env: SERVER_ADDR)")
	serveCmd.Flags().Bool("migrate", true, "Apply pending migrations before serving")
}
