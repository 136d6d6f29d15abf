package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"eventforms/database"
	"eventforms/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func NewServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			logger.Info("🔐 JWT_SECRET loaded successfully")

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			if migrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
				logger.Info("📦 Database migrated")
			}

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr:         cfg.HTTPAddr,
				Handler:      routes.NewRouter(cfg, db, logger),
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("🚀 Server running", "addr", cfg.HTTPAddr, "public_url", cfg.PublicBaseURL)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("listen: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("🛑 Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Run schema migrations before serving")

	return cmd
}
