package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"devdesk/common"
	"devdesk/config"
	"devdesk/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ServeCmd starts the HTTP server.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// loadConfig reads .env (if any) and then the configuration sources.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	}
	return config.Load()
}

// openStore connects to the configured database and creates missing tables.
func openStore(cfg config.DatabaseConfig) (*storage.Store, error) {
	db, err := storage.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := storage.EnsureSchema(db, common.Models()...); err != nil {
		return nil, err
	}
	return storage.NewStore(db), nil
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	z, err := NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = z.Sync() }()

	store, err := openStore(cfg.Database)
	if err != nil {
		z.Error("database setup failed", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		return err
	}
	defer store.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      SetupRouter(store, z, cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		z.Info("🚀 Server starting",
			zap.String("addr", srv.Addr),
			zap.String("driver", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	z.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
