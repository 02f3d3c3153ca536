package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/referral-roi/internal/config"
	"github.com/Simplici0/referral-roi/internal/db"
	"github.com/Simplici0/referral-roi/internal/httpapi"
	"github.com/Simplici0/referral-roi/internal/licensing"
	"github.com/Simplici0/referral-roi/internal/logger"
	"github.com/Simplici0/referral-roi/internal/migrations"
	"github.com/Simplici0/referral-roi/internal/seed"
	"github.com/Simplici0/referral-roi/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	database, err := db.Open(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if _, err := migrations.Up(ctx, database, log); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	stats, err := seed.Run(ctx, database, licensing.DefaultCatalog())
	if err != nil {
		return fmt.Errorf("seed line items: %w", err)
	}
	log.Info("line items seeded", zap.Int("inserts", stats.Inserts), zap.Int("skipped", stats.Skipped))

	handler := httpapi.NewRouter(httpapi.Options{
		Catalog:           store.NewCatalog(database),
		Logger:            log,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		EditableLineItems: cfg.LineItems.Editable,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("environment", cfg.App.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
