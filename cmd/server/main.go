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

	"golang.org/x/exp/slog"

	"credvault/internal/app/server/api"
	healthAPI "credvault/internal/app/server/api/http/health"
	"credvault/internal/app/server/config"
	"credvault/internal/gateway/local"
	"credvault/internal/infrastructure/storage"
	"credvault/internal/infrastructure/storage/memory"
	"credvault/internal/infrastructure/storage/postgres"
	"credvault/internal/infrastructure/storage/sqlite"
	"credvault/internal/metrics"
	"credvault/internal/utils/logger"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", logger.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blobs, pinger, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			log.Error("failed to close storage", logger.Err(err))
		}
	}()

	gateway := local.New(blobs, log, local.WithVaultName(cfg.Storage.VaultName))
	router := api.New(gateway, log, api.Options{
		Token:   cfg.Auth.Token,
		Metrics: metrics.New(),
		Pinger:  pinger,
	})

	server := &http.Server{
		Addr:         cfg.Server.RunAddress,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			"address", cfg.Server.RunAddress,
			"storage", cfg.Storage.Driver,
			"auth", cfg.Auth.Token != "",
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	// The vault key is dropped from memory with the session.
	_ = gateway.LockVault(shutdownCtx)
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.BlobStore, healthAPI.Pinger, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn("memory storage: the vault is lost on restart")
		return memory.New(), nil, nil
	case config.StoragePostgres:
		s, err := postgres.New(ctx, cfg.Storage.DatabaseURI, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres storage: %w", err)
		}
		return s, s, nil
	default:
		s, err := sqlite.New(cfg.Storage.SQLitePath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return s, nil, nil
	}
}
