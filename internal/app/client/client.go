// Package client assembles the catalog store with the configured backend for the CLI.
package client

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slog"

	"credvault/internal/app/client/config"
	"credvault/internal/app/client/httpgateway"
	"credvault/internal/domain/catalog"
	"credvault/internal/gateway/local"
	"credvault/internal/infrastructure/storage/sqlite"
	"credvault/internal/metrics"
)

type App struct {
	config  *config.Config
	log     *slog.Logger
	store   *catalog.Store
	metrics *metrics.Metrics
	closer  io.Closer
}

// New connects the configured backend. Nothing is unlocked yet.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	m := metrics.New()

	var (
		gateway catalog.Gateway
		closer  io.Closer
	)
	switch cfg.Backend {
	case config.BackendRemote:
		gateway = httpgateway.New(cfg.ServerAddress, log, httpgateway.WithToken(cfg.APIToken))
	default:
		blobs, err := sqlite.New(cfg.DBPath, log)
		if err != nil {
			return nil, fmt.Errorf("open vault database: %w", err)
		}
		gateway = local.New(blobs, log,
			local.WithLockFile(cfg.LockPath),
			local.WithVaultName(cfg.VaultName),
		)
		closer = blobs
	}

	return NewWithGateway(cfg, log, gateway, closer, m), nil
}

// NewWithGateway builds an App around an existing gateway. closer may be nil.
func NewWithGateway(cfg *config.Config, log *slog.Logger, gateway catalog.Gateway, closer io.Closer, m *metrics.Metrics) *App {
	return &App{
		config:  cfg,
		log:     log,
		store:   catalog.NewStore(gateway, log, catalog.WithRecorder(m)),
		metrics: m,
		closer:  closer,
	}
}

func (a *App) Store() *catalog.Store {
	return a.store
}

func (a *App) Config() *config.Config {
	return a.config
}

// Open unlocks the vault with password unless it is already unlocked.
func (a *App) Open(ctx context.Context, password string) error {
	status, err := a.store.CheckStatus(ctx)
	if err != nil {
		return err
	}
	switch status {
	case catalog.StatusUnlocked:
		return nil
	case catalog.StatusNeedsSetup:
		return fmt.Errorf("no vault yet, run: credvault vault init")
	}
	return a.store.Unlock(ctx, password)
}

// Close locks the vault and releases the backend.
func (a *App) Close(ctx context.Context) error {
	if a.store.Unlocked() {
		if err := a.store.Lock(ctx); err != nil {
			a.log.Warn("failed to lock vault", "error", err)
		}
	}
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// WriteMetrics dumps the operation metrics in the node_exporter textfile format.
func (a *App) WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, a.metrics.Registry())
}
