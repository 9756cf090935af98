// Package postgres keeps sealed vault blobs in PostgreSQL for the HTTP server.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"credvault/internal/infrastructure/migration"
	"credvault/internal/infrastructure/storage"
)

type Storage struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ storage.BlobStore = (*Storage)(nil)

func New(ctx context.Context, databaseURI string, log *slog.Logger) (*Storage, error) {
	mg := migration.NewMigration(migration.Postgres, databaseURI, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	pool, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return &Storage{
		pool: pool,
		log:  log.With("component", "postgres_storage"),
	}, nil
}

func (s *Storage) Load(ctx context.Context, name string) ([]byte, error) {
	const query = `SELECT blob FROM vaults WHERE name = $1`

	var blob []byte
	err := s.pool.QueryRow(ctx, query, name).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		s.log.Error("failed to load vault", "name", name, "error", err)
		return nil, fmt.Errorf("load vault: %w", err)
	}
	return blob, nil
}

func (s *Storage) Save(ctx context.Context, name string, blob []byte) error {
	const query = `
		INSERT INTO vaults (name, blob) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET
			blob = EXCLUDED.blob,
			revision = vaults.revision + 1,
			updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, name, blob); err != nil {
		s.log.Error("failed to save vault", "name", name, "error", err)
		return fmt.Errorf("save vault: %w", err)
	}
	return nil
}

func (s *Storage) Exists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM vaults WHERE name = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check vault: %w", err)
	}
	return exists, nil
}

// Ping is used by the health check.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}
