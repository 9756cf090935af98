// Package sqlite keeps sealed vault blobs in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the sqlite3 database/sql driver.
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"credvault/internal/infrastructure/migration"
	"credvault/internal/infrastructure/storage"
)

type Storage struct {
	db  *sql.DB
	log *slog.Logger
}

var _ storage.BlobStore = (*Storage)(nil)

// New migrates the database at path and opens it.
func New(path string, log *slog.Logger) (*Storage, error) {
	mg := migration.NewMigration(migration.SQLite, migration.SQLiteURL(path), migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &Storage{
		db:  db,
		log: log.With("component", "sqlite_storage"),
	}, nil
}

func (s *Storage) Load(ctx context.Context, name string) ([]byte, error) {
	const query = `SELECT blob FROM vaults WHERE name = ?`

	var blob []byte
	err := s.db.QueryRowContext(ctx, query, name).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		s.log.Error("failed to load vault", "name", name, "error", err)
		return nil, fmt.Errorf("load vault: %w", err)
	}
	return blob, nil
}

func (s *Storage) Save(ctx context.Context, name string, blob []byte) error {
	const query = `
		INSERT INTO vaults (name, blob) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			blob = excluded.blob,
			revision = vaults.revision + 1,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.ExecContext(ctx, query, name, blob); err != nil {
		s.log.Error("failed to save vault", "name", name, "error", err)
		return fmt.Errorf("save vault: %w", err)
	}
	return nil
}

func (s *Storage) Exists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM vaults WHERE name = ?)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check vault: %w", err)
	}
	return exists, nil
}

// Revision reports how many times the blob has been written.
func (s *Storage) Revision(ctx context.Context, name string) (int64, error) {
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT revision FROM vaults WHERE name = ?`, name).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, storage.ErrNotFound
	}
	return rev, err
}

func (s *Storage) Close() error {
	return s.db.Close()
}
