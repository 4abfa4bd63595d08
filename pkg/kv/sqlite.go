package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const (
	getBlobStatement = `
	SELECT value
	FROM blobs
	WHERE key = ?
	`

	setBlobStatement = `
	INSERT INTO blobs (key, value)
	VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()
	`
)

// SQLiteStore keeps blobs in the blobs table created by db.UpgradeDB.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getBlobStatement, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read blob '%s': %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, setBlobStatement, key, value); err != nil {
		return fmt.Errorf("failed to write blob '%s': %w", key, err)
	}
	return nil
}
