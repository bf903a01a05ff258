package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/storage"
)

const (
	getQuery    = `SELECT value FROM kv WHERE key = ?`
	setQuery    = `INSERT INTO kv(key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	removeQuery = `DELETE FROM kv WHERE key = ?`
)

type sqliteStore struct {
	db *sql.DB
}

// New returns a store over the kv table of d. The table is created by the migrations in the migrations folder.
func New(d *sql.DB) storage.Store {
	return &sqliteStore{db: d}
}

// HandleError takes a database error and returns a higher level error that hides the implementation details.
func (s *sqliteStore) HandleError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return storage.ErrNotExist
	default:
		log.Error().Err(err).Msg("sqlite store error")
		return storage.ErrInternal
	}
}

func (s *sqliteStore) Get(ctx context.Context, key string) (value string, err error) {
	err = s.db.QueryRowContext(ctx, getQuery, key).Scan(&value)
	return value, s.HandleError(err)
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, setQuery, key, value)
	return s.HandleError(err)
}

func (s *sqliteStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, removeQuery, key)
	return s.HandleError(err)
}
