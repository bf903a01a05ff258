// The init package contains functions that setup required dependencies such as the SQLite database and the
// configured key space backend.
package initialization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/sqlite3"
	_ "github.com/golang-migrate/migrate/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/config"
	"github.com/sidereusnuntius/gonovel/internal/storage"
	"github.com/sidereusnuntius/gonovel/internal/storage/filestore"
	"github.com/sidereusnuntius/gonovel/internal/storage/redisstore"
	"github.com/sidereusnuntius/gonovel/internal/storage/sqlitestore"
)

// SetupDB creates the database, if it does not yet exist, and applies all remaining migrations.
func SetupDB(db *sql.DB, folder, dbname string) error {
	log.Info().Str("folder", folder).Msg("starting migrations")
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		log.Error().Err(err).Msg("failed to create sqlite3 migration driver")
		return err
	}

	mig, err := migrate.NewWithDatabaseInstance(
		"file://"+folder,
		dbname,
		driver,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Migrate object")
		return err
	}

	err = mig.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("database schema is up to date")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to run migrations")
		return err
	}
	log.Info().Msg("migrations applied")
	return nil
}

func OpenDB(connString string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", connString)
	if err != nil {
		log.Error().Err(err).Str("connection string", connString).Msg("failed to open database")
		return nil, err
	}
	// SQLite allows a single writer; one connection keeps writes from failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenStore opens the backend selected in the configuration. The returned closer releases the backend's
// resources and is never nil.
func OpenStore(ctx context.Context, cfg *config.Configuration) (storage.Store, io.Closer, error) {
	switch cfg.Backend {
	case config.SQLite:
		d, err := OpenDB(cfg.DbUrl)
		if err != nil {
			return nil, nil, err
		}
		if err = SetupDB(d, cfg.MigrationsFolder, cfg.DbUrl); err != nil {
			d.Close()
			return nil, nil, err
		}
		log.Info().Str("path", cfg.DbUrl).Msg("database connection established")
		return sqlitestore.New(d), d, nil
	case config.Files:
		s, err := filestore.New(cfg.FsRoot)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("root", cfg.FsRoot).Msg("using file store")
		return s, nopCloser{}, nil
	case config.Redis:
		s, err := redisstore.New(ctx, cfg.RedisUrl, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("prefix", cfg.RedisPrefix).Msg("redis connection established")
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
