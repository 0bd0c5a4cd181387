// Package sqlite is the durable record store, backed by modernc.org/sqlite
// with schema managed by embedded golang-migrate migrations.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"masareef/internal/store"

	_ "modernc.org/sqlite"
)

func init() {
	store.Register(store.SQLiteBackend, func(cfg store.Config) (store.Backend, error) {
		return Open(cfg.SQLitePath)
	})
}

type Store struct {
	db *sql.DB
}

var _ store.Backend = (*Store)(nil)

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
