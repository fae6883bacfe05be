package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"esg-dashboard/ghg-backend/internal/config"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open connects to the database described by cfg.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case "", "postgres":
		db, err := sqlx.Connect("postgres", cfg.GetDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if cfg.MaxConnections > 0 {
			db.SetMaxOpenConns(cfg.MaxConnections)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.MaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.MaxLifetime)
		}
		return db, nil
	case "sqlite":
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenSQLite opens (or creates) the SQLite database at path. ":memory:"
// gives a private in-memory database.
func OpenSQLite(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection keeps in-memory databases shared and serialises writes.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}
	return db, nil
}

// NewMemory opens an in-memory SQLite database for tests.
func NewMemory() (*sqlx.DB, error) {
	return OpenSQLite(":memory:")
}
