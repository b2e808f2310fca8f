// Package sqlite implements the persistence ports on top of a local sqlite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type DB struct {
	*sql.DB
}

// NewDB opens the sqlite database at the specified path, creating the file if
// it does not exist yet. The connection pool is capped at a single connection
// so that all storage access is serialized within the process.
func NewDB(ctx context.Context, path string) (*DB, error) {
	slog.Info("Opening sqlite database", "path", path)
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite database %q: %w", path, err)
	}
	database.SetMaxOpenConns(1)
	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("cannot reach sqlite database %q: %w", path, err)
	}
	return &DB{database}, nil
}

// Migrate brings the database schema up to date using the embedded migrations.
// This is invoked exactly once by the composition root before any repository
// use; repeated sequential calls are no-ops.
func (db *DB) Migrate(ctx context.Context) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("cannot get embedFS migrations folder: %w", err)
	}

	provider, err := goose.NewProvider(
		goose.DialectSQLite3,
		db.DB,
		migrations,
	)
	if err != nil {
		return fmt.Errorf("cannot create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("cannot run database migrations: %w", err)
	}

	return nil
}
