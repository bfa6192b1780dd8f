package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func migrations() (fs.FS, error) {
	return fs.Sub(migrationFS, "migrations")
}

// Migrate applies every embedded migration that is not applied yet and
// returns the file names it ran.
func Migrate(ctx context.Context, db *sqlx.DB) ([]string, error) {
	fsys, err := migrations()
	if err != nil {
		return nil, err
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	applied := make([]string, 0, len(results))
	for _, r := range results {
		applied = append(applied, path.Base(r.Source.Path))
	}
	if err != nil {
		return applied, fmt.Errorf("apply migrations: %w", err)
	}
	return applied, nil
}
