package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/akarpovs/shelfkeeper/internal/migrations"
)

// RunMigrations applies the embedded goose migrations to db. Migrations are
// additive only: new fields arrive with defaults so records written by older
// versions keep working (see 00002_location_default.sql).
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenDB opens the SQLite database at dsn and brings the schema up to date.
// The caller must have registered a driver named "sqlite" (the CLI blank-
// imports modernc.org/sqlite).
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The store serializes writes itself; one connection keeps SQLite's
	// locking out of the picture.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
