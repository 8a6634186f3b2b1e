package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return db.runMigrations(ctx, func(ctx context.Context, conn *sql.DB) error {
		return goose.UpContext(ctx, conn, migrationsDir)
	})
}

// Rollback reverts the most recent migration.
func (db *DB) Rollback(ctx context.Context) error {
	return db.runMigrations(ctx, func(ctx context.Context, conn *sql.DB) error {
		return goose.DownContext(ctx, conn, migrationsDir)
	})
}

// MigrationVersion returns the currently applied schema version.
func (db *DB) MigrationVersion(ctx context.Context) (int64, error) {
	var version int64
	err := db.runMigrations(ctx, func(ctx context.Context, conn *sql.DB) error {
		v, err := goose.GetDBVersionContext(ctx, conn)
		version = v
		return err
	})
	return version, err
}

func (db *DB) runMigrations(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	conn := stdlib.OpenDBFromPool(db.pool)
	defer conn.Close() //nolint:errcheck

	if err := fn(ctx, conn); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
