package main

import (
	"context"
	"fmt"

	"github.com/jonathan/evidence-matcher/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the history database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd, func(ctx context.Context, database *db.DB) error {
			if err := database.Migrate(ctx); err != nil {
				return err
			}
			return printVersion(ctx, cmd, database)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd, func(ctx context.Context, database *db.DB) error {
			if err := database.Rollback(ctx); err != nil {
				return err
			}
			return printVersion(ctx, cmd, database)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd, func(ctx context.Context, database *db.DB) error {
			return printVersion(ctx, cmd, database)
		})
	},
}

func init() {
	addDatabaseFlag(migrateUpCmd)
	addDatabaseFlag(migrateDownCmd)
	addDatabaseFlag(migrateStatusCmd)

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func printVersion(ctx context.Context, cmd *cobra.Command, database *db.DB) error {
	version, err := database.MigrationVersion(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d\n", version)
	return err
}

// withDatabase resolves settings, connects, and runs fn against the database.
func withDatabase(cmd *cobra.Command, fn func(context.Context, *db.DB) error) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL, database_url in --config, or --db-url)")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	return fn(ctx, database)
}
