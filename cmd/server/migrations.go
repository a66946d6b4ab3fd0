package main

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// migrateUp applies any pending migrations. Called on every server start
// so a fresh database is ready without a separate migration step.
func (app *application) migrateUp(ctx context.Context) error {
	return app.runMigrations(ctx, "up")
}

// runMigrations executes a goose command against the embedded migration
// set.
func (app *application) runMigrations(ctx context.Context, command string) error {
	goose.SetBaseFS(embeddedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.UpContext(ctx, app.db, "migrations"); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
	case "down":
		if err := goose.DownContext(ctx, app.db, "migrations"); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
	case "status":
		if err := goose.StatusContext(ctx, app.db, "migrations"); err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	app.logger.Info("migration command completed", "command", command)
	return nil
}
