// Package migrations embeds the notes schema and applies it with goose at
// server startup.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var schemaFS embed.FS

// Migrate brings the notes schema up to the newest embedded migration.
// Running against an up-to-date database is a no-op, so the server applies it
// unconditionally on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(schemaFS)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("select migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply schema migrations: %w", err)
	}

	return nil
}
