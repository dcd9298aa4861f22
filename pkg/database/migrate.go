package database

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Migrate creates the countries and indicators_data tables and their indexes
// if they are missing. It is idempotent and meant to run once at process start.
func Migrate(ctx context.Context, db *DB) error {
	b, err := schemaFS.ReadFile(db.Dialect.schemaFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", db.Dialect.schemaFile, err)
	}

	for _, stmt := range strings.Split(string(b), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
