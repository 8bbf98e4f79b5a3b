// Package tests holds integration tests that run against a real PostgreSQL
// database. They skip when DATABASE_URL is not set.
package tests

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meusugar/server/internal/db"
	"github.com/meusugar/server/internal/logging"
)

// tables lists every table the migrations create, children first.
var tables = []string{
	"media_items",
	"carousel_slides",
	"token_packages",
	"metrics",
	"external_links",
	"legal_pages",
	"models",
	"users",
}

// OpenTestDB connects to DATABASE_URL, applies the migrations and truncates all tables.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	database, err := db.Open(ctx, databaseURL, logging.Discard())
	require.NoError(t, err, "database open must succeed; check DATABASE_URL and that test DB exists")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.Migrate(database), "migrations must run successfully")
	require.NoError(t, TruncateTables(ctx, database))
	return database
}

// TruncateTables empties every application table for a clean test state.
func TruncateTables(ctx context.Context, database *sql.DB) error {
	query := "TRUNCATE TABLE "
	for i, name := range tables {
		if i > 0 {
			query += ", "
		}
		query += name
	}
	if _, err := database.ExecContext(ctx, query+" RESTART IDENTITY CASCADE"); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
