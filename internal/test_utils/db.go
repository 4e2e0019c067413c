package test_utils

import (
	"database/sql"
	"testing"

	"github.com/fintalk/fintalk/internal/database"
)

// SetupTestDB opens an isolated in-memory SQLite database with the full
// schema applied. Migrations are resolved the same way the application
// resolves them, so repo tests always run against the real schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	return db
}
