package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// openV0Database builds a database with the pre-versioning schema: no Info
// table and no hidden column on Category.
func openV0Database(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := []string{
		`CREATE TABLE Category (
			category_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE DateEntry (
			date INTEGER PRIMARY KEY,
			created_at INTEGER NOT NULL
		)`,
		"INSERT INTO Category (name, created_at) VALUES ('A', 0), ('B', 0)",
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to build v0 schema: %v", err)
		}
	}
	return db
}

func TestGetCurrentVersionWithoutInfoTable(t *testing.T) {
	db := openV0Database(t)
	version, err := NewRunner(db).GetCurrentVersion()
	if err != nil {
		t.Fatalf("failed to read version: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestGetCurrentVersionUnparsableValue(t *testing.T) {
	db := openV0Database(t)
	if _, err := db.Exec("CREATE TABLE Info (name TEXT NOT NULL UNIQUE, value TEXT)"); err != nil {
		t.Fatalf("failed to create Info table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO Info (name, value) VALUES (?, 'not a number')", VersionKey); err != nil {
		t.Fatalf("failed to insert version row: %v", err)
	}

	version, err := NewRunner(db).GetCurrentVersion()
	if err != nil {
		t.Fatalf("failed to read version: %v", err)
	}
	if version != 0 {
		t.Errorf("expected unparsable version to read as 0, got %d", version)
	}
}

func TestApplyMigrationsFromV0(t *testing.T) {
	db := openV0Database(t)
	runner := NewRunner(db)

	var logged []string
	applied, err := runner.ApplyMigrations(func(msg string) { logged = append(logged, msg) })
	if err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected 1 applied step, got %d", applied)
	}
	if len(logged) == 0 {
		t.Error("expected migration progress to be logged")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("failed to read version: %v", err)
	}
	if version != CurrentVersion {
		t.Errorf("expected version %d after migration, got %d", CurrentVersion, version)
	}

	// The hidden column exists and existing categories stay visible.
	var hiddenCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM Category WHERE hidden = 0").Scan(&hiddenCount); err != nil {
		t.Fatalf("hidden column missing after migration: %v", err)
	}
	if hiddenCount != 2 {
		t.Errorf("expected 2 visible categories after migration, got %d", hiddenCount)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openV0Database(t)
	runner := NewRunner(db)

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second migration run failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no steps on an up-to-date database, got %d", applied)
	}
}

func TestApplyMigrationsRejectsNewerSchema(t *testing.T) {
	db := openV0Database(t)
	runner := NewRunner(db)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	if _, err := db.Exec("UPDATE Info SET value = '999' WHERE name = ?", VersionKey); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}
	_, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error for a schema newer than supported")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("unexpected error: %v", err)
	}
}
