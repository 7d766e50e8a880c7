// Package migration manages the versioned schema of SQLite diary databases.
// The schema version is stored as a string row in the Info table; a missing
// or unparsable version means version 0.
package migration

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

// VersionKey is the Info row name under which the schema version is stored.
const VersionKey = "version"

// CurrentVersion is the schema version this build reads and writes.
const CurrentVersion = 1

// Step migrates a database from version From to From+1. Steps must be
// idempotent against partial prior runs.
type Step struct {
	From  int
	Name  string
	Apply func(tx *sql.Tx) error
}

// Steps is the ordered migration chain, one entry per version gap.
var Steps = []Step{
	{From: 0, Name: "info table and hidden categories", Apply: migrateV0ToV1},
}

// Runner applies pending migrations to one database.
type Runner struct {
	db *sql.DB
}

// NewRunner creates a migration runner for db.
func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// GetCurrentVersion reads the stored schema version. A database without an
// Info table or with an unparsable stored value is version 0.
func (r *Runner) GetCurrentVersion() (int, error) {
	var exists int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='Info'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var value string
	err = r.db.QueryRow("SELECT value FROM Info WHERE name = ?", VersionKey).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, nil
	}
	return version, nil
}

// SetVersion stamps the schema version inside tx.
func SetVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec(
		"INSERT INTO Info (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value",
		VersionKey, strconv.Itoa(version),
	)
	if err != nil {
		return fmt.Errorf("failed to stamp schema version %d: %w", version, err)
	}
	return nil
}

// ApplyMigrations runs every pending step in order, each in its own
// transaction that also stamps the new version. Returns the number of steps
// applied. Progress is reported through logFn, which may be nil.
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	current, err := r.GetCurrentVersion()
	if err != nil {
		return 0, err
	}
	if current > CurrentVersion {
		return 0, fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade the application", current, CurrentVersion)
	}
	if current == CurrentVersion {
		return 0, nil
	}

	logFn(fmt.Sprintf("Migrating database schema from version %d to %d", current, CurrentVersion))

	applied := 0
	for version := current; version < CurrentVersion; version++ {
		step, ok := stepFrom(version)
		if !ok {
			return applied, fmt.Errorf("no migration step from version %d", version)
		}

		tx, err := r.db.Begin()
		if err != nil {
			return applied, fmt.Errorf("failed to begin transaction for migration %d: %w", step.From, err)
		}
		if err := step.Apply(tx); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("failed to apply migration %d (%s): %w", step.From, step.Name, err)
		}
		if err := SetVersion(tx, step.From+1); err != nil {
			_ = tx.Rollback()
			return applied, err
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("failed to commit migration %d: %w", step.From, err)
		}

		applied++
		logFn(fmt.Sprintf("  Applied migration %d: %s", step.From+1, step.Name))
	}
	return applied, nil
}

func stepFrom(version int) (Step, bool) {
	for _, step := range Steps {
		if step.From == version {
			return step, true
		}
	}
	return Step{}, false
}

// migrateV0ToV1 introduces the Info metadata table and the hidden flag on
// categories. Version 0 databases predate both.
func migrateV0ToV1(tx *sql.Tx) error {
	// Rebuild Info from scratch so a partial earlier run cannot leave a
	// half-initialized table behind.
	if _, err := tx.Exec("DROP TABLE IF EXISTS Info"); err != nil {
		return err
	}
	if _, err := tx.Exec("CREATE TABLE Info (name TEXT NOT NULL UNIQUE, value TEXT)"); err != nil {
		return err
	}

	hasHidden, err := columnExists(tx, "Category", "hidden")
	if err != nil {
		return err
	}
	if !hasHidden {
		if _, err := tx.Exec("ALTER TABLE Category ADD COLUMN hidden INTEGER NOT NULL DEFAULT 0"); err != nil {
			return err
		}
	}
	return nil
}

func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			dfltValue  sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &primaryKey); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
