package diary

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlog/internal/backup"
	"github.com/julianstephens/habitlog/internal/migration"
)

// SQLiteDiary is the relational backend. Dates are stored as day-aligned UTC
// unix timestamps; category visibility is a soft flag, never a deletion.
type SQLiteDiary struct {
	path string
	db   *sql.DB
}

// OpenSQLite opens the diary database at path. Opening first writes a full
// backup next to the database, then brings the schema up to the current
// version. The connection is not usable unless both steps succeed.
func OpenSQLite(path string) (*SQLiteDiary, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if _, err := backup.Snapshot(path); err != nil {
		return nil, err
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	runner := migration.NewRunner(db)
	if _, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteDiary{path: path, db: db}, nil
}

// CreateSQLite creates a new diary database at path with one visible
// category per name, at the current schema version.
func CreateSQLite(path string, categories []string) error {
	if len(categories) == 0 {
		return fmt.Errorf("cannot create a diary without categories")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("a file already exists at %s", path)
	}

	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// DROP IF EXISTS keeps creation idempotent against a partially written
	// earlier attempt on the same path.
	schema := []string{
		"DROP TABLE IF EXISTS Info",
		"CREATE TABLE Info (name TEXT NOT NULL UNIQUE, value TEXT)",
		"DROP TABLE IF EXISTS Category",
		`CREATE TABLE Category (
			category_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			hidden INTEGER NOT NULL DEFAULT 0
		)`,
		"DROP TABLE IF EXISTS DateEntry",
		`CREATE TABLE DateEntry (
			date INTEGER PRIMARY KEY,
			created_at INTEGER NOT NULL
		)`,
		"DROP TABLE IF EXISTS EntryToCategories",
		`CREATE TABLE EntryToCategories (
			date INTEGER NOT NULL REFERENCES DateEntry(date) ON DELETE CASCADE,
			category_id INTEGER NOT NULL REFERENCES Category(category_id) ON DELETE CASCADE,
			PRIMARY KEY (category_id, date)
		)`,
	}
	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	now := time.Now().Unix()
	stmt, err := tx.Prepare("INSERT INTO Category (name, created_at, hidden) VALUES (?, ?, 0)")
	if err != nil {
		return fmt.Errorf("failed to prepare category insert: %w", err)
	}
	defer stmt.Close()
	for _, name := range categories {
		if _, err := stmt.Exec(name, now); err != nil {
			return fmt.Errorf("failed to insert category %q: %w", name, err)
		}
	}

	if err := migration.SetVersion(tx, migration.CurrentVersion); err != nil {
		return err
	}
	return tx.Commit()
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

func (d *SQLiteDiary) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// dateKey encodes a date as the unix timestamp of its UTC midnight.
func dateKey(date time.Time) int64 {
	return Day(date).Unix()
}

func keyDate(key int64) time.Time {
	return time.Unix(key, 0).UTC()
}

// visibleCategories returns the non-hidden categories in creation order.
func (d *SQLiteDiary) visibleCategories() ([]Category, error) {
	rows, err := d.db.Query("SELECT category_id, name FROM Category WHERE hidden = 0 ORDER BY category_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (d *SQLiteDiary) Header() ([]Category, error) {
	return d.visibleCategories()
}

func (d *SQLiteDiary) CountsPerRanges(ranges []DateRange) ([][]int, error) {
	categories, err := d.visibleCategories()
	if err != nil {
		return nil, err
	}

	stmt, err := d.db.Prepare("SELECT COUNT(*) FROM EntryToCategories WHERE category_id = ? AND date >= ? AND date <= ?")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare count query: %w", err)
	}
	defer stmt.Close()

	result := make([][]int, 0, len(ranges))
	for _, r := range ranges {
		counts := make([]int, 0, len(categories))
		for _, c := range categories {
			var count int
			if err := stmt.QueryRow(c.ID, dateKey(r.Earlier), dateKey(r.Later)).Scan(&count); err != nil {
				return nil, fmt.Errorf("failed to count occurrences of category %d: %w", c.ID, err)
			}
			counts = append(counts, count)
		}
		result = append(result, counts)
	}
	return result, nil
}

func (d *SQLiteDiary) UpdateRow(date time.Time, categoryIDs []int64) (UpdateResult, error) {
	return d.updateRows([]Entry{{Date: date, CategoryIDs: categoryIDs}})
}

// UpdateRows applies the whole batch in one transaction; any failing item
// rolls back every other one.
func (d *SQLiteDiary) UpdateRows(items []Entry) error {
	_, err := d.updateRows(items)
	return err
}

// updateRows replaces the association set of every item's date. The returned
// UpdateResult describes the first item only, which is all a single-row
// update needs.
func (d *SQLiteDiary) updateRows(items []Entry) (UpdateResult, error) {
	known, err := d.knownCategoryIDs()
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		for _, id := range item.CategoryIDs {
			if !known[id] {
				return 0, fmt.Errorf("unknown category id %d for date %s", id, FormatDay(item.Date))
			}
		}
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleteStmt, err := tx.Prepare("DELETE FROM DateEntry WHERE date = ?")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare entry delete: %w", err)
	}
	defer deleteStmt.Close()
	entryStmt, err := tx.Prepare("INSERT INTO DateEntry (date, created_at) VALUES (?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer entryStmt.Close()
	assocStmt, err := tx.Prepare("INSERT INTO EntryToCategories (date, category_id) VALUES (?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare association insert: %w", err)
	}
	defer assocStmt.Close()

	result := AddedNew
	for i, item := range items {
		key := dateKey(item.Date)

		// Replace semantics: drop the old entry (cascading its
		// associations) and insert a fresh one.
		res, err := deleteStmt.Exec(key)
		if err != nil {
			return 0, fmt.Errorf("failed to clear entry for %s: %w", FormatDay(item.Date), err)
		}
		if i == 0 {
			deleted, err := res.RowsAffected()
			if err != nil {
				return 0, fmt.Errorf("failed to read affected rows for %s: %w", FormatDay(item.Date), err)
			}
			if deleted > 0 {
				result = ReplacedExisting
			}
		}

		if _, err := entryStmt.Exec(key, time.Now().Unix()); err != nil {
			return 0, fmt.Errorf("failed to insert entry for %s: %w", FormatDay(item.Date), err)
		}
		for _, id := range item.CategoryIDs {
			if _, err := assocStmt.Exec(key, id); err != nil {
				return 0, fmt.Errorf("failed to insert association (%s, %d): %w", FormatDay(item.Date), id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit update: %w", err)
	}
	return result, nil
}

// knownCategoryIDs returns every category id in the database, hidden ones
// included: visibility restricts reads, not writes.
func (d *SQLiteDiary) knownCategoryIDs() (map[int64]bool, error) {
	rows, err := d.db.Query("SELECT category_id FROM Category")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	known := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		known[id] = true
	}
	return known, rows.Err()
}

func (d *SQLiteDiary) MissingDates(from *time.Time, until time.Time) ([]time.Time, error) {
	until = Day(until)

	start, ok, err := d.lowerBound(from)
	if err != nil || !ok {
		return nil, err
	}

	rows, err := d.db.Query("SELECT date FROM DateEntry WHERE date >= ? AND date <= ? ORDER BY date", dateKey(start), dateKey(until))
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var existing []time.Time
	for rows.Next() {
		var key int64
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		existing = append(existing, keyDate(key))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return missingInSequence(existing, start, until), nil
}

// lowerBound resolves an optional from date to the query lower bound. The
// second return is false when the diary is empty and no from was given.
func (d *SQLiteDiary) lowerBound(from *time.Time) (time.Time, bool, error) {
	if from != nil {
		return Day(*from), true, nil
	}
	var minKey sql.NullInt64
	if err := d.db.QueryRow("SELECT MIN(date) FROM DateEntry").Scan(&minKey); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query earliest entry: %w", err)
	}
	if !minKey.Valid {
		return time.Time{}, false, nil
	}
	return keyDate(minKey.Int64), true, nil
}

func (d *SQLiteDiary) Row(date time.Time) (Row, error) {
	date = Day(date)

	var entries int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM DateEntry WHERE date = ?", dateKey(date)).Scan(&entries); err != nil {
		return Row{}, fmt.Errorf("failed to query entry for %s: %w", FormatDay(date), err)
	}
	if entries == 0 {
		return Row{Date: date}, nil
	}

	categories, err := d.visibleCategories()
	if err != nil {
		return Row{}, err
	}
	active, err := d.activeCategoryIDs(date)
	if err != nil {
		return Row{}, err
	}

	marks := make([]bool, 0, len(categories))
	for _, c := range categories {
		marks = append(marks, active[c.ID])
	}
	return Row{Date: date, Tracked: true, Marks: marks}, nil
}

// activeCategoryIDs returns the visible categories marked on the date.
func (d *SQLiteDiary) activeCategoryIDs(date time.Time) (map[int64]bool, error) {
	rows, err := d.db.Query(`
		SELECT e.category_id
		FROM EntryToCategories e
		JOIN Category c ON c.category_id = e.category_id
		WHERE e.date = ? AND c.hidden = 0`, dateKey(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query associations for %s: %w", FormatDay(date), err)
	}
	defer rows.Close()

	active := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		active[id] = true
	}
	return active, rows.Err()
}

func (d *SQLiteDiary) Rows(from, until time.Time) ([]Row, error) {
	from, until = Day(from), Day(until)

	categories, err := d.visibleCategories()
	if err != nil {
		return nil, err
	}
	tracked, activeByDate, err := d.entriesInSpan(from, until)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for date := until; !date.Before(from); date = addDays(date, -1) {
		key := dateKey(date)
		if !tracked[key] {
			rows = append(rows, Row{Date: date})
			continue
		}
		marks := make([]bool, 0, len(categories))
		for _, c := range categories {
			marks = append(marks, activeByDate[key][c.ID])
		}
		rows = append(rows, Row{Date: date, Tracked: true, Marks: marks})
	}
	return rows, nil
}

// entriesInSpan loads every tracked date in [from, until] and the visible
// categories marked on each.
func (d *SQLiteDiary) entriesInSpan(from, until time.Time) (map[int64]bool, map[int64]map[int64]bool, error) {
	rows, err := d.db.Query(`
		SELECT d.date, e.category_id
		FROM DateEntry d
		LEFT JOIN EntryToCategories e ON e.date = d.date
		LEFT JOIN Category c ON c.category_id = e.category_id
		WHERE d.date >= ? AND d.date <= ? AND (e.category_id IS NULL OR c.hidden = 0)`,
		dateKey(from), dateKey(until))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	tracked := make(map[int64]bool)
	activeByDate := make(map[int64]map[int64]bool)
	for rows.Next() {
		var key int64
		var categoryID sql.NullInt64
		if err := rows.Scan(&key, &categoryID); err != nil {
			return nil, nil, err
		}
		tracked[key] = true
		if categoryID.Valid {
			if activeByDate[key] == nil {
				activeByDate[key] = make(map[int64]bool)
			}
			activeByDate[key][categoryID.Int64] = true
		}
	}
	return tracked, activeByDate, rows.Err()
}

func (d *SQLiteDiary) IsEmpty() (bool, error) {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM DateEntry").Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count entries: %w", err)
	}
	return count == 0, nil
}

func (d *SQLiteDiary) DateSpan() (time.Time, time.Time, error) {
	var minKey, maxKey sql.NullInt64
	if err := d.db.QueryRow("SELECT MIN(date), MAX(date) FROM DateEntry").Scan(&minKey, &maxKey); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to query date span: %w", err)
	}
	if !minKey.Valid || !maxKey.Valid {
		return time.Time{}, time.Time{}, ErrEmptyDiary
	}
	return keyDate(minKey.Int64), keyDate(maxKey.Int64), nil
}

func (d *SQLiteDiary) AddCategory(name string) (AddCategoryResult, error) {
	var id int64
	var hidden int
	err := d.db.QueryRow("SELECT category_id, hidden FROM Category WHERE name = ? ORDER BY category_id LIMIT 1", name).Scan(&id, &hidden)
	switch {
	case err == sql.ErrNoRows:
		if _, err := d.db.Exec("INSERT INTO Category (name, created_at, hidden) VALUES (?, ?, 0)", name, time.Now().Unix()); err != nil {
			return 0, fmt.Errorf("failed to insert category %q: %w", name, err)
		}
		return CategoryAdded, nil
	case err != nil:
		return 0, fmt.Errorf("failed to look up category %q: %w", name, err)
	case hidden != 0:
		if _, err := d.db.Exec("UPDATE Category SET hidden = 0 WHERE category_id = ?", id); err != nil {
			return 0, fmt.Errorf("failed to unhide category %q: %w", name, err)
		}
		return CategoryUnhidden, nil
	default:
		return CategoryAlreadyPresent, nil
	}
}

func (d *SQLiteDiary) HideCategory(name string) (HideCategoryResult, error) {
	var id int64
	var hidden int
	err := d.db.QueryRow("SELECT category_id, hidden FROM Category WHERE name = ? ORDER BY category_id LIMIT 1", name).Scan(&id, &hidden)
	switch {
	case err == sql.ErrNoRows:
		return CategoryNotFound, nil
	case err != nil:
		return 0, fmt.Errorf("failed to look up category %q: %w", name, err)
	case hidden != 0:
		return CategoryAlreadyHidden, nil
	default:
		if _, err := d.db.Exec("UPDATE Category SET hidden = 1 WHERE category_id = ?", id); err != nil {
			return 0, fmt.Errorf("failed to hide category %q: %w", name, err)
		}
		return CategoryHidden, nil
	}
}

func (d *SQLiteDiary) MostFrequent(from *time.Time, until time.Time, limit int) ([]Signature, error) {
	until = Day(until)

	start, ok, err := d.lowerBound(from)
	if err != nil || !ok {
		return nil, err
	}

	tracked, activeByDate, err := d.entriesInSpan(start, until)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for key := range tracked {
		var ids []int64
		for id := range activeByDate[key] {
			ids = append(ids, id)
		}
		counts[signatureKey(ids)]++
	}
	return rankSignatures(counts, limit), nil
}
