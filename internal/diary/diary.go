// Package diary implements the habit diary storage engine: a common
// connection interface over a CSV flat-file backend and a SQLite backend,
// plus the date-range and frequency analytics both the CLI and the TUI
// consume.
package diary

import (
	"errors"
	"path/filepath"
	"time"
)

// ErrEmptyDiary is returned by queries that need at least one date entry.
var ErrEmptyDiary = errors.New("diary contains no entries")

// ErrNotSupported is returned by operations a backend cannot perform,
// such as changing categories of a CSV data file after creation.
var ErrNotSupported = errors.New("operation not supported by this backend")

// UpdateResult reports what an UpdateRow call did to the diary.
type UpdateResult int

const (
	// AddedNew means the date was not present and a fresh entry was created.
	AddedNew UpdateResult = iota
	// ReplacedExisting means an entry for the date existed and was replaced.
	ReplacedExisting
)

// AddCategoryResult reports the outcome of AddCategory.
type AddCategoryResult int

const (
	// CategoryAdded means a new visible category was created.
	CategoryAdded AddCategoryResult = iota
	// CategoryUnhidden means a previously hidden category was made visible again.
	CategoryUnhidden
	// CategoryAlreadyPresent means a visible category with that name already
	// exists and nothing was changed.
	CategoryAlreadyPresent
)

// HideCategoryResult reports the outcome of HideCategory.
type HideCategoryResult int

const (
	// CategoryHidden means the category was visible and is now hidden.
	CategoryHidden HideCategoryResult = iota
	// CategoryAlreadyHidden means the category was hidden already.
	CategoryAlreadyHidden
	// CategoryNotFound means no category with that name exists.
	CategoryNotFound
)

// Category is one visible header entry. For the SQLite backend the ID is the
// Category row id; for the CSV backend it is the 1-based column position.
type Category struct {
	ID   int64
	Name string
}

// Row is the habit data of a single date. Tracked distinguishes a date with
// an explicit (possibly all-false) entry from a date with no entry at all.
type Row struct {
	Date    time.Time
	Tracked bool
	// Marks is aligned with Header(); nil when Tracked is false.
	Marks []bool
}

// Entry is one item of a batch update: the date and the ids of the
// categories active on it.
type Entry struct {
	Date        time.Time
	CategoryIDs []int64
}

// Signature is a distinct combination of active visible categories and the
// number of dates it occurred on.
type Signature struct {
	CategoryIDs []int64
	Count       int
}

// Diary is a connection to a habit diary. Implementations are not safe for
// concurrent use; a connection owns its underlying file or database handle
// until Close.
type Diary interface {
	// CountsPerRanges counts, for every range and every visible category,
	// the date entries in the range with that category active. The outer
	// slice matches ranges, the inner one matches Header order.
	CountsPerRanges(ranges []DateRange) ([][]int, error)

	// UpdateRow replaces the full association set of the date with the given
	// category ids. The prior set, if any, is discarded, never merged.
	UpdateRow(date time.Time, categoryIDs []int64) (UpdateResult, error)

	// UpdateRows applies UpdateRow for every item as one logical unit of
	// work. The SQLite backend wraps the whole batch in a single
	// transaction; the CSV backend persists only if every item applies.
	UpdateRows(items []Entry) error

	// MissingDates returns the dates in [from, until] with no entry,
	// inclusive on both ends. A nil from means the earliest existing entry;
	// with a nil from on an empty diary the result is empty.
	MissingDates(from *time.Time, until time.Time) ([]time.Time, error)

	// Header returns the visible categories in creation order.
	Header() ([]Category, error)

	// Row returns the entry for the date, with Tracked false when the date
	// has no entry.
	Row(date time.Time) (Row, error)

	// Rows returns one Row per date in [from, until], descending by date,
	// inclusive on both ends.
	Rows(from, until time.Time) ([]Row, error)

	// IsEmpty reports whether the diary has any date entries.
	IsEmpty() (bool, error)

	// DateSpan returns the earliest and latest entry dates. It fails with
	// ErrEmptyDiary when no entries exist.
	DateSpan() (min, max time.Time, err error)

	// AddCategory creates a visible category with the name, unhides a hidden
	// one, or reports that a visible one is already present.
	AddCategory(name string) (AddCategoryResult, error)

	// HideCategory hides the named category. History is kept; categories are
	// never deleted.
	HideCategory(name string) (HideCategoryResult, error)

	// MostFrequent ranks the distinct sets of active visible categories in
	// [from, until] by occurrence count, descending,
	// limited to limit entries when limit > 0. A nil from means the earliest
	// existing entry. Ties are broken by the lexicographic order of the
	// signature string.
	MostFrequent(from *time.Time, until time.Time, limit int) ([]Signature, error)

	Close() error
}

// Open opens an existing diary at path. A ".csv" extension selects the
// flat-file backend, anything else the SQLite backend.
func Open(path string) (Diary, error) {
	if isCSVPath(path) {
		return OpenCSV(path)
	}
	return OpenSQLite(path)
}

// Create creates a new diary at path with the given category names,
// dispatching on the extension like Open.
func Create(path string, categories []string) error {
	if isCSVPath(path) {
		return CreateCSV(path, categories)
	}
	return CreateSQLite(path, categories)
}

func isCSVPath(path string) bool {
	return filepath.Ext(path) == ".csv"
}
