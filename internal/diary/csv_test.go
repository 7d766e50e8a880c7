package diary

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupCSVDiary(t *testing.T) *CSVDiary {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := CreateCSV(path, []string{"A", "B", "C"}); err != nil {
		t.Fatalf("failed to create data file: %v", err)
	}
	d, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("failed to open data file: %v", err)
	}
	return d
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestCSVRoundTrip(t *testing.T) {
	d := setupCSVDiary(t)

	if _, err := d.UpdateRow(day(t, "2021-01-03"), []int64{1, 2}); err != nil {
		t.Fatalf("failed to update row: %v", err)
	}
	if _, err := d.UpdateRow(day(t, "2021-01-01"), []int64{3}); err != nil {
		t.Fatalf("failed to update row: %v", err)
	}

	reopened, err := OpenCSV(d.path)
	if err != nil {
		t.Fatalf("failed to reopen data file: %v", err)
	}
	if len(reopened.header) != 3 || reopened.header[0] != "A" {
		t.Errorf("header not preserved: %v", reopened.header)
	}

	row, err := reopened.Row(day(t, "2021-01-03"))
	if err != nil {
		t.Fatalf("failed to read row: %v", err)
	}
	if !row.Tracked {
		t.Fatal("expected 2021-01-03 to be tracked")
	}
	if !row.Marks[0] || !row.Marks[1] || row.Marks[2] {
		t.Errorf("expected marks [true true false], got %v", row.Marks)
	}

	content, err := os.ReadFile(d.path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	want := []string{"date,A,B,C", "2021-01-01,,,x", "2021-01-03,x,x,"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestCSVParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty header", "date\n"},
		{"blank category", "date,A,,C\n"},
		{"width mismatch", "date,A,B\n2021-01-01,x\n"},
		{"duplicate date", "date,A\n2021-01-01,x\n2021-01-01,\n"},
		{"bad date", "date,A\nnot-a-date,x\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCSV(t, tc.content)
			if _, err := OpenCSV(path); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestCSVAnyNonEmptyCellIsTrue(t *testing.T) {
	path := writeCSV(t, "date,A,B\n2021-01-01,yes,\n")
	d, err := OpenCSV(path)
	if err != nil {
		t.Fatalf("failed to open data file: %v", err)
	}
	row, err := d.Row(day(t, "2021-01-01"))
	if err != nil {
		t.Fatalf("failed to read row: %v", err)
	}
	if !row.Marks[0] || row.Marks[1] {
		t.Errorf("expected marks [true false], got %v", row.Marks)
	}
}

func TestCSVUpdateRowReplaces(t *testing.T) {
	d := setupCSVDiary(t)
	date := day(t, "2021-06-01")

	result, err := d.UpdateRow(date, []int64{1})
	if err != nil {
		t.Fatalf("failed to update row: %v", err)
	}
	if result != AddedNew {
		t.Errorf("expected AddedNew, got %v", result)
	}

	result, err = d.UpdateRow(date, []int64{2})
	if err != nil {
		t.Fatalf("failed to update row: %v", err)
	}
	if result != ReplacedExisting {
		t.Errorf("expected ReplacedExisting, got %v", result)
	}

	// Replace, never merge: the first update's mark must be gone.
	row, err := d.Row(date)
	if err != nil {
		t.Fatalf("failed to read row: %v", err)
	}
	if row.Marks[0] || !row.Marks[1] {
		t.Errorf("expected marks [false true false], got %v", row.Marks)
	}
}

func TestCSVUpdateRowUnknownID(t *testing.T) {
	d := setupCSVDiary(t)
	if _, err := d.UpdateRow(day(t, "2021-06-01"), []int64{4}); err == nil {
		t.Error("expected error for out-of-range category id")
	}
	if _, err := d.UpdateRow(day(t, "2021-06-01"), []int64{0}); err == nil {
		t.Error("expected error for zero category id")
	}
}

func fillCSVWorkedExample(t *testing.T, d *CSVDiary) {
	t.Helper()
	items := []Entry{
		{Date: day(t, "2021-01-01"), CategoryIDs: []int64{1}},
		{Date: day(t, "2021-01-02"), CategoryIDs: []int64{1}},
		{Date: day(t, "2021-01-03"), CategoryIDs: []int64{1, 2}},
		{Date: day(t, "2021-01-04"), CategoryIDs: []int64{1, 2, 3}},
		{Date: day(t, "2021-01-05"), CategoryIDs: []int64{1}},
	}
	if err := d.UpdateRows(items); err != nil {
		t.Fatalf("failed to fill diary: %v", err)
	}
}

func TestCSVCountsPerRanges(t *testing.T) {
	d := setupCSVDiary(t)
	fillCSVWorkedExample(t, d)

	ranges := ComputeRanges(day(t, "2021-01-05"), 2, 3)
	counts, err := d.CountsPerRanges(ranges)
	if err != nil {
		t.Fatalf("failed to calculate counts: %v", err)
	}

	want := [][]int{{2, 1, 1}, {2, 1, 0}, {1, 0, 0}}
	assertCounts(t, counts, want)
}

func assertCounts(t *testing.T, got, want [][]int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d count vectors, got %d", len(want), len(got))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("vector %d: expected %d counts, got %d", i, len(want[i]), len(got[i]))
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("counts[%d][%d]: expected %d, got %d", i, j, want[i][j], got[i][j])
			}
		}
	}
}

func TestCSVMissingDates(t *testing.T) {
	d := setupCSVDiary(t)

	// Empty diary with no lower bound has nothing to report.
	missing, err := d.MissingDates(nil, day(t, "2023-02-10"))
	if err != nil {
		t.Fatalf("failed to get missing dates: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing dates on empty diary, got %d", len(missing))
	}

	if err := d.UpdateRows([]Entry{
		{Date: day(t, "2023-02-04"), CategoryIDs: []int64{2}},
		{Date: day(t, "2023-02-07"), CategoryIDs: []int64{3}},
	}); err != nil {
		t.Fatalf("failed to fill diary: %v", err)
	}

	missing, err = d.MissingDates(nil, day(t, "2023-02-10"))
	if err != nil {
		t.Fatalf("failed to get missing dates: %v", err)
	}
	assertDates(t, missing, []string{"2023-02-05", "2023-02-06", "2023-02-08", "2023-02-09", "2023-02-10"})

	// Entries before an explicit lower bound must not disturb the merge.
	from := day(t, "2023-02-06")
	missing, err = d.MissingDates(&from, day(t, "2023-02-08"))
	if err != nil {
		t.Fatalf("failed to get missing dates: %v", err)
	}
	assertDates(t, missing, []string{"2023-02-06", "2023-02-08"})
}

func TestCSVDateSpan(t *testing.T) {
	d := setupCSVDiary(t)

	if _, _, err := d.DateSpan(); !errors.Is(err, ErrEmptyDiary) {
		t.Errorf("expected ErrEmptyDiary, got %v", err)
	}

	empty, err := d.IsEmpty()
	if err != nil || !empty {
		t.Errorf("expected empty diary, got empty=%v err=%v", empty, err)
	}

	fillCSVWorkedExample(t, d)
	min, max, err := d.DateSpan()
	if err != nil {
		t.Fatalf("failed to get date span: %v", err)
	}
	if FormatDay(min) != "2021-01-01" || FormatDay(max) != "2021-01-05" {
		t.Errorf("expected span 2021-01-01..2021-01-05, got %s..%s", FormatDay(min), FormatDay(max))
	}
}

func TestCSVCategoryOperationsNotSupported(t *testing.T) {
	d := setupCSVDiary(t)
	if _, err := d.AddCategory("D"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("expected ErrNotSupported, got %v", err)
	}
	if _, err := d.HideCategory("A"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("expected ErrNotSupported, got %v", err)
	}
}

func TestCSVMostFrequent(t *testing.T) {
	d := setupCSVDiary(t)
	fillCSVWorkedExample(t, d)

	signatures, err := d.MostFrequent(nil, day(t, "2021-01-05"), 0)
	if err != nil {
		t.Fatalf("failed to rank signatures: %v", err)
	}
	// {1} on three days, {1,2} and {1,2,3} once each, tie broken by
	// signature string.
	if len(signatures) != 3 {
		t.Fatalf("expected 3 signatures, got %d", len(signatures))
	}
	if signatures[0].Count != 3 || len(signatures[0].CategoryIDs) != 1 || signatures[0].CategoryIDs[0] != 1 {
		t.Errorf("unexpected top signature: %+v", signatures[0])
	}
	if signatures[1].Count != 1 || len(signatures[1].CategoryIDs) != 2 {
		t.Errorf("unexpected second signature: %+v", signatures[1])
	}
	if signatures[2].Count != 1 || len(signatures[2].CategoryIDs) != 3 {
		t.Errorf("unexpected third signature: %+v", signatures[2])
	}

	limited, err := d.MostFrequent(nil, day(t, "2021-01-05"), 1)
	if err != nil {
		t.Fatalf("failed to rank signatures: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to cap result at 1, got %d", len(limited))
	}
}

func TestCSVRowsDescending(t *testing.T) {
	d := setupCSVDiary(t)
	if err := d.UpdateRows([]Entry{
		{Date: day(t, "2021-01-02"), CategoryIDs: []int64{1}},
		{Date: day(t, "2021-01-04"), CategoryIDs: nil},
	}); err != nil {
		t.Fatalf("failed to fill diary: %v", err)
	}

	rows, err := d.Rows(day(t, "2021-01-01"), day(t, "2021-01-04"))
	if err != nil {
		t.Fatalf("failed to get rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if FormatDay(rows[0].Date) != "2021-01-04" || FormatDay(rows[3].Date) != "2021-01-01" {
		t.Errorf("rows not descending: %s .. %s", FormatDay(rows[0].Date), FormatDay(rows[3].Date))
	}
	// Tracked-and-empty is distinct from untracked.
	if !rows[0].Tracked {
		t.Error("2021-01-04 should be tracked even with no marks")
	}
	if rows[0].Marks[0] || rows[0].Marks[1] || rows[0].Marks[2] {
		t.Errorf("2021-01-04 should have no marks, got %v", rows[0].Marks)
	}
	if rows[1].Tracked {
		t.Error("2021-01-03 should not be tracked")
	}
}

func TestCreateCSVRefusesOverwrite(t *testing.T) {
	path := writeCSV(t, "date,A\n")
	if err := CreateCSV(path, []string{"A"}); err == nil {
		t.Error("expected error when creating over an existing file")
	}
}
