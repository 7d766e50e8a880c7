package diary

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

const csvDelimiter = ","

// CSVDiary is the flat-file backend: the whole data file lives in memory and
// every persisted mutation rewrites the file. Categories are positional, one
// column per category, and cannot be changed after creation.
type CSVDiary struct {
	path   string
	header []string
	data   map[time.Time][]bool
}

// OpenCSV loads the CSV data file at path into memory.
func OpenCSV(path string) (*CSVDiary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read data file header: %w", err)
		}
		return nil, fmt.Errorf("data file %s is empty", path)
	}
	header, err := parseCSVHeader(scanner.Text())
	if err != nil {
		return nil, err
	}

	d := &CSVDiary{
		path:   path,
		header: header,
		data:   make(map[time.Time][]bool),
	}

	// Data lines start at line 2, after the header.
	for line := 2; scanner.Scan(); line++ {
		date, marks, err := parseCSVRow(scanner.Text(), len(header), line)
		if err != nil {
			return nil, err
		}
		if _, ok := d.data[date]; ok {
			return nil, fmt.Errorf("data file contains duplicated date %s at line %d, fix the file manually", FormatDay(date), line)
		}
		d.data[date] = marks
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	return d, nil
}

// CreateCSV writes a new CSV data file with the given category names and no
// data rows. It refuses to overwrite an existing file.
func CreateCSV(path string, categories []string) error {
	if len(categories) == 0 {
		return fmt.Errorf("cannot create data file without categories")
	}
	for _, name := range categories {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("category names must not be empty")
		}
		if strings.Contains(name, csvDelimiter) {
			return fmt.Errorf("category name %q must not contain %q", name, csvDelimiter)
		}
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("a file already exists at %s", path)
	}
	d := &CSVDiary{
		path:   path,
		header: categories,
		data:   make(map[time.Time][]bool),
	}
	return d.save()
}

func parseCSVHeader(line string) ([]string, error) {
	fields := strings.Split(line, csvDelimiter)
	// The first field is the "date" column label.
	var header []string
	for _, field := range fields[1:] {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("data file header contains an empty category name")
		}
		header = append(header, field)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("data file header is empty")
	}
	return header, nil
}

func parseCSVRow(line string, width, lineNo int) (time.Time, []bool, error) {
	fields := strings.Split(line, csvDelimiter)
	date, err := ParseDay(fields[0])
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("line %d: %w", lineNo, err)
	}
	marks := make([]bool, 0, len(fields)-1)
	for _, field := range fields[1:] {
		// Any non-empty cell counts as true; "x" is only the write convention.
		marks = append(marks, strings.TrimSpace(field) != "")
	}
	if len(marks) != width {
		return time.Time{}, nil, fmt.Errorf("line %d has %d entries but the header has %d", lineNo, len(marks), width)
	}
	return date, marks, nil
}

// save rewrites the whole data file from the in-memory state, rows ascending
// by date.
func (d *CSVDiary) save() error {
	f, err := os.Create(d.path)
	if err != nil {
		return fmt.Errorf("failed to open data file for writing: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "date%s%s\n", csvDelimiter, strings.Join(d.header, csvDelimiter))
	for _, date := range d.sortedDates() {
		cells := make([]string, 0, len(d.header)+1)
		cells = append(cells, FormatDay(date))
		for _, mark := range d.data[date] {
			if mark {
				cells = append(cells, "x")
			} else {
				cells = append(cells, "")
			}
		}
		fmt.Fprintln(w, strings.Join(cells, csvDelimiter))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	return nil
}

func (d *CSVDiary) sortedDates() []time.Time {
	dates := make([]time.Time, 0, len(d.data))
	for date := range d.data {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// marksFromIDs converts category ids (1-based column positions) to a boolean
// vector aligned with the header.
func (d *CSVDiary) marksFromIDs(categoryIDs []int64) ([]bool, error) {
	marks := make([]bool, len(d.header))
	for _, id := range categoryIDs {
		if id < 1 || id > int64(len(d.header)) {
			return nil, fmt.Errorf("unknown category id %d: data file has %d categories", id, len(d.header))
		}
		marks[id-1] = true
	}
	return marks, nil
}

func (d *CSVDiary) CountsPerRanges(ranges []DateRange) ([][]int, error) {
	result := make([][]int, 0, len(ranges))
	for _, r := range ranges {
		counts := make([]int, len(d.header))
		for date, marks := range d.data {
			if !r.Contains(date) {
				continue
			}
			for i, mark := range marks {
				if mark {
					counts[i]++
				}
			}
		}
		result = append(result, counts)
	}
	return result, nil
}

func (d *CSVDiary) UpdateRow(date time.Time, categoryIDs []int64) (UpdateResult, error) {
	date = Day(date)
	marks, err := d.marksFromIDs(categoryIDs)
	if err != nil {
		return 0, err
	}
	_, existed := d.data[date]
	d.data[date] = marks
	if err := d.save(); err != nil {
		return 0, err
	}
	if existed {
		return ReplacedExisting, nil
	}
	return AddedNew, nil
}

// UpdateRows applies every item in memory and serializes once at the end. A
// failing item aborts before the file is touched, but items applied before
// the failure stay in memory until the connection is reopened.
func (d *CSVDiary) UpdateRows(items []Entry) error {
	for _, item := range items {
		marks, err := d.marksFromIDs(item.CategoryIDs)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", FormatDay(item.Date), err)
		}
		d.data[Day(item.Date)] = marks
	}
	return d.save()
}

func (d *CSVDiary) MissingDates(from *time.Time, until time.Time) ([]time.Time, error) {
	until = Day(until)
	if from == nil && len(d.data) == 0 {
		return nil, nil
	}
	dates := d.sortedDates()
	start := dates[0]
	if from != nil {
		start = Day(*from)
	}
	// The merge expects only dates inside [start, until].
	inSpan := dates[:0:0]
	for _, date := range dates {
		if !date.Before(start) && !date.After(until) {
			inSpan = append(inSpan, date)
		}
	}
	return missingInSequence(inSpan, start, until), nil
}

func (d *CSVDiary) Header() ([]Category, error) {
	header := make([]Category, 0, len(d.header))
	for i, name := range d.header {
		header = append(header, Category{ID: int64(i + 1), Name: name})
	}
	return header, nil
}

func (d *CSVDiary) Row(date time.Time) (Row, error) {
	date = Day(date)
	marks, ok := d.data[date]
	if !ok {
		return Row{Date: date}, nil
	}
	out := make([]bool, len(marks))
	copy(out, marks)
	return Row{Date: date, Tracked: true, Marks: out}, nil
}

func (d *CSVDiary) Rows(from, until time.Time) ([]Row, error) {
	from, until = Day(from), Day(until)
	var rows []Row
	for date := until; !date.Before(from); date = addDays(date, -1) {
		row, err := d.Row(date)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (d *CSVDiary) IsEmpty() (bool, error) {
	return len(d.data) == 0, nil
}

func (d *CSVDiary) DateSpan() (time.Time, time.Time, error) {
	if len(d.data) == 0 {
		return time.Time{}, time.Time{}, ErrEmptyDiary
	}
	dates := d.sortedDates()
	return dates[0], dates[len(dates)-1], nil
}

// AddCategory is not available for CSV data files: the column layout is fixed
// at creation time.
func (d *CSVDiary) AddCategory(name string) (AddCategoryResult, error) {
	return 0, fmt.Errorf("cannot add category to a CSV data file: %w", ErrNotSupported)
}

// HideCategory is not available for CSV data files, which have no hidden
// category concept.
func (d *CSVDiary) HideCategory(name string) (HideCategoryResult, error) {
	return 0, fmt.Errorf("cannot hide category in a CSV data file: %w", ErrNotSupported)
}

func (d *CSVDiary) MostFrequent(from *time.Time, until time.Time, limit int) ([]Signature, error) {
	until = Day(until)
	if len(d.data) == 0 {
		return nil, nil
	}
	start := d.sortedDates()[0]
	if from != nil {
		start = Day(*from)
	}
	span := DateRange{Later: until, Earlier: start}
	counts := make(map[string]int)
	for date, marks := range d.data {
		if !span.Contains(date) {
			continue
		}
		var ids []int64
		for i, mark := range marks {
			if mark {
				ids = append(ids, int64(i+1))
			}
		}
		counts[signatureKey(ids)]++
	}
	return rankSignatures(counts, limit), nil
}

func (d *CSVDiary) Close() error {
	return nil
}
