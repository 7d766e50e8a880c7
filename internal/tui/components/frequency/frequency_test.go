package frequency

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitlog/internal/diary"
)

func testRanges(t *testing.T) []diary.DateRange {
	t.Helper()
	from, err := diary.ParseDay("2023-02-10")
	if err != nil {
		t.Fatalf("failed to parse date: %v", err)
	}
	return diary.ComputeRanges(from, 5, 2)
}

func TestViewZeroData(t *testing.T) {
	m := New([]string{"run", "read"})
	m.Set(testRanges(t), [][]int{{0, 0}, {0, 0}})

	view := m.View(40)
	if !strings.Contains(view, "no occurrences in these ranges") {
		t.Errorf("expected the empty state message, got:\n%s", view)
	}
}

func TestViewTooNarrow(t *testing.T) {
	m := New([]string{"run", "read"})
	m.Set(testRanges(t), [][]int{{2, 1}, {1, 0}})

	// A pane too narrow to draw must not claim there is no data.
	view := m.View(5)
	if strings.Contains(view, "no occurrences") {
		t.Errorf("width error misreported as empty data:\n%s", view)
	}
	if !strings.Contains(view, "width") {
		t.Errorf("expected the width error to surface, got:\n%s", view)
	}
}

func TestViewRendersBars(t *testing.T) {
	m := New([]string{"run", "read"})
	m.Set(testRanges(t), [][]int{{3, 1}, {2, 0}})

	view := m.View(40)
	if !strings.Contains(view, "2023-02-06 - 2023-02-10") {
		t.Errorf("expected the range legend, got:\n%s", view)
	}
	if !strings.Contains(view, "3") || !strings.Contains(view, "▇") {
		t.Errorf("expected rendered bars with counts, got:\n%s", view)
	}
}
