// Package frequency renders per-category occurrence bars over the computed
// date ranges, one color per range.
package frequency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/diary"
	"github.com/julianstephens/habitlog/internal/graph"
)

var legendColors = []lipgloss.Color{"2", "5", "3", "6", "1"}

type Model struct {
	names  []string
	ranges []diary.DateRange
	counts [][]int
}

func New(names []string) Model {
	return Model{names: names}
}

// Set replaces the displayed ranges and their counts.
func (m *Model) Set(ranges []diary.DateRange, counts [][]int) {
	m.ranges = ranges
	m.counts = counts
}

func (m *Model) View(width int) string {
	var b strings.Builder
	b.WriteString(m.legend())
	b.WriteString("\n")

	bars, err := graph.Render(m.names, m.counts, width)
	if errors.Is(err, graph.ErrNoData) {
		// Zero data in every range is a normal state for fresh diaries.
		b.WriteString("no occurrences in these ranges")
		return b.String()
	}
	if err != nil {
		b.WriteString(err.Error())
		return b.String()
	}
	b.WriteString(strings.TrimRight(bars, "\n"))
	return b.String()
}

func (m *Model) legend() string {
	parts := make([]string, 0, len(m.ranges))
	for i, r := range m.ranges {
		style := lipgloss.NewStyle().Foreground(legendColors[i%len(legendColors)])
		parts = append(parts, style.Render(fmt.Sprintf("%s - %s", diary.FormatDay(r.Earlier), diary.FormatDay(r.Later))))
	}
	return strings.Join(parts, "  ")
}
