// Package daylist renders the scrolling list of recent days with one mark
// column per visible category.
package daylist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/diary"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	selected    = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	untracked   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type Model struct {
	names  []string
	rows   []diary.Row
	cursor int
}

func New(names []string, rows []diary.Row) Model {
	return Model{names: names, rows: rows}
}

// Append adds older rows at the end of the list.
func (m *Model) Append(rows []diary.Row) {
	m.rows = append(m.rows, rows...)
}

func (m *Model) Len() int { return len(m.rows) }

// MoveBy shifts the cursor and reports whether more (older) rows are needed
// to keep a page of lookahead below the cursor.
func (m *Model) MoveBy(delta int) (needMore bool) {
	m.cursor += delta
	if m.cursor > len(m.rows)-1 {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m.cursor >= len(m.rows)-1
}

// Selected returns the date under the cursor.
func (m *Model) Selected() time.Time {
	if len(m.rows) == 0 {
		return diary.Day(time.Now())
	}
	return m.rows[m.cursor].Date
}

// OldestLoaded returns the date of the last loaded row.
func (m *Model) OldestLoaded() time.Time {
	if len(m.rows) == 0 {
		return diary.Day(time.Now())
	}
	return m.rows[len(m.rows)-1].Date
}

func (m *Model) View(height int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-12s %s", "date", strings.Join(m.names, " "))))
	b.WriteString("\n")

	visible := height - 1
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := start; i < end; i++ {
		row := m.rows[i]
		line := m.renderRow(row)
		if i == m.cursor {
			line = selected.Render(line)
		} else if !row.Tracked {
			line = untracked.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderRow(row diary.Row) string {
	if !row.Tracked {
		return fmt.Sprintf("%-12s (not tracked)", diary.FormatDay(row.Date))
	}
	cells := make([]string, 0, len(m.names))
	for i, name := range m.names {
		mark := " "
		if i < len(row.Marks) && row.Marks[i] {
			mark = "x"
		}
		width := len([]rune(name))
		cells = append(cells, fmt.Sprintf("%-*s", width, mark))
	}
	return fmt.Sprintf("%-12s %s", diary.FormatDay(row.Date), strings.Join(cells, " "))
}
