// Package occurrences renders the ranked list of distinct habit combinations
// in the selected date range.
package occurrences

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/diary"
)

var countStyle = lipgloss.NewStyle().Bold(true)

type Model struct {
	nameByID   map[int64]string
	signatures []diary.Signature
}

func New(nameByID map[int64]string) Model {
	return Model{nameByID: nameByID}
}

// Set replaces the displayed ranking.
func (m *Model) Set(signatures []diary.Signature) {
	m.signatures = signatures
}

func (m *Model) View() string {
	if len(m.signatures) == 0 {
		return "no tracked days in range"
	}
	lines := make([]string, 0, len(m.signatures))
	for _, sig := range m.signatures {
		lines = append(lines, fmt.Sprintf("%s  %s",
			countStyle.Render(fmt.Sprintf("%4dx", sig.Count)),
			m.describe(sig.CategoryIDs)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) describe(ids []int64) string {
	if len(ids) == 0 {
		return "(nothing)"
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := m.nameByID[id]; ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, " + ")
}
