// Package graph renders per-category occurrence counts as colored horizontal
// bar rows for the terminal.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ErrNoData is returned by Render when every count is zero. Callers can
// treat it as an empty state rather than a failure.
var ErrNoData = errors.New("no data to graph")

const block = "▇"

var periodColors = []lipgloss.Color{
	lipgloss.Color("2"), // green
	lipgloss.Color("5"), // magenta
	lipgloss.Color("3"), // yellow
	lipgloss.Color("6"), // cyan
	lipgloss.Color("1"), // red
}

var (
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Italic(true)
	countStyle = lipgloss.NewStyle().Bold(true)
)

func periodStyle(idx int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(periodColors[idx%len(periodColors)])
}

// Render draws one group of bars per category name, one bar per count
// vector, scaled so the largest count fills maxWidth minus the label gutter.
func Render(names []string, countVectors [][]int, maxWidth int) (string, error) {
	if maxWidth < 10 {
		return "", fmt.Errorf("graph width must be at least 10 columns")
	}
	for _, counts := range countVectors {
		if len(counts) != len(names) {
			return "", fmt.Errorf("count vector length %d does not match header length %d", len(counts), len(names))
		}
	}

	maxCount := 0
	for _, counts := range countVectors {
		for _, count := range counts {
			if count > maxCount {
				maxCount = count
			}
		}
	}
	if maxCount == 0 {
		return "", ErrNoData
	}

	barWidth := maxWidth - 8
	var b strings.Builder
	for nameIdx, name := range names {
		for vectorIdx, counts := range countVectors {
			if vectorIdx == 0 {
				b.WriteString(nameStyle.Render(fmt.Sprintf("%-3s", truncate(name, 3))))
				b.WriteString(" ")
			} else {
				b.WriteString("    ")
			}

			count := counts[nameIdx]
			width := count * barWidth / maxCount
			style := periodStyle(vectorIdx)
			if width == 0 {
				b.WriteString(style.Render("▏"))
			} else {
				b.WriteString(style.Render(strings.Repeat(block, width)))
				b.WriteString(" ")
			}
			b.WriteString(countStyle.Render(fmt.Sprintf("%d", count)))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
