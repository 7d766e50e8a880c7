package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}
	if m.width == 0 {
		return "Loading..."
	}

	helpView := m.help.View(m.keys)
	contentHeight := m.height - lipgloss.Height(helpView) - 2

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 4

	left := paneStyle.Height(contentHeight).Render(
		titleStyle.Render("Days") + "\n" + m.dayList.View(contentHeight-1),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		paneStyle.Width(rightWidth).Render(
			titleStyle.Render("Frequency")+"\n"+m.frequency.View(rightWidth-2),
		),
		paneStyle.Width(rightWidth).Render(
			titleStyle.Render("Top combinations")+"\n"+m.occurrences.View(),
		),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + helpView
}
