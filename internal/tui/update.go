package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Up):
			return m.moveCursor(-1), nil
		case key.Matches(msg, m.keys.Down):
			return m.moveCursor(1), nil
		case key.Matches(msg, m.keys.PageUp):
			return m.moveCursor(-m.pageSize()), nil
		case key.Matches(msg, m.keys.PageDown):
			return m.moveCursor(m.pageSize()), nil
		}
	}
	return m, nil
}

// moveCursor shifts the day selection; moving toward older days loads more
// rows when the loaded window runs out.
func (m Model) moveCursor(delta int) Model {
	if m.dayList.MoveBy(delta) {
		if err := m.extendDayList(); err != nil {
			m.err = err
			return m
		}
	}
	if err := m.refreshAnalytics(); err != nil {
		m.err = err
	}
	return m
}

func (m Model) pageSize() int {
	size := m.height - 4
	if size < 1 {
		size = 1
	}
	return size
}
