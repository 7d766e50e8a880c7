// Package tui is the interactive terminal frontend: a scrolling day list on
// the left, frequency bars and the top habit combinations on the right, all
// fed by the diary connection.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"

	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/diary"
	"github.com/julianstephens/habitlog/internal/tui/components/daylist"
	"github.com/julianstephens/habitlog/internal/tui/components/frequency"
	"github.com/julianstephens/habitlog/internal/tui/components/occurrences"
)

// loadChunkDays is how many more days the day list loads when the cursor
// approaches the oldest loaded row.
const loadChunkDays = 30

type Model struct {
	diary diary.Diary
	cfg   config.Config

	keys KeyMap
	help help.Model

	dayList     daylist.Model
	frequency   frequency.Model
	occurrences occurrences.Model

	width  int
	height int
	err    error
}

func NewModel(d diary.Diary, cfg config.Config) (Model, error) {
	// Range computation needs at least one window of at least one day;
	// degenerate configured values fall back to the defaults.
	if cfg.GraphDays < 1 {
		cfg.GraphDays = config.DefaultGraphDays
	}
	if cfg.PastPeriods < 1 {
		cfg.PastPeriods = config.DefaultPastPeriods
	}

	header, err := d.Header()
	if err != nil {
		return Model{}, err
	}
	names := make([]string, 0, len(header))
	nameByID := make(map[int64]string, len(header))
	for _, c := range header {
		names = append(names, c.Name)
		nameByID[c.ID] = c.Name
	}

	today := diary.Day(time.Now())
	rows, err := d.Rows(today.AddDate(0, 0, -(loadChunkDays-1)), today)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		diary:       d,
		cfg:         cfg,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		dayList:     daylist.New(names, rows),
		frequency:   frequency.New(names),
		occurrences: occurrences.New(nameByID),
	}
	if err := m.refreshAnalytics(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// refreshAnalytics recomputes the right-hand panes for the selected date.
func (m *Model) refreshAnalytics() error {
	selected := m.dayList.Selected()

	ranges := diary.ComputeRanges(selected, m.cfg.GraphDays, m.cfg.PastPeriods)
	counts, err := m.diary.CountsPerRanges(ranges)
	if err != nil {
		return err
	}
	m.frequency.Set(ranges, counts)

	earliest := ranges[len(ranges)-1].Earlier
	signatures, err := m.diary.MostFrequent(&earliest, selected, m.cfg.ListMostFrequentDays)
	if err != nil {
		return err
	}
	m.occurrences.Set(signatures)
	return nil
}

// extendDayList loads another chunk of older days.
func (m *Model) extendDayList() error {
	until := m.dayList.OldestLoaded().AddDate(0, 0, -1)
	rows, err := m.diary.Rows(until.AddDate(0, 0, -(loadChunkDays-1)), until)
	if err != nil {
		return err
	}
	m.dayList.Append(rows)
	return nil
}
