package tui

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/diary"
)

func setupTestDiary(t *testing.T) diary.Diary {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	if err := diary.Create(path, []string{"run", "read"}); err != nil {
		t.Fatalf("failed to create diary: %v", err)
	}
	d, err := diary.Open(path)
	if err != nil {
		t.Fatalf("failed to open diary: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	header, err := d.Header()
	if err != nil {
		t.Fatalf("failed to get header: %v", err)
	}
	if _, err := d.UpdateRow(diary.Day(time.Now()), []int64{header[0].ID}); err != nil {
		t.Fatalf("failed to fill diary: %v", err)
	}
	return d
}

func TestNewModelZeroedConfig(t *testing.T) {
	d := setupTestDiary(t)

	// A config file with zero graph settings must not take down the
	// dashboard; the defaults apply instead.
	m, err := NewModel(d, config.Config{GraphDays: 0, PastPeriods: 0})
	if err != nil {
		t.Fatalf("failed to build model: %v", err)
	}
	if m.cfg.GraphDays != config.DefaultGraphDays {
		t.Errorf("expected graph days %d, got %d", config.DefaultGraphDays, m.cfg.GraphDays)
	}
	if m.cfg.PastPeriods != config.DefaultPastPeriods {
		t.Errorf("expected past periods %d, got %d", config.DefaultPastPeriods, m.cfg.PastPeriods)
	}
	if view := m.View(); view == "" {
		t.Error("expected a non-empty view")
	}
}

func TestNewModel(t *testing.T) {
	d := setupTestDiary(t)

	m, err := NewModel(d, config.Config{
		GraphDays:            config.DefaultGraphDays,
		PastPeriods:          config.DefaultPastPeriods,
		ListMostFrequentDays: config.DefaultListMostFrequentDays,
	})
	if err != nil {
		t.Fatalf("failed to build model: %v", err)
	}
	if m.dayList.Len() != loadChunkDays {
		t.Errorf("expected %d loaded days, got %d", loadChunkDays, m.dayList.Len())
	}
}
