// Package cli implements the habitlog subcommands.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/diary"
)

// Context carries the resolved configuration into every command.
type Context struct {
	Config config.Config
	// Datafile is the diary path after applying the --file override.
	Datafile string
}

// OpenDiary opens the configured diary, dispatching on the path extension.
func (c *Context) OpenDiary() (diary.Diary, error) {
	return diary.Open(c.Datafile)
}

// parseDate accepts YYYY-MM-DD, "today" and "yesterday".
func parseDate(s string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return diary.Day(time.Now()), nil
	case "yesterday":
		return diary.Day(time.Now().AddDate(0, 0, -1)), nil
	default:
		return diary.ParseDay(s)
	}
}

// categoryIDsByName resolves user-supplied category names against the header.
func categoryIDsByName(header []diary.Category, names []string) ([]int64, error) {
	byName := make(map[string]int64, len(header))
	for _, c := range header {
		byName[c.Name] = c.ID
	}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		id, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown category %q; tracked categories: %s", name, joinNames(header))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func joinNames(header []diary.Category) string {
	names := make([]string, 0, len(header))
	for _, c := range header {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}
