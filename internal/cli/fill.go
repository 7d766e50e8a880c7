package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlog/internal/diary"
)

type FillCmd struct {
	Date  string   `arg:"" optional:"" default:"today" help:"Date to fill (YYYY-MM-DD, 'today' or 'yesterday')."`
	Set   []string `help:"Mark these categories without prompting." short:"s"`
	Empty bool     `help:"Track the day with no habits, without prompting."`
}

func (c *FillCmd) Run(ctx *Context) error {
	date, err := parseDate(c.Date)
	if err != nil {
		return err
	}

	d, err := ctx.OpenDiary()
	if err != nil {
		return err
	}
	defer d.Close()

	header, err := d.Header()
	if err != nil {
		return err
	}

	var ids []int64
	switch {
	case c.Empty && len(c.Set) > 0:
		return fmt.Errorf("--set and --empty are mutually exclusive")
	case c.Empty:
		// Explicitly tracked with nothing marked.
	case len(c.Set) > 0:
		ids, err = categoryIDsByName(header, c.Set)
		if err != nil {
			return err
		}
	default:
		ids, err = promptForCategories(d, header, date)
		if err != nil {
			return err
		}
	}

	result, err := d.UpdateRow(date, ids)
	if err != nil {
		return err
	}
	switch result {
	case diary.AddedNew:
		fmt.Printf("Recorded %s\n", diary.FormatDay(date))
	case diary.ReplacedExisting:
		fmt.Printf("Replaced entry for %s\n", diary.FormatDay(date))
	}
	return nil
}

// promptForCategories shows a multi-select over the visible categories,
// preselecting what the diary already holds for the date.
func promptForCategories(d diary.Diary, header []diary.Category, date time.Time) ([]int64, error) {
	row, err := d.Row(date)
	if err != nil {
		return nil, err
	}

	options := make([]huh.Option[int64], 0, len(header))
	for i, c := range header {
		selected := row.Tracked && i < len(row.Marks) && row.Marks[i]
		options = append(options, huh.NewOption(c.Name, c.ID).Selected(selected))
	}

	var ids []int64
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int64]().
				Title(fmt.Sprintf("Habits for %s", diary.FormatDay(date))).
				Options(options...).
				Value(&ids),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}
	return ids, nil
}
