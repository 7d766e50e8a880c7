package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlog/internal/diary"
)

type ListCmd struct {
	Days     int `help:"How many recent days to print. Defaults to the configured list_previous_days." short:"d"`
	Frequent int `help:"How many top habit combinations to print. Defaults to the configured list_most_frequent_days." short:"f"`
}

func (c *ListCmd) Run(ctx *Context) error {
	days := c.Days
	if days == 0 {
		days = ctx.Config.ListPreviousDays
	}
	frequent := c.Frequent
	if frequent == 0 {
		frequent = ctx.Config.ListMostFrequentDays
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

	today := diary.Day(time.Now())
	if days > 0 {
		if err := printRecentDays(d, header, today, days); err != nil {
			return err
		}
	}
	if frequent > 0 {
		if err := printMostFrequent(d, header, frequent); err != nil {
			return err
		}
	}
	return nil
}

func printRecentDays(d diary.Diary, header []diary.Category, today time.Time, days int) error {
	rows, err := d.Rows(today.AddDate(0, 0, -(days-1)), today)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(header))
	for _, c := range header {
		names = append(names, c.Name)
	}
	fmt.Printf("%-12s %s\n", "date", strings.Join(names, " "))
	for _, row := range rows {
		if !row.Tracked {
			fmt.Printf("%-12s (not tracked)\n", diary.FormatDay(row.Date))
			continue
		}
		cells := make([]string, 0, len(header))
		for i, c := range header {
			mark := " "
			if i < len(row.Marks) && row.Marks[i] {
				mark = "x"
			}
			cells = append(cells, fmt.Sprintf("%-*s", len([]rune(c.Name)), mark))
		}
		fmt.Printf("%-12s %s\n", diary.FormatDay(row.Date), strings.Join(cells, " "))
	}
	return nil
}

func printMostFrequent(d diary.Diary, header []diary.Category, limit int) error {
	signatures, err := d.MostFrequent(nil, time.Now(), limit)
	if err != nil {
		return err
	}
	if len(signatures) == 0 {
		return nil
	}

	nameByID := make(map[int64]string, len(header))
	for _, c := range header {
		nameByID[c.ID] = c.Name
	}

	fmt.Println("\nMost frequent habit combinations:")
	for _, sig := range signatures {
		fmt.Printf("%4dx  %s\n", sig.Count, describeSignature(sig.CategoryIDs, nameByID))
	}
	return nil
}

func describeSignature(ids []int64, nameByID map[int64]string) string {
	if len(ids) == 0 {
		return "(nothing)"
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := nameByID[id]; ok {
			names = append(names, name)
		}
	}
	return strings.Join(names, " + ")
}
