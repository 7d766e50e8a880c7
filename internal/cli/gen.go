package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/julianstephens/habitlog/internal/diary"
)

type GenCmd struct {
	Rows int `help:"How many days of random data to generate." required:""`
	Cols int `help:"How many random single-letter categories to create." required:""`
}

// Run creates a fresh diary filled with random data, for demos and manual
// testing.
func (c *GenCmd) Run(ctx *Context) error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("--rows and --cols must be positive")
	}

	categories := make([]string, 0, c.Cols)
	for i := 0; i < c.Cols; i++ {
		categories = append(categories, string(rune('A'+rand.Intn(26))))
	}
	if err := diary.Create(ctx.Datafile, categories); err != nil {
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

	items := make([]diary.Entry, 0, c.Rows)
	today := diary.Day(time.Now())
	for row := 0; row < c.Rows; row++ {
		var ids []int64
		for _, cat := range header {
			if rand.Intn(2) == 0 {
				ids = append(ids, cat.ID)
			}
		}
		items = append(items, diary.Entry{
			Date:        today.AddDate(0, 0, row+1-c.Rows),
			CategoryIDs: ids,
		})
	}
	if err := d.UpdateRows(items); err != nil {
		return err
	}
	fmt.Printf("Generated %d days of data in %s\n", c.Rows, ctx.Datafile)
	return nil
}
