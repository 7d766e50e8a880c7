package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitlog/internal/diary"
	"github.com/julianstephens/habitlog/internal/graph"
)

type GraphCmd struct {
	Days    int `help:"Days per period. Defaults to the configured graph_days." short:"d"`
	Periods int `help:"How many past periods to compare. Defaults to the configured past_periods." short:"p"`
	Width   int `help:"Maximum output width in columns." short:"w"`
}

func (c *GraphCmd) Run(ctx *Context) error {
	days := c.Days
	if days == 0 {
		days = ctx.Config.GraphDays
	}
	periods := c.Periods
	if periods == 0 {
		periods = ctx.Config.PastPeriods
	}
	width := c.Width
	if width == 0 {
		width = ctx.Config.MaxDisplayedCols
	}
	if days < 1 || periods < 1 {
		return fmt.Errorf("graph needs at least 1 day per period and 1 period")
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
	ranges := diary.ComputeRanges(time.Now(), days, periods)
	counts, err := d.CountsPerRanges(ranges)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(header))
	for _, cat := range header {
		names = append(names, cat.Name)
	}
	rendered, err := graph.Render(names, counts, width)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}
