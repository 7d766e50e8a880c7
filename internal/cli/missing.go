package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitlog/internal/diary"
)

type MissingCmd struct {
	From  string `help:"Lower bound (YYYY-MM-DD). Defaults to the earliest tracked date." optional:""`
	Until string `help:"Upper bound (YYYY-MM-DD)." default:"today"`
}

func (c *MissingCmd) Run(ctx *Context) error {
	until, err := parseDate(c.Until)
	if err != nil {
		return err
	}
	var from *time.Time
	if c.From != "" {
		parsed, err := parseDate(c.From)
		if err != nil {
			return err
		}
		from = &parsed
	}

	d, err := ctx.OpenDiary()
	if err != nil {
		return err
	}
	defer d.Close()

	missing, err := d.MissingDates(from, until)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		fmt.Println("No missing dates")
		return nil
	}
	for _, date := range missing {
		fmt.Println(diary.FormatDay(date))
	}
	return nil
}
