package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitlog/internal/diary"
)

type NewCmd struct {
	Categories []string `arg:"" help:"Names of the habits to track, one category each."`
}

func (c *NewCmd) Run(ctx *Context) error {
	if err := diary.Create(ctx.Datafile, c.Categories); err != nil {
		return err
	}
	fmt.Printf("Created diary %s tracking: %s\n", ctx.Datafile, strings.Join(c.Categories, ", "))
	return nil
}
