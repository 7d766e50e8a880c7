package cli

import (
	"fmt"

	"github.com/julianstephens/habitlog/internal/diary"
)

type CategoryAddCmd struct {
	Name string `arg:"" help:"Name of the category to add or unhide."`
}

func (c *CategoryAddCmd) Run(ctx *Context) error {
	d, err := ctx.OpenDiary()
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := d.AddCategory(c.Name)
	if err != nil {
		return err
	}
	switch result {
	case diary.CategoryAdded:
		fmt.Printf("Added category %q\n", c.Name)
	case diary.CategoryUnhidden:
		fmt.Printf("Category %q was hidden and is visible again\n", c.Name)
	case diary.CategoryAlreadyPresent:
		fmt.Printf("Category %q is already tracked\n", c.Name)
	}
	return nil
}

type CategoryHideCmd struct {
	Name string `arg:"" help:"Name of the category to hide. Its history is kept."`
}

func (c *CategoryHideCmd) Run(ctx *Context) error {
	d, err := ctx.OpenDiary()
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := d.HideCategory(c.Name)
	if err != nil {
		return err
	}
	switch result {
	case diary.CategoryHidden:
		fmt.Printf("Hid category %q\n", c.Name)
	case diary.CategoryAlreadyHidden:
		fmt.Printf("Category %q is already hidden\n", c.Name)
	case diary.CategoryNotFound:
		return fmt.Errorf("no category named %q", c.Name)
	}
	return nil
}
