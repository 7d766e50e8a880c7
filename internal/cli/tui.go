package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlog/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	d, err := ctx.OpenDiary()
	if err != nil {
		return err
	}
	defer d.Close()

	model, err := tui.NewModel(d, ctx.Config)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
