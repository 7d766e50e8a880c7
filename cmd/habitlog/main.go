package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/config"
)

var CLI struct {
	Version kong.VersionFlag
	File    string `help:"Diary path. A .csv extension selects the flat-file backend, anything else SQLite." type:"path" short:"f"`

	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	New      cli.NewCmd      `cmd:"" help:"Create a new habit diary."`
	Fill     cli.FillCmd     `cmd:"" help:"Record the habits of a day."`
	Graph    cli.GraphCmd    `cmd:"" help:"Show per-habit counts over past periods."`
	List     cli.ListCmd     `cmd:"" help:"Show recent days and frequent habit combinations."`
	Missing  cli.MissingCmd  `cmd:"" help:"List untracked dates."`
	Category struct {
		Add  cli.CategoryAddCmd  `cmd:"" help:"Add or unhide a category."`
		Hide cli.CategoryHideCmd `cmd:"" help:"Hide a category, keeping its history."`
	} `cmd:"" help:"Manage categories."`
	Config  cli.ConfigCmd  `cmd:"" help:"Show or persist configuration defaults."`
	Restore cli.RestoreCmd `cmd:"" help:"Restore the diary from its last-open backup."`
	Gen     cli.GenCmd     `cmd:"" help:"Generate a diary with random data." hidden:""`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitlog"),
		kong.Description("Personal habit diary with rolling-period and co-occurrence analytics"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	datafile := cfg.DatafilePath
	if CLI.File != "" {
		datafile = CLI.File
	}

	appCtx := &cli.Context{
		Config:   cfg,
		Datafile: datafile,
	}
	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
