package cli

import (
	"fmt"

	"github.com/julianstephens/habitlog/internal/config"
)

type ConfigCmd struct {
	Save                 bool   `help:"Persist the resulting settings as defaults."`
	GraphDays            int    `help:"Set graph_days." placeholder:"N"`
	PastPeriods          int    `help:"Set past_periods." placeholder:"N"`
	MaxDisplayedCols     int    `help:"Set max_displayed_cols." placeholder:"N"`
	ListPreviousDays     int    `help:"Set list_previous_days." placeholder:"N"`
	ListMostFrequentDays int    `help:"Set list_most_frequent_days." placeholder:"N"`
	Datafile             string `help:"Set datafile_path." placeholder:"PATH" type:"path"`
}

func (c *ConfigCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if c.GraphDays > 0 {
		cfg.GraphDays = c.GraphDays
	}
	if c.PastPeriods > 0 {
		cfg.PastPeriods = c.PastPeriods
	}
	if c.MaxDisplayedCols > 0 {
		cfg.MaxDisplayedCols = c.MaxDisplayedCols
	}
	if c.ListPreviousDays > 0 {
		cfg.ListPreviousDays = c.ListPreviousDays
	}
	if c.ListMostFrequentDays > 0 {
		cfg.ListMostFrequentDays = c.ListMostFrequentDays
	}
	if c.Datafile != "" {
		cfg.DatafilePath = c.Datafile
	}

	if c.Save {
		if err := config.Save(cfg); err != nil {
			return err
		}
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Printf("Saved configuration to %s\n", path)
	}
	fmt.Println(cfg)
	return nil
}
