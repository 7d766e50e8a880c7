package cli

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/habitlog/internal/backup"
)

type RestoreCmd struct{}

// Run replaces the diary database with the backup written on its last open.
func (c *RestoreCmd) Run(ctx *Context) error {
	if filepath.Ext(ctx.Datafile) == ".csv" {
		return fmt.Errorf("CSV data files have no automatic backup to restore from")
	}
	if err := backup.Restore(ctx.Datafile); err != nil {
		return err
	}
	fmt.Printf("Restored %s from %s\n", ctx.Datafile, backup.Path(ctx.Datafile))
	return nil
}
