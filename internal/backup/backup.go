// Package backup writes the safety copy that every SQLite diary open starts
// with, and restores a diary from that copy.
package backup

import (
	"fmt"
	"os"
)

// Suffix is appended to the diary path to form the backup path, keeping the
// original extension intact.
const Suffix = ".bak"

// Path returns the backup path for the diary at dbPath.
func Path(dbPath string) string {
	return dbPath + Suffix
}

// Snapshot copies the diary file to its backup path, overwriting any earlier
// backup. The copy is synchronous and complete before Snapshot returns, so a
// failed migration or write afterwards cannot lose data the backup holds.
func Snapshot(dbPath string) (string, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return "", fmt.Errorf("failed to back up database: %w", err)
	}
	dst := Path(dbPath)
	if err := copyFile(dbPath, dst); err != nil {
		return "", fmt.Errorf("failed to back up database to %s: %w", dst, err)
	}
	return dst, nil
}

// Restore replaces the diary file with its backup. The backup is copied to a
// temporary file first and moved into place with an atomic rename.
func Restore(dbPath string) error {
	src := Path(dbPath)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("no backup found at %s: %w", src, err)
	}

	tempPath := dbPath + ".restore.tmp"
	if err := copyFile(src, tempPath); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", tempPath, removeErr)
		}
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}

	// Sync to ensure data is written to disk
	return destFile.Sync()
}
