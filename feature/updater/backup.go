package updater

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"modpack-manager/core/utils"
)

// backupTree copies the working tree to a timestamped directory under
// backupsDir and returns the backup path. A missing working tree is not an
// error; there is simply nothing to back up yet.
func backupTree(workDir, backupsDir string, now time.Time) (string, error) {
	if _, err := os.Stat(workDir); os.IsNotExist(err) {
		return "", nil
	}

	backupPath := filepath.Join(backupsDir, "backup_"+now.Format("20060102_150405"))
	if err := os.MkdirAll(backupsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", backupsDir, err)
	}
	if err := utils.CopyTree(workDir, backupPath); err != nil {
		return "", fmt.Errorf("failed to copy %s to %s: %w", workDir, backupPath, err)
	}
	return backupPath, nil
}

// overridesNonEmpty reports whether the overrides directory contains
// anything the archive would pick up.
func overridesNonEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
