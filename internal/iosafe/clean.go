package iosafe

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazuruo/codexlink/internal/ui"
)

// RemoveConfigs removes the generated config files under home. When backup
// is true each existing file is renamed to a timestamped .bak instead of
// deleted. Returns the number of files removed.
func RemoveConfigs(home string, backup bool) int {
	removed := 0
	for _, path := range []string{ConfigTOML(home), ConfigJSON(home), ConfigYAML(home)} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if backup {
			bak := fmt.Sprintf("%s.%s.bak", path, time.Now().Format(backupStamp))
			if err := os.Rename(path, bak); err != nil {
				ui.Warn("could not back up %s: %v", path, err)
				continue
			}
			ui.Info("backed up %s -> %s", filepath.Base(path), filepath.Base(bak))
		} else {
			if err := os.Remove(path); err != nil {
				ui.Warn("could not delete %s: %v", path, err)
				continue
			}
			ui.Info("deleted %s", filepath.Base(path))
		}
		removed++
	}
	return removed
}

// ListBackups returns every .bak file under home, recursively.
func ListBackups(home string) []string {
	var backups []string
	_ = filepath.WalkDir(home, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(path, ".bak") {
			backups = append(backups, path)
		}
		return nil
	})
	return backups
}

// DeleteBackups deletes every .bak file under home and returns how many
// were removed. Per-file failures are warnings, not errors.
func DeleteBackups(home string) int {
	deleted := 0
	for _, bak := range ListBackups(home) {
		if err := os.Remove(bak); err != nil {
			ui.Warn("could not delete %s: %v", bak, err)
			continue
		}
		deleted++
	}
	return deleted
}
