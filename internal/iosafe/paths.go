// Package iosafe provides backup-before-overwrite file writing and the
// well-known paths under the Codex home directory.
//
// Writes go to a uniquely named temp file in the target directory, are
// fsynced, then renamed into place, so a reader of the target path never
// observes a partially written file.
package iosafe

import (
	"os"
	"path/filepath"
)

// HomeDir returns the Codex home directory: $CODEX_HOME when set, else
// ~/.codex.
func HomeDir() string {
	if env := os.Getenv("CODEX_HOME"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codex"
	}
	return filepath.Join(home, ".codex")
}

// ConfigTOML returns the config.toml path under home.
func ConfigTOML(home string) string { return filepath.Join(home, "config.toml") }

// ConfigJSON returns the config.json path under home.
func ConfigJSON(home string) string { return filepath.Join(home, "config.json") }

// ConfigYAML returns the config.yaml path under home.
func ConfigYAML(home string) string { return filepath.Join(home, "config.yaml") }

// LinkerJSON returns the persisted state path under home.
func LinkerJSON(home string) string { return filepath.Join(home, "linker_config.json") }
