package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/codexlink/internal/iosafe"
	"github.com/chazuruo/codexlink/internal/ui"
)

// CleanOptions contains the options for the clean command.
type CleanOptions struct {
	Home          string
	NoBackup      bool
	DeleteBackups bool
}

// NewCleanCommand creates the clean command.
func NewCleanCommand() *cobra.Command {
	opts := &CleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated config files",
		Long: `Remove config.toml, config.json and config.yaml from the Codex home.

Removed files are backed up with a timestamped .bak suffix unless
--no-backup is given. --delete-backups removes every accumulated .bak
file instead, and requires --yes as confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Home, "codex-home", "", "target directory (default $CODEX_HOME or ~/.codex)")
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, "delete instead of renaming to .bak")
	cmd.Flags().BoolVar(&opts.DeleteBackups, "delete-backups", false, "delete all .bak files under the home directory")

	return cmd
}

func runClean(opts *CleanOptions) error {
	home := opts.Home
	if home == "" {
		home = iosafe.HomeDir()
	}

	if opts.DeleteBackups {
		backups := iosafe.ListBackups(home)
		if len(backups) == 0 {
			ui.Info("no backup files found under %s", home)
			return nil
		}
		if !IsYes() {
			ui.Warn("refusing to delete %d backup file(s) without --yes", len(backups))
			return fmt.Errorf("pass --yes to confirm deleting backups")
		}
		deleted := iosafe.DeleteBackups(home)
		ui.Ok("deleted %d backup file(s)", deleted)
		return nil
	}

	removed := iosafe.RemoveConfigs(home, !opts.NoBackup)
	if removed == 0 {
		ui.Info("no config files found under %s", home)
		return nil
	}
	ui.Ok("removed %d config file(s)", removed)
	return nil
}
