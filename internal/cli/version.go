// Package cli provides Cobra command definitions for codexlink.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazuruo/codexlink/internal/update"
	"github.com/chazuruo/codexlink/internal/ui"
)

// VersionInfo contains version information for the binary.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go_version"`
}

// VersionOptions contains the options for the version command.
type VersionOptions struct {
	Short bool
	JSON  bool
	Check bool
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	opts := &VersionOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(opts, version, commit, date)
		},
	}

	cmd.Flags().BoolVar(&opts.Short, "short", false, "print only the version number")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "check GitHub for a newer release")

	return cmd
}

func runVersion(opts *VersionOptions, version, commit, date string) error {
	info := VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}

	if opts.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(info); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}

	if opts.Short {
		fmt.Println(info.Version)
	} else {
		fmt.Printf("codexlink version %s\n", info.Version)
		fmt.Printf("commit: %s\n", info.Commit)
		fmt.Printf("built at: %s\n", info.Date)
		fmt.Printf("go version: %s\n", info.Go)
	}

	if opts.Check {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		latest, err := update.NewChecker().CheckLatest(ctx)
		if err != nil {
			ui.Warn("update check failed: %v", err)
			return nil
		}
		if update.IsNewer(info.Version, latest.TagName) {
			ui.Info("newer release available: %s (%s)", latest.TagName, latest.HTMLURL)
		} else {
			ui.Ok("up to date")
		}
	}

	return nil
}
