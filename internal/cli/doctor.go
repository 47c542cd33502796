package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/chazuruo/codexlink/internal/config"
	"github.com/chazuruo/codexlink/internal/detect"
	"github.com/chazuruo/codexlink/internal/iosafe"
	"github.com/chazuruo/codexlink/internal/ui"
)

// DoctorOptions contains the options for the doctor command.
type DoctorOptions struct {
	Home string
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check local servers and the existing config",
		Long: `Probe the well-known OpenAI-compatible server ports, report which ones
answer and how many models they serve, and verify that an existing
config.toml still parses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Home, "codex-home", "", "target directory (default $CODEX_HOME or ~/.codex)")

	return cmd
}

func runDoctor(ctx context.Context, opts *DoctorOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	tbl := table.New("Provider", "Base URL", "Status", "Models")
	reachable := 0
	for _, url := range config.CommonBaseURLs {
		label := config.ProviderLabel(config.ResolveProvider(url))
		models, err := detect.ListModels(ctx, url)
		if err != nil {
			tbl.AddRow(label, url, "down", "-")
			continue
		}
		reachable++
		tbl.AddRow(label, url, "up", fmt.Sprintf("%d", len(models)))
	}
	tbl.Print()

	if reachable == 0 {
		ui.Warn("no OpenAI-compatible server answered on the common ports")
	} else {
		ui.Ok("%d server(s) reachable", reachable)
	}

	home := opts.Home
	if home == "" {
		home = iosafe.HomeDir()
	}
	configPath := iosafe.ConfigTOML(home)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			ui.Info("no config at %s yet; run `codexlink link`", configPath)
			return nil
		}
		return fmt.Errorf("read %s: %w", configPath, err)
	}

	var parsed map[string]any
	if err := toml.Unmarshal(data, &parsed); err != nil {
		ui.Err("config %s does not parse: %v", configPath, err)
		return fmt.Errorf("invalid config at %s", configPath)
	}
	ui.Ok("config %s parses (%d top-level keys)", configPath, len(parsed))

	if backups := iosafe.ListBackups(home); len(backups) > 0 {
		ui.Dim("%d backup file(s) under %s", len(backups), home)
	}
	return nil
}
