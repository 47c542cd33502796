package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazuruo/codexlink/internal/cli"
	"github.com/chazuruo/codexlink/internal/ui"
)

// Version is set at build time using ldflags
var Version = "dev"

// Commit is set at build time using ldflags
var Commit = "unknown"

// Date is set at build time using ldflags
var Date = "unknown"

func main() {
	rootCmd := &cobra.Command{
		Use:   "codexlink",
		Short: "Point Codex-compatible clients at a local inference server",
		Long: `codexlink detects an OpenAI-compatible server (LM Studio, Ollama, vLLM
and friends), lets you pick a model, and writes the Codex configuration
files with backups. No secrets are ever written; only the name of the
environment variable that should hold the API key.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ui.Configure(cli.Verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return nil
		},
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(cli.NewLinkCommand())
	rootCmd.AddCommand(cli.NewDoctorCommand())
	rootCmd.AddCommand(cli.NewCleanCommand())
	rootCmd.AddCommand(cli.NewVersionCommand(Version, Commit, Date))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
