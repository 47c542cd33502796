// Package cli provides global state and utilities for CLI commands.
package cli

import (
	"sync"

	"github.com/spf13/cobra"
)

var (
	// Yes answers every confirmation with its non-interactive default.
	// Set by the global --yes flag.
	Yes bool

	// Verbose enables structured event logging. Set by --verbose.
	Verbose bool

	// yesMutex protects Yes for concurrent access.
	yesMutex sync.RWMutex
)

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&Yes, "yes", false,
		"assume defaults for every confirmation; never prompt")
	cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false,
		"log structured events (clamps, probes, writes)")
}

// IsYes returns true if confirmations are suppressed.
func IsYes() bool {
	yesMutex.RLock()
	defer yesMutex.RUnlock()
	return Yes
}
