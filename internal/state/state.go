// Package state persists the user's last choices between runs.
//
// The state file is a small flat JSON record under the Codex home (or an
// explicit --state-file override). It exists only to pre-fill defaults on
// the next run and never stores a credential; API keys belong to the OS
// keychain, and the emitted config only ever carries an env-var name.
package state

import (
	"encoding/json"
	"os"

	"github.com/chazuruo/codexlink/internal/iosafe"
	"github.com/chazuruo/codexlink/internal/ui"
)

// LinkerState is the persisted snapshot of the previous run's selections.
// All fields default to benign zero values.
type LinkerState struct {
	BaseURL  string `json:"base_url"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Profile  string `json:"profile"`

	// Non-secret preference echoes, applied as defaults when the matching
	// flag is not supplied on the next run.
	EnvKey                 string `json:"env_key,omitempty"`
	ApprovalPolicy         string `json:"approval_policy,omitempty"`
	SandboxMode            string `json:"sandbox_mode,omitempty"`
	ReasoningEffort        string `json:"reasoning_effort,omitempty"`
	ReasoningSummary       string `json:"reasoning_summary,omitempty"`
	Verbosity              string `json:"verbosity,omitempty"`
	DisableResponseStorage bool   `json:"disable_response_storage,omitempty"`
	NoHistory              bool   `json:"no_history,omitempty"`
	HistoryMaxBytes        int64  `json:"history_max_bytes,omitempty"`
}

// Load reads state from path. A missing, unreadable or malformed file is
// never fatal: the zero state is returned so the builder falls back to its
// hard-coded defaults.
func Load(path string) LinkerState {
	var st LinkerState
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			ui.Warn("could not read state %s: %v", path, err)
		}
		return st
	}
	if err := json.Unmarshal(data, &st); err != nil {
		ui.Warn("ignoring malformed state %s: %v", path, err)
		return LinkerState{}
	}
	return st
}

// Save writes the full record to path, overwriting any previous state. The
// write is atomic but unbacked-up; state is cheap to regenerate.
func Save(path string, st LinkerState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return iosafe.WriteAtomic(path, string(data)+"\n")
}
