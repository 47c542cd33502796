package config

import (
	"github.com/chazuruo/codexlink/internal/ui"
)

// Enum is a fixed allowed set for a configuration field. The first value in
// Allowed is the field default, used when an input has no closer match.
type Enum struct {
	Field   string
	Allowed []string
	// Aliases maps known out-of-set inputs to their nearest allowed value.
	Aliases map[string]string
}

// Allowed sets for every enumerated field. Inputs outside a set are clamped,
// never rejected.
var (
	ApprovalPolicies = Enum{
		Field:   "approval_policy",
		Allowed: []string{"on-failure", "never", "on-request", "untrusted"},
		Aliases: map[string]string{"always": "on-failure"},
	}
	SandboxModes = Enum{
		Field:   "sandbox_mode",
		Allowed: []string{"workspace-write", "read-only", "danger-full-access"},
	}
	ReasoningEfforts = Enum{
		Field:   "model_reasoning_effort",
		Allowed: []string{"medium", "minimal", "low", "high"},
	}
	ReasoningSummaries = Enum{
		Field:   "model_reasoning_summary",
		Allowed: []string{"auto", "concise", "detailed", "none"},
	}
	Verbosities = Enum{
		Field:   "model_verbosity",
		Allowed: []string{"medium", "low", "high"},
	}
	FileOpeners = Enum{
		Field:   "file_opener",
		Allowed: []string{"vscode", "vscode-insiders", "windsurf", "cursor", "none"},
		Aliases: map[string]string{"code": "vscode"},
	}
	WireAPIs = Enum{
		Field:   "wire_api",
		Allowed: []string{"chat", "responses"},
	}
	AuthMethods = Enum{
		Field:   "preferred_auth_method",
		Allowed: []string{"apikey", "chatgpt"},
	}
	HistoryModes = Enum{
		Field:   "history.persistence",
		Allowed: []string{"save-all", "none"},
	}
)

// Default returns the enum's default value.
func (e Enum) Default() string { return e.Allowed[0] }

// Clamp returns v when it is in the allowed set, the aliased value when a
// known alias exists, and the default otherwise. Empty input yields the
// default silently; any other out-of-set input is logged as informational.
// Clamping is idempotent: Clamp(Clamp(v)) == Clamp(v) for all v.
func (e Enum) Clamp(v string) string {
	if v == "" {
		return e.Default()
	}
	for _, a := range e.Allowed {
		if v == a {
			return v
		}
	}
	clamped := e.Default()
	if alias, ok := e.Aliases[v]; ok {
		clamped = alias
	}
	ui.Log.Info().
		Str("field", e.Field).
		Str("from", v).
		Str("to", clamped).
		Msg("clamped out-of-range value")
	return clamped
}
