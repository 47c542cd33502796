// Package cli provides Cobra command definitions for codexlink.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazuruo/codexlink/internal/config"
	"github.com/chazuruo/codexlink/internal/detect"
	"github.com/chazuruo/codexlink/internal/diffview"
	"github.com/chazuruo/codexlink/internal/emit"
	"github.com/chazuruo/codexlink/internal/iosafe"
	"github.com/chazuruo/codexlink/internal/keychain"
	"github.com/chazuruo/codexlink/internal/prompt"
	"github.com/chazuruo/codexlink/internal/state"
	"github.com/chazuruo/codexlink/internal/ui"
)

// LinkOptions contains the options for the link command.
type LinkOptions struct {
	Home      string
	StateFile string

	BaseURL   string
	Providers []string
	Model     string
	Profile   string
	EnvKey    string

	ApprovalPolicy   string
	SandboxMode      string
	ReasoningEffort  string
	ReasoningSummary string
	Verbosity        string
	FileOpener       string

	ContextWindow      int64
	MaxOutputTokens    int64
	ProjectDocMaxBytes int64

	HideAgentReasoning              bool
	ShowRawAgentReasoning           bool
	ModelSupportsReasoningSummaries bool
	ChatGPTBaseURL                  string
	PreferredAuthMethod             string

	ToolsWebSearch         bool
	TUINotifications       bool
	DisableResponseStorage bool
	NoHistory              bool
	HistoryMaxBytes        int64

	WireAPI             string
	RequestMaxRetries   int64
	StreamMaxRetries    int64
	StreamIdleTimeoutMS int64
	AzureAPIVersion     string
	HTTPHeaders         []string
	EnvHTTPHeaders      []string

	WritableRoots       []string
	NetworkAccess       bool
	ExcludeTmpdirEnvVar bool
	ExcludeSlashTmp     bool
	Notify              []string
	MCPJSON             string

	APIKey   string
	Keychain string

	JSONOut bool
	YAMLOut bool
	DryRun  bool
	Diff    bool

	Auto             bool
	FullAuto         bool
	OverwriteProfile bool
}

// NewLinkCommand creates the link command, the main configuration flow.
func NewLinkCommand() *cobra.Command {
	opts := &LinkOptions{}

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Detect a local server and write config.toml",
		Long: `Detect an OpenAI-compatible server, choose a model, and write the
Codex configuration files.

By default the flow is interactive: detected servers and their models are
offered as choices. Use --auto to accept detection results, or --full-auto
to additionally pick the first model without prompting. --dry-run prints
the rendered config (or, with --diff, a diff against the existing files)
instead of writing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Home, "codex-home", "", "target directory (default $CODEX_HOME or ~/.codex)")
	f.StringVar(&opts.StateFile, "state-file", "", "override the linker state file path")

	f.StringVarP(&opts.BaseURL, "base-url", "b", "", "server base URL (skips detection)")
	f.StringSliceVarP(&opts.Providers, "providers", "l", nil, "provider ids to emit (first one is active)")
	f.StringVarP(&opts.Model, "model", "m", "", "model id (skips the model picker)")
	f.StringVarP(&opts.Profile, "profile", "p", "", "profile name (default: provider id)")
	f.StringVarP(&opts.EnvKey, "env-key-name", "E", "", "env var the provider reads the API key from")

	f.StringVarP(&opts.ApprovalPolicy, "approval-policy", "q", "", "agent approval policy")
	f.StringVarP(&opts.SandboxMode, "sandbox-mode", "s", "", "filesystem sandbox mode")
	f.StringVar(&opts.ReasoningEffort, "reasoning-effort", "", "model reasoning effort")
	f.StringVar(&opts.ReasoningSummary, "reasoning-summary", "", "model reasoning summary style")
	f.StringVar(&opts.Verbosity, "verbosity", "", "model verbosity")
	f.StringVarP(&opts.FileOpener, "file-opener", "o", "", "editor used to open referenced files")

	f.Int64Var(&opts.ContextWindow, "model-context-window", 0, "context window tokens (0 = auto-detect)")
	f.Int64Var(&opts.MaxOutputTokens, "model-max-output-tokens", 0, "max output tokens (0 = unknown)")
	f.Int64Var(&opts.ProjectDocMaxBytes, "project-doc-max-bytes", 0, "max bytes read from project doc files")

	f.BoolVar(&opts.HideAgentReasoning, "hide-agent-reasoning", false, "hide agent reasoning events")
	f.BoolVar(&opts.ShowRawAgentReasoning, "show-raw-agent-reasoning", false, "show raw reasoning content")
	f.BoolVar(&opts.ModelSupportsReasoningSummaries, "model-supports-reasoning-summaries", false, "mark the model as supporting reasoning summaries")
	f.StringVar(&opts.ChatGPTBaseURL, "chatgpt-base-url", "", "base URL override for the ChatGPT provider")
	f.StringVarP(&opts.PreferredAuthMethod, "preferred-auth-method", "M", "", "preferred auth method (apikey or chatgpt)")

	f.BoolVar(&opts.ToolsWebSearch, "tools-web-search", false, "enable the web_search tool")
	f.BoolVar(&opts.TUINotifications, "tui-notifications", false, "enable TUI notifications")
	f.BoolVar(&opts.DisableResponseStorage, "disable-response-storage", false, "disable server-side response storage")
	f.BoolVar(&opts.NoHistory, "no-history", false, "disable history persistence")
	f.Int64Var(&opts.HistoryMaxBytes, "history-max-bytes", 0, "history size cap in bytes (0 = server default)")

	f.StringVar(&opts.WireAPI, "wire-api", "", "provider wire protocol (chat or responses)")
	f.Int64Var(&opts.RequestMaxRetries, "request-max-retries", 4, "HTTP request retries")
	f.Int64Var(&opts.StreamMaxRetries, "stream-max-retries", 10, "stream reconnect retries")
	f.Int64Var(&opts.StreamIdleTimeoutMS, "stream-idle-timeout-ms", 300000, "stream idle timeout in milliseconds")
	f.StringVarP(&opts.AzureAPIVersion, "azure-api-version", "z", "", "Azure api-version query parameter")
	f.StringArrayVar(&opts.HTTPHeaders, "http-header", nil, "static HTTP header KEY=VAL (repeatable)")
	f.StringArrayVar(&opts.EnvHTTPHeaders, "env-http-header", nil, "env-sourced HTTP header KEY=ENV_VAR (repeatable)")

	f.StringArrayVar(&opts.WritableRoots, "writable-root", nil, "extra writable root for workspace-write (repeatable)")
	f.BoolVar(&opts.NetworkAccess, "network-access", false, "allow network access in workspace-write")
	f.BoolVar(&opts.ExcludeTmpdirEnvVar, "exclude-tmpdir-env-var", false, "exclude $TMPDIR from writable roots")
	f.BoolVar(&opts.ExcludeSlashTmp, "exclude-slash-tmp", false, "exclude /tmp from writable roots")
	f.StringSliceVar(&opts.Notify, "notify", nil, "notification command argv")
	f.StringVar(&opts.MCPJSON, "mcp-json", "", `mcp_servers JSON, e.g. '{"srv":{"command":"npx","args":["-y","mcp-server"]}}'`)

	f.StringVarP(&opts.APIKey, "api-key", "k", "", "API key to store in the OS keychain (never written to disk)")
	f.StringVar(&opts.Keychain, "keychain", "none", "keychain backend: "+strings.Join(keychain.Backends, ", "))

	f.BoolVarP(&opts.JSONOut, "json", "j", false, "also write config.json")
	f.BoolVarP(&opts.YAMLOut, "yaml", "y", false, "also write config.yaml")
	f.BoolVar(&opts.DryRun, "dry-run", false, "print the rendered config instead of writing")
	f.BoolVar(&opts.Diff, "diff", false, "with --dry-run, show a diff against existing files")

	f.BoolVarP(&opts.Auto, "auto", "a", false, "accept detection results without prompting")
	f.BoolVar(&opts.FullAuto, "full-auto", false, "--auto plus pick the first model")
	f.BoolVar(&opts.OverwriteProfile, "overwrite-profile", false, "replace an existing profile without asking")

	return cmd
}

func runLink(cmd *cobra.Command, opts *LinkOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	home := opts.Home
	if home == "" {
		home = iosafe.HomeDir()
	}
	statePath := opts.StateFile
	if statePath == "" {
		statePath = iosafe.LinkerJSON(home)
	}
	st := state.Load(statePath)
	applySavedState(cmd, opts, st)

	interactive := ui.Interactive() && !opts.Auto && !opts.FullAuto && !IsYes()

	baseURL, err := resolveBaseURL(ctx, opts, st, interactive)
	if err != nil {
		return err
	}

	providers := opts.Providers
	if len(providers) == 0 {
		providers = []string{config.ResolveProvider(baseURL)}
	}
	active := config.SanitizeID(providers[0])

	model, err := resolveModel(ctx, opts, st, baseURL, interactive)
	if err != nil {
		return err
	}

	contextWindow := opts.ContextWindow
	if contextWindow == 0 {
		contextWindow = detect.ContextWindow(ctx, baseURL, model)
	}

	profile := opts.Profile
	if profile == "" && interactive {
		if profile, err = prompt.PickProfile(active); err != nil {
			return err
		}
	}
	if profile == "" {
		profile = active
	}
	profile = config.SanitizeID(profile)

	inputs := config.Inputs{
		Model:     model,
		BaseURL:   baseURL,
		Profile:   profile,
		EnvKey:    opts.EnvKey,
		Providers: providers,

		ApprovalPolicy:   opts.ApprovalPolicy,
		SandboxMode:      opts.SandboxMode,
		ReasoningEffort:  opts.ReasoningEffort,
		ReasoningSummary: opts.ReasoningSummary,
		Verbosity:        opts.Verbosity,
		FileOpener:       opts.FileOpener,

		ContextWindow:      contextWindow,
		MaxOutputTokens:    opts.MaxOutputTokens,
		ProjectDocMaxBytes: opts.ProjectDocMaxBytes,

		HideAgentReasoning:              opts.HideAgentReasoning,
		ShowRawAgentReasoning:           opts.ShowRawAgentReasoning,
		ModelSupportsReasoningSummaries: opts.ModelSupportsReasoningSummaries,
		ChatGPTBaseURL:                  opts.ChatGPTBaseURL,
		PreferredAuthMethod:             opts.PreferredAuthMethod,

		ToolsWebSearch:         opts.ToolsWebSearch,
		TUINotifications:       opts.TUINotifications,
		DisableResponseStorage: opts.DisableResponseStorage,
		NoHistory:              opts.NoHistory,
		HistoryMaxBytes:        opts.HistoryMaxBytes,

		WireAPI:             opts.WireAPI,
		RequestMaxRetries:   opts.RequestMaxRetries,
		StreamMaxRetries:    opts.StreamMaxRetries,
		StreamIdleTimeoutMS: opts.StreamIdleTimeoutMS,
		AzureAPIVersion:     opts.AzureAPIVersion,
		HTTPHeaders:         parsePairs(opts.HTTPHeaders),
		EnvHTTPHeaders:      parsePairs(opts.EnvHTTPHeaders),

		WritableRoots:       opts.WritableRoots,
		NetworkAccess:       opts.NetworkAccess,
		ExcludeTmpdirEnvVar: opts.ExcludeTmpdirEnvVar,
		ExcludeSlashTmp:     opts.ExcludeSlashTmp,
		Notify:              opts.Notify,
	}
	if opts.MCPJSON != "" {
		servers := map[string]config.MCPServer{}
		if err := json.Unmarshal([]byte(opts.MCPJSON), &servers); err != nil {
			return fmt.Errorf("invalid --mcp-json: %w", err)
		}
		inputs.MCPServers = servers
	}

	doc := config.Build(st, inputs)

	tomlText, err := emit.ToTOML(doc)
	if err != nil {
		return err
	}

	targets := []struct {
		path    string
		text    string
		enabled bool
	}{
		{iosafe.ConfigTOML(home), tomlText, true},
		{iosafe.ConfigJSON(home), "", opts.JSONOut},
		{iosafe.ConfigYAML(home), "", opts.YAMLOut},
	}
	if opts.JSONOut {
		if targets[1].text, err = emit.ToJSON(doc); err != nil {
			return err
		}
	}
	if opts.YAMLOut {
		if targets[2].text, err = emit.ToYAML(doc); err != nil {
			return err
		}
	}

	if opts.DryRun {
		renderDryRun(targets, opts.Diff)
		ui.Info("dry run: no files were written")
		return nil
	}

	if err := guardProfileOverwrite(iosafe.ConfigTOML(home), profile, opts.OverwriteProfile, interactive); err != nil {
		return err
	}

	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", home, err)
	}

	var failed int
	for _, tgt := range targets {
		if !tgt.enabled {
			continue
		}
		start := time.Now()
		res, err := iosafe.WriteFile(tgt.path, tgt.text)
		if err != nil {
			failed++
			ui.Err("failed to write %s: %v", tgt.path, err)
			continue
		}
		ui.Log.Info().
			Str("path", tgt.path).
			Str("provider", active).
			Str("model", model).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("write_config")
		ui.Ok("wrote %s", tgt.path)
		if res.BackupPath != "" {
			ui.Dim("backup: %s", res.BackupPath)
		}
		if res.BackupErr != nil {
			ui.Warn("backup of %s failed: %v", tgt.path, res.BackupErr)
		}
	}

	if opts.APIKey != "" && opts.Keychain != "none" {
		name := opts.EnvKey
		if name == "" {
			name = "OPENAI_API_KEY"
		}
		if err := keychain.Store(opts.Keychain, name, opts.APIKey); err != nil {
			ui.Warn("keychain: %v", err)
		} else {
			ui.Ok("stored API key in %s keychain as %s", keychain.Resolve(opts.Keychain), name)
		}
	}

	if failed == 0 {
		if err := state.Save(statePath, state.LinkerState{
			BaseURL:                baseURL,
			Provider:               active,
			Model:                  model,
			Profile:                profile,
			EnvKey:                 opts.EnvKey,
			ApprovalPolicy:         opts.ApprovalPolicy,
			SandboxMode:            opts.SandboxMode,
			ReasoningEffort:        opts.ReasoningEffort,
			ReasoningSummary:       opts.ReasoningSummary,
			Verbosity:              opts.Verbosity,
			DisableResponseStorage: opts.DisableResponseStorage,
			NoHistory:              opts.NoHistory,
			HistoryMaxBytes:        opts.HistoryMaxBytes,
		}); err != nil {
			ui.Warn("could not save state: %v", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of the requested files could not be written", failed)
	}
	ui.Info("run codex with: codex --profile %s", profile)
	return nil
}

// resolveBaseURL picks the server base URL from flags, detection, prompts
// and saved state, in that order.
func resolveBaseURL(ctx context.Context, opts *LinkOptions, st state.LinkerState, interactive bool) (string, error) {
	if opts.BaseURL != "" {
		return opts.BaseURL, nil
	}
	if opts.Auto || opts.FullAuto {
		url, err := detect.BaseURL(ctx)
		if err == nil {
			ui.Info("detected server at %s", url)
			return url, nil
		}
		if st.BaseURL != "" {
			ui.Warn("detection failed (%v); reusing %s", err, st.BaseURL)
			return st.BaseURL, nil
		}
		return "", err
	}
	if interactive {
		detected, _ := detect.BaseURL(ctx)
		return prompt.PickBaseURL(detected)
	}
	if st.BaseURL != "" {
		return st.BaseURL, nil
	}
	return config.DefaultLMStudio, nil
}

// resolveModel picks the model id: explicit flag, interactive picker, first
// listed model in full-auto, then saved state.
func resolveModel(ctx context.Context, opts *LinkOptions, st state.LinkerState, baseURL string, interactive bool) (string, error) {
	if opts.Model != "" {
		return opts.Model, nil
	}
	models, err := detect.ListModels(ctx, baseURL)
	if err != nil || len(models) == 0 {
		if st.Model != "" {
			ui.Warn("could not list models; reusing %s", st.Model)
			return st.Model, nil
		}
		return "", fmt.Errorf("could not list models from %s: %w", baseURL, err)
	}
	if interactive {
		return prompt.PickModel(models)
	}
	return models[0].ID, nil
}

// applySavedState fills preference flags from the previous run when they
// were not supplied this time.
func applySavedState(cmd *cobra.Command, opts *LinkOptions, st state.LinkerState) {
	f := cmd.Flags()
	applyStr := func(flag string, target *string, saved string) {
		if !f.Changed(flag) && *target == "" && saved != "" {
			*target = saved
		}
	}
	applyStr("approval-policy", &opts.ApprovalPolicy, st.ApprovalPolicy)
	applyStr("sandbox-mode", &opts.SandboxMode, st.SandboxMode)
	applyStr("reasoning-effort", &opts.ReasoningEffort, st.ReasoningEffort)
	applyStr("reasoning-summary", &opts.ReasoningSummary, st.ReasoningSummary)
	applyStr("verbosity", &opts.Verbosity, st.Verbosity)
	applyStr("env-key-name", &opts.EnvKey, st.EnvKey)
	if !f.Changed("disable-response-storage") {
		opts.DisableResponseStorage = st.DisableResponseStorage
	}
	if !f.Changed("no-history") {
		opts.NoHistory = st.NoHistory
	}
	if !f.Changed("history-max-bytes") && st.HistoryMaxBytes > 0 {
		opts.HistoryMaxBytes = st.HistoryMaxBytes
	}
}

func renderDryRun(targets []struct {
	path    string
	text    string
	enabled bool
}, diff bool) {
	color := ui.Interactive() && os.Getenv("NO_COLOR") == ""
	for _, tgt := range targets {
		if !tgt.enabled {
			continue
		}
		if diff {
			old := ""
			if data, err := os.ReadFile(tgt.path); err == nil {
				old = string(data)
			}
			fmt.Print(diffview.Render(tgt.path, old, tgt.text, color))
		} else {
			fmt.Print(tgt.text)
		}
	}
}

var profileHeaderRe = regexp.MustCompile(`(?m)^\[profiles\.(?:"?)([^\]"]+)(?:"?)\]\s*$`)

// guardProfileOverwrite refuses to silently replace an existing
// [profiles.<name>] table in config.toml.
func guardProfileOverwrite(configPath, profile string, overwrite, interactive bool) error {
	if overwrite {
		return nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil
	}
	exists := false
	for _, m := range profileHeaderRe.FindAllStringSubmatch(string(data), -1) {
		if m[1] == profile {
			exists = true
			break
		}
	}
	if !exists {
		return nil
	}
	if interactive {
		ok, err := prompt.ConfirmOverwriteProfile(profile)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("profile %q exists; pass --overwrite-profile or choose another --profile", profile)
}

// parsePairs splits KEY=VAL entries into a map, last one wins.
func parsePairs(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			ui.Warn("ignoring malformed header %q (want KEY=VAL)", pair)
			continue
		}
		out[k] = v
	}
	return out
}
