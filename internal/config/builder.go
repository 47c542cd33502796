package config

import (
	"sort"
	"strings"

	"github.com/chazuruo/codexlink/internal/state"
)

// MCPServer describes one MCP server entry destined for mcp_servers.<id>.
type MCPServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Inputs carries every CLI-controllable knob, already resolved by the flag
// layer and the interactive prompts. Zero values mean "not supplied"; the
// builder applies defaults and clamping.
type Inputs struct {
	Model     string
	BaseURL   string
	Profile   string
	EnvKey    string
	Providers []string

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

	ChatGPTBaseURL      string
	PreferredAuthMethod string

	ToolsWebSearch         bool
	TUINotifications       bool
	DisableResponseStorage bool

	NoHistory       bool
	HistoryMaxBytes int64

	WireAPI             string
	RequestMaxRetries   int64
	StreamMaxRetries    int64
	StreamIdleTimeoutMS int64
	AzureAPIVersion     string
	HTTPHeaders         map[string]string
	EnvHTTPHeaders      map[string]string

	WritableRoots       []string
	NetworkAccess       bool
	ExcludeTmpdirEnvVar bool
	ExcludeSlashTmp     bool
	Notify              []string

	MCPServers map[string]MCPServer
}

const fallbackModel = "gpt-5"

// Build shapes the configuration document from prior saved state and the
// resolved inputs. It is pure: no I/O, no failure modes. Out-of-range enum
// inputs are clamped, identifiers are sanitized, and the sparsity rule is
// applied as the final pass, so the returned document is ready for any
// emitter.
func Build(st state.LinkerState, in Inputs) *Document {
	model := firstNonEmpty(in.Model, st.Model, fallbackModel)
	baseURL := strings.TrimSuffix(firstNonEmpty(in.BaseURL, st.BaseURL), "/")

	providers := make([]string, 0, len(in.Providers))
	for _, id := range in.Providers {
		providers = append(providers, SanitizeID(id))
	}
	if len(providers) == 0 {
		providers = []string{SanitizeID(firstNonEmpty(st.Provider, ResolveProvider(baseURL)))}
	}
	active := providers[0]
	profile := SanitizeID(firstNonEmpty(in.Profile, st.Profile, active))

	approval := ApprovalPolicies.Clamp(in.ApprovalPolicy)
	sandbox := SandboxModes.Clamp(in.SandboxMode)
	effort := ReasoningEfforts.Clamp(in.ReasoningEffort)
	summary := ReasoningSummaries.Clamp(in.ReasoningSummary)
	verbosity := Verbosities.Clamp(in.Verbosity)
	opener := FileOpeners.Clamp(in.FileOpener)
	wireAPI := WireAPIs.Clamp(in.WireAPI)
	auth := AuthMethods.Clamp(in.PreferredAuthMethod)

	root := NewTable()
	root.Set("model", String(model))
	root.Set("model_provider", String(active))
	root.Set("approval_policy", String(approval))
	root.Set("sandbox_mode", String(sandbox))
	root.Set("file_opener", String(opener))
	root.Set("model_reasoning_effort", String(effort))
	root.Set("model_reasoning_summary", String(summary))
	root.Set("model_verbosity", String(verbosity))
	root.Set("model_context_window", Int(in.ContextWindow))
	root.Set("model_max_output_tokens", Int(in.MaxOutputTokens))
	root.Set("project_doc_max_bytes", Int(in.ProjectDocMaxBytes))
	root.Set("hide_agent_reasoning", Bool(in.HideAgentReasoning))
	root.Set("show_raw_agent_reasoning", Bool(in.ShowRawAgentReasoning))
	root.Set("model_supports_reasoning_summaries", Bool(in.ModelSupportsReasoningSummaries))
	root.Set("chatgpt_base_url", String(in.ChatGPTBaseURL))
	root.Set("preferred_auth_method", String(auth))
	root.Set("profile", String(profile))
	root.Set("disable_response_storage", Bool(in.DisableResponseStorage))
	root.Set("notify", Strings(in.Notify...))

	tools := NewTable()
	tools.Set("web_search", Bool(in.ToolsWebSearch))
	root.Set("tools", Nested(tools))

	history := NewTable()
	persistence := "save-all"
	if in.NoHistory {
		persistence = "none"
	}
	history.Set("persistence", String(HistoryModes.Clamp(persistence)))
	history.Set("max_bytes", Int(in.HistoryMaxBytes))
	root.Set("history", Nested(history))

	sandboxWrite := NewTable()
	sandboxWrite.Set("writable_roots", Strings(in.WritableRoots...))
	sandboxWrite.Set("network_access", Bool(in.NetworkAccess))
	sandboxWrite.Set("exclude_tmpdir_env_var", Bool(in.ExcludeTmpdirEnvVar))
	sandboxWrite.Set("exclude_slash_tmp", Bool(in.ExcludeSlashTmp))
	root.Set("sandbox_workspace_write", Nested(sandboxWrite))

	tui := NewTable()
	tui.Set("notifications", Bool(in.TUINotifications))
	root.Set("tui", Nested(tui))

	providerTables := NewTable()
	profileTables := NewTable()
	for i, id := range providers {
		isActive := i == 0
		purl := ProviderBaseURL(id)
		if isActive && baseURL != "" {
			purl = baseURL
		}
		if purl == "" {
			purl = baseURL
		}

		p := NewTable()
		p.Set("name", String(ProviderLabel(id)))
		p.Set("base_url", String(strings.TrimSuffix(purl, "/")))
		p.Set("env_key", String(in.EnvKey))
		p.Set("wire_api", String(wireAPI))
		p.Set("request_max_retries", Int(in.RequestMaxRetries))
		p.Set("stream_max_retries", Int(in.StreamMaxRetries))
		p.Set("stream_idle_timeout_ms", Int(in.StreamIdleTimeoutMS))
		if t := sortedStringTable(in.HTTPHeaders); t.Len() > 0 {
			p.Set("http_headers", Nested(t))
		}
		if t := sortedStringTable(in.EnvHTTPHeaders); t.Len() > 0 {
			p.Set("env_http_headers", Nested(t))
		}
		if isActive && in.AzureAPIVersion != "" {
			qp := NewTable()
			qp.Set("api-version", String(in.AzureAPIVersion))
			p.Set("query_params", Nested(qp))
		}
		providerTables.Set(id, Nested(p))

		name := id
		if isActive {
			name = profile
		}
		pr := NewTable()
		pr.Set("model", String(model))
		pr.Set("model_provider", String(id))
		pr.Set("model_context_window", Int(in.ContextWindow))
		pr.Set("model_max_output_tokens", Int(in.MaxOutputTokens))
		pr.Set("approval_policy", String(approval))
		profileTables.Set(name, Nested(pr))
	}
	root.Set("model_providers", Nested(providerTables))
	root.Set("profiles", Nested(profileTables))

	if len(in.MCPServers) > 0 {
		servers := NewTable()
		names := make([]string, 0, len(in.MCPServers))
		for name := range in.MCPServers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			srv := in.MCPServers[name]
			t := NewTable()
			t.Set("command", String(srv.Command))
			t.Set("args", Strings(srv.Args...))
			if env := sortedStringTable(srv.Env); env.Len() > 0 {
				t.Set("env", Nested(env))
			}
			servers.Set(SanitizeID(name), Nested(t))
		}
		root.Set("mcp_servers", Nested(servers))
	}

	return &Document{Root: root.Prune()}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func sortedStringTable(m map[string]string) *Table {
	t := NewTable()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.Set(k, String(m[k]))
	}
	return t
}
