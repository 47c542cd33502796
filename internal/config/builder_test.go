package config

import (
	"reflect"
	"testing"

	"github.com/chazuruo/codexlink/internal/state"
)

func mustTable(t *testing.T, tbl *Table, key string) *Table {
	t.Helper()
	v, ok := tbl.Get(key)
	if !ok {
		t.Fatalf("table %q missing", key)
	}
	if v.Kind != KindTable {
		t.Fatalf("%q is %v, want a table", key, v.Kind)
	}
	return v.Table
}

func mustString(t *testing.T, tbl *Table, key string) string {
	t.Helper()
	v, ok := tbl.Get(key)
	if !ok {
		t.Fatalf("key %q missing", key)
	}
	if v.Kind != KindString {
		t.Fatalf("%q is %v, want a string", key, v.Kind)
	}
	return v.Str
}

func TestBuildSingleProvider(t *testing.T) {
	doc := Build(state.LinkerState{}, Inputs{
		Model:   "llama-3.1-8b",
		BaseURL: "http://localhost:1234/v1",
		EnvKey:  "OPENAI_API_KEY",
	})
	root := doc.Root

	if got := mustString(t, root, "model"); got != "llama-3.1-8b" {
		t.Errorf("model = %q", got)
	}
	if got := mustString(t, root, "model_provider"); got != "lmstudio" {
		t.Errorf("model_provider = %q, want lmstudio", got)
	}
	if got := mustString(t, root, "profile"); got != "lmstudio" {
		t.Errorf("profile = %q, want lmstudio", got)
	}
	if got := mustString(t, root, "approval_policy"); got != "on-failure" {
		t.Errorf("approval_policy = %q, want default on-failure", got)
	}

	providers := mustTable(t, root, "model_providers")
	lm := mustTable(t, providers, "lmstudio")
	if got := mustString(t, lm, "base_url"); got != "http://localhost:1234/v1" {
		t.Errorf("provider base_url = %q", got)
	}
	if got := mustString(t, lm, "name"); got != "LM Studio" {
		t.Errorf("provider name = %q", got)
	}
	if got := mustString(t, lm, "env_key"); got != "OPENAI_API_KEY" {
		t.Errorf("env_key = %q", got)
	}

	profiles := mustTable(t, root, "profiles")
	prof := mustTable(t, profiles, "lmstudio")
	if got := mustString(t, prof, "model"); got != "llama-3.1-8b" {
		t.Errorf("profile model = %q", got)
	}
	if got := mustString(t, prof, "model_provider"); got != "lmstudio" {
		t.Errorf("profile model_provider = %q", got)
	}
}

func TestBuildSparsity(t *testing.T) {
	doc := Build(state.LinkerState{}, Inputs{BaseURL: "http://localhost:1234/v1"})
	root := doc.Root

	// empty strings and arrays never appear
	for _, key := range []string{"chatgpt_base_url", "notify", "mcp_servers"} {
		if _, ok := root.Get(key); ok {
			t.Errorf("empty key %q should have been pruned", key)
		}
	}
	// zero ints and false bools stay
	for _, key := range []string{"model_context_window", "hide_agent_reasoning", "disable_response_storage"} {
		if _, ok := root.Get(key); !ok {
			t.Errorf("zero-value key %q must survive", key)
		}
	}
	// tools keeps web_search=false, history keeps max_bytes=0
	tools := mustTable(t, root, "tools")
	if v, ok := tools.Get("web_search"); !ok || v.Bool {
		t.Errorf("tools.web_search should be present and false")
	}
	history := mustTable(t, root, "history")
	if got := mustString(t, history, "persistence"); got != "save-all" {
		t.Errorf("history.persistence = %q", got)
	}
}

func TestBuildStateFallbackAndOverride(t *testing.T) {
	st := state.LinkerState{
		BaseURL:  "http://localhost:11434/v1",
		Provider: "ollama",
		Model:    "saved-model",
		Profile:  "work",
	}

	// flags absent: the saved choices win
	doc := Build(st, Inputs{})
	if got := mustString(t, doc.Root, "model"); got != "saved-model" {
		t.Errorf("model from state = %q", got)
	}
	if got := mustString(t, doc.Root, "profile"); got != "work" {
		t.Errorf("profile from state = %q", got)
	}

	// explicit inputs win over state
	doc = Build(st, Inputs{Model: "fresh", Profile: "play"})
	if got := mustString(t, doc.Root, "model"); got != "fresh" {
		t.Errorf("model override = %q", got)
	}
	if got := mustString(t, doc.Root, "profile"); got != "play" {
		t.Errorf("profile override = %q", got)
	}

	// nothing anywhere: hard fallback model
	doc = Build(state.LinkerState{}, Inputs{})
	if got := mustString(t, doc.Root, "model"); got != "gpt-5" {
		t.Errorf("fallback model = %q", got)
	}
}

func TestBuildMultiProvider(t *testing.T) {
	doc := Build(state.LinkerState{}, Inputs{
		Model:     "m",
		BaseURL:   "http://localhost:1234/v1",
		Providers: []string{"lmstudio", "ollama"},
		Profile:   "main",
	})
	root := doc.Root

	providers := mustTable(t, root, "model_providers")
	if got := providers.Keys(); !reflect.DeepEqual(got, []string{"lmstudio", "ollama"}) {
		t.Fatalf("provider tables = %v", got)
	}
	// active provider takes the linked base URL, others their preset
	if got := mustString(t, mustTable(t, providers, "lmstudio"), "base_url"); got != "http://localhost:1234/v1" {
		t.Errorf("active base_url = %q", got)
	}
	if got := mustString(t, mustTable(t, providers, "ollama"), "base_url"); got != DefaultOllama {
		t.Errorf("secondary base_url = %q, want preset", got)
	}

	// active profile is named by --profile, secondary by provider id
	profiles := mustTable(t, root, "profiles")
	if got := profiles.Keys(); !reflect.DeepEqual(got, []string{"main", "ollama"}) {
		t.Fatalf("profile tables = %v", got)
	}
	if got := mustString(t, root, "model_provider"); got != "lmstudio" {
		t.Errorf("model_provider = %q", got)
	}
}

func TestBuildAzureQueryParams(t *testing.T) {
	doc := Build(state.LinkerState{}, Inputs{
		BaseURL:         "https://myorg.openai.azure.com/openai/v1",
		Providers:       []string{"azure", "ollama"},
		AzureAPIVersion: "2025-04-01-preview",
	})
	providers := mustTable(t, doc.Root, "model_providers")

	qp := mustTable(t, mustTable(t, providers, "azure"), "query_params")
	if got := mustString(t, qp, "api-version"); got != "2025-04-01-preview" {
		t.Errorf("api-version = %q", got)
	}
	if _, ok := mustTable(t, providers, "ollama").Get("query_params"); ok {
		t.Errorf("query_params must only be set on the active provider")
	}
}

func TestBuildMCPServers(t *testing.T) {
	doc := Build(state.LinkerState{}, Inputs{
		BaseURL: "http://localhost:1234/v1",
		MCPServers: map[string]MCPServer{
			"docs":   {Command: "docs-server", Args: []string{"--port", "9000"}},
			"bad id": {Command: "x", Env: map[string]string{"KEY": "v"}},
		},
	})
	servers := mustTable(t, doc.Root, "mcp_servers")
	if got := servers.Keys(); !reflect.DeepEqual(got, []string{"bad-id", "docs"}) {
		t.Fatalf("server keys = %v, want sanitized and sorted", got)
	}
	docs := mustTable(t, servers, "docs")
	if got := mustString(t, docs, "command"); got != "docs-server" {
		t.Errorf("command = %q", got)
	}
	env := mustTable(t, mustTable(t, servers, "bad-id"), "env")
	if got := mustString(t, env, "KEY"); got != "v" {
		t.Errorf("env.KEY = %q", got)
	}
}

func TestBuildDeterministic(t *testing.T) {
	st := state.LinkerState{Provider: "ollama"}
	in := Inputs{
		Model:       "m",
		BaseURL:     "http://localhost:11434/v1",
		Providers:   []string{"ollama", "lmstudio"},
		HTTPHeaders: map[string]string{"b": "2", "a": "1"},
		MCPServers:  map[string]MCPServer{"z": {Command: "z"}, "a": {Command: "a"}},
	}
	first := Build(st, in)
	for i := 0; i < 20; i++ {
		if got := Build(st, in); !reflect.DeepEqual(got, first) {
			t.Fatalf("Build is not deterministic (iteration %d)", i)
		}
	}
}
