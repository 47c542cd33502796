package emit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/chazuruo/codexlink/internal/config"
)

func sampleDoc() *config.Document {
	provider := config.NewTable()
	provider.Set("name", config.String("LM Studio"))
	provider.Set("base_url", config.String("http://localhost:1234/v1"))
	provider.Set("wire_api", config.String("chat"))

	providers := config.NewTable()
	providers.Set("lmstudio", config.Nested(provider))

	root := config.NewTable()
	root.Set("model", config.String("llama-3.1-8b"))
	root.Set("model_provider", config.String("lmstudio"))
	root.Set("model_context_window", config.Int(0))
	root.Set("hide_agent_reasoning", config.Bool(false))
	root.Set("notify", config.Strings("notify-send", "Codex"))
	root.Set("model_providers", config.Nested(providers))
	return &config.Document{Root: root}
}

// normalize reduces parser-specific number and map types so documents read
// back from the three formats can be compared directly.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case float64:
		return int64(x)
	case int:
		return int64(x)
	case int64:
		return x
	default:
		return x
	}
}

func deepEqual(a, b any) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}

// TestEmitterParity renders one document through all three emitters, reads
// each output back with an independent parser and checks that the three
// logical documents are identical.
func TestEmitterParity(t *testing.T) {
	doc := sampleDoc()

	tomlOut, err := ToTOML(doc)
	if err != nil {
		t.Fatalf("ToTOML: %v", err)
	}
	jsonOut, err := ToJSON(doc)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	yamlOut, err := ToYAML(doc)
	if err != nil {
		t.Fatalf("ToYAML: %v", err)
	}

	var fromTOML, fromJSON, fromYAML map[string]any
	if err := toml.Unmarshal([]byte(tomlOut), &fromTOML); err != nil {
		t.Fatalf("TOML output does not parse: %v\n%s", err, tomlOut)
	}
	if err := json.Unmarshal([]byte(jsonOut), &fromJSON); err != nil {
		t.Fatalf("JSON output does not parse: %v\n%s", err, jsonOut)
	}
	if err := yaml.Unmarshal([]byte(yamlOut), &fromYAML); err != nil {
		t.Fatalf("YAML output does not parse: %v\n%s", err, yamlOut)
	}

	a, b, c := normalize(fromTOML), normalize(fromJSON), normalize(fromYAML)
	if !deepEqual(a, b) {
		t.Errorf("TOML and JSON disagree:\n%s\n---\n%s", tomlOut, jsonOut)
	}
	if !deepEqual(a, c) {
		t.Errorf("TOML and YAML disagree:\n%s\n---\n%s", tomlOut, yamlOut)
	}
}

func TestToTOMLShape(t *testing.T) {
	out, err := ToTOML(sampleDoc())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out, "# Generated by codexlink\n") {
		t.Errorf("missing generated header:\n%s", out)
	}
	if !strings.Contains(out, "\n[model_providers.lmstudio]\n") {
		t.Errorf("missing dotted section header:\n%s", out)
	}
	if !strings.Contains(out, `model = "llama-3.1-8b"`) {
		t.Errorf("missing root scalar:\n%s", out)
	}
	if !strings.Contains(out, `notify = ["notify-send", "Codex"]`) {
		t.Errorf("missing inline array:\n%s", out)
	}
	// root scalars precede the first section
	if strings.Index(out, "model = ") > strings.Index(out, "[model_providers") {
		t.Errorf("scalars must come before section headers:\n%s", out)
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Errorf("output must end with exactly one newline")
	}
}

func TestToTOMLEscaping(t *testing.T) {
	root := config.NewTable()
	root.Set("model", config.String("a\"b\\c\nd"))
	out, err := ToTOML(&config.Document{Root: root})
	if err != nil {
		t.Fatal(err)
	}

	var parsed struct {
		Model string `toml:"model"`
	}
	if err := toml.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("escaped output does not parse: %v\n%s", err, out)
	}
	if parsed.Model != "a\"b\\c\nd" {
		t.Errorf("round-tripped string = %q", parsed.Model)
	}
}

func TestSparsityAcrossEmitters(t *testing.T) {
	inner := config.NewTable()
	root := config.NewTable()
	root.Set("model", config.String("m"))
	root.Set("blank", config.String(""))
	root.Set("none", config.Strings())
	root.Set("empty", config.Nested(inner))
	root.Set("zero", config.Int(0))
	doc := &config.Document{Root: root}

	for name, emitFn := range map[string]func(*config.Document) (string, error){
		"toml": ToTOML, "json": ToJSON, "yaml": ToYAML,
	} {
		out, err := emitFn(doc)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for _, absent := range []string{"blank", "none", "empty"} {
			if strings.Contains(out, absent) {
				t.Errorf("%s output carries pruned key %q:\n%s", name, absent, out)
			}
		}
		if !strings.Contains(out, "zero") {
			t.Errorf("%s output dropped zero int:\n%s", name, out)
		}
	}
}

func TestJSONOrderPreserved(t *testing.T) {
	root := config.NewTable()
	root.Set("zeta", config.String("1"))
	root.Set("alpha", config.String("2"))
	out, err := ToJSON(&config.Document{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Index(out, "zeta") > strings.Index(out, "alpha") {
		t.Errorf("insertion order lost:\n%s", out)
	}
}
