package config

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default base URLs for OpenAI-compatible servers, local first.
const (
	DefaultLMStudio        = "http://localhost:1234/v1"
	DefaultOllama          = "http://localhost:11434/v1"
	DefaultVLLM            = "http://localhost:8000/v1"
	DefaultTGWUI           = "http://localhost:5000/v1"
	DefaultTGI8080         = "http://localhost:8080/v1"
	DefaultTGI3000         = "http://localhost:3000/v1"
	DefaultOpenRouterLocal = "http://localhost:7000/v1"
	DefaultJan             = "http://localhost:1337/v1"
	DefaultAnythingLLM     = "http://localhost:3001/v1"
	DefaultOpenAI          = "https://api.openai.com/v1"
	DefaultOpenRouter      = "https://openrouter.ai/api/v1"
	DefaultGroq            = "https://api.groq.com/openai/v1"
	DefaultMistral         = "https://api.mistral.ai/v1"
	DefaultDeepSeek        = "https://api.deepseek.com/v1"
)

// CommonBaseURLs lists probe candidates for auto-detection, in priority order.
var CommonBaseURLs = []string{
	DefaultLMStudio,
	DefaultOllama,
	DefaultVLLM,
	DefaultTGWUI,
	DefaultTGI8080,
	DefaultTGI3000,
	DefaultOpenRouterLocal,
	DefaultJan,
	DefaultAnythingLLM,
}

// providerLabels maps canonical provider ids to display names.
var providerLabels = map[string]string{
	"lmstudio":    "LM Studio",
	"ollama":      "Ollama",
	"vllm":        "vLLM",
	"tgwui":       "Text-Gen-WebUI",
	"tgi":         "TGI",
	"openrouter":  "OpenRouter",
	"jan":         "Jan AI",
	"anythingllm": "AnythingLLM",
	"llamacpp":    "llama.cpp",
	"koboldcpp":   "KoboldCpp",
	"openai":      "OpenAI",
	"azure":       "Azure OpenAI",
	"groq":        "Groq",
	"mistral":     "Mistral",
	"deepseek":    "DeepSeek",
	"anthropic":   "Anthropic",
}

// providerBaseURLs maps provider ids to their conventional base URL.
var providerBaseURLs = map[string]string{
	"lmstudio":    DefaultLMStudio,
	"ollama":      DefaultOllama,
	"vllm":        DefaultVLLM,
	"tgwui":       DefaultTGWUI,
	"tgi":         DefaultTGI8080,
	"openrouter":  DefaultOpenRouter,
	"jan":         DefaultJan,
	"anythingllm": DefaultAnythingLLM,
	"llamacpp":    DefaultTGI8080,
	"koboldcpp":   DefaultTGWUI,
	"openai":      DefaultOpenAI,
	"groq":        DefaultGroq,
	"mistral":     DefaultMistral,
	"deepseek":    DefaultDeepSeek,
}

var titleCaser = cases.Title(language.English)

// ProviderLabel returns the display name for a provider id. Unknown ids
// fall back to a Title-cased form of the id itself.
func ProviderLabel(id string) string {
	if label, ok := providerLabels[id]; ok {
		return label
	}
	return titleCaser.String(id)
}

// ProviderBaseURL returns the conventional base URL for a provider id, or
// empty when the id has no well-known endpoint.
func ProviderBaseURL(id string) string {
	return providerBaseURLs[id]
}

// providerPrefixes resolves base URLs back to provider ids. Ordered so that
// ports shared between presets resolve to the same id every run.
var providerPrefixes = []struct {
	prefix string
	id     string
}{
	{"http://localhost:1234", "lmstudio"},
	{"http://localhost:11434", "ollama"},
	{"http://localhost:8000", "vllm"},
	{"http://localhost:5000", "tgwui"},
	{"http://localhost:8080", "tgi"},
	{"http://localhost:3000", "tgi"},
	{"http://localhost:7000", "openrouter"},
	{"http://localhost:1337", "jan"},
	{"http://localhost:3001", "anythingllm"},
	{"https://api.openai.com", "openai"},
	{"https://openrouter.ai", "openrouter"},
	{"https://api.groq.com", "groq"},
	{"https://api.mistral.ai", "mistral"},
	{"https://api.deepseek.com", "deepseek"},
}

// ResolveProvider infers a provider id from an OpenAI-compatible base URL.
// Azure-hosted endpoints are recognized by hostname; anything unrecognized
// resolves to "custom".
func ResolveProvider(baseURL string) string {
	for _, p := range providerPrefixes {
		if strings.HasPrefix(baseURL, p.prefix) {
			return p.id
		}
	}
	if u, err := url.Parse(baseURL); err == nil {
		if strings.HasSuffix(strings.ToLower(u.Hostname()), ".openai.azure.com") {
			return "azure"
		}
	}
	return "custom"
}

var tableKeyRe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizeID reduces a user-chosen identifier to characters safe to use as
// a bare TOML/YAML table key. The result is never empty.
func SanitizeID(id string) string {
	s := tableKeyRe.ReplaceAllString(strings.TrimSpace(id), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "custom"
	}
	return s
}
