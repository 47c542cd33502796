// Package detect discovers running OpenAI-compatible servers and lists
// their models. It is thin I/O glue in front of the builder: its only
// outputs are a base URL string and model ids with an optional
// context-window hint.
package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chazuruo/codexlink/internal/config"
	"github.com/chazuruo/codexlink/internal/ui"
)

// Model is one entry from a server's /models listing.
type Model struct {
	// ID is the model identifier as reported by the server.
	ID string
	// ContextWindow is the context size hint mined from server metadata,
	// 0 when unknown.
	ContextWindow int64
}

// probeTimeout bounds each HTTP probe; local servers answer fast or not
// at all.
const probeTimeout = 2 * time.Second

var client = &http.Client{Timeout: probeTimeout}

// BaseURL probes the well-known local server URLs in parallel and returns
// the highest-priority one that answers /models. Returns an error when
// nothing responds.
func BaseURL(ctx context.Context) (string, error) {
	results := make([]bool, len(config.CommonBaseURLs))
	g, ctx := errgroup.WithContext(ctx)
	for i, candidate := range config.CommonBaseURLs {
		i, candidate := i, candidate
		g.Go(func() error {
			_, err := fetchModels(ctx, candidate)
			if err == nil {
				results[i] = true
			} else {
				ui.Log.Info().Str("base_url", candidate).Err(err).Msg("probe failed")
			}
			return nil
		})
	}
	_ = g.Wait()
	for i, ok := range results {
		if ok {
			return config.CommonBaseURLs[i], nil
		}
	}
	return "", fmt.Errorf("no OpenAI-compatible server found on common ports")
}

// ListModels fetches /models from baseURL and returns the models in server
// order, with context-window hints where the server exposes them.
func ListModels(ctx context.Context, baseURL string) ([]Model, error) {
	entries, err := fetchModels(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	models := make([]Model, 0, len(entries))
	for _, entry := range entries {
		id, _ := entry["id"].(string)
		if id == "" {
			continue
		}
		models = append(models, Model{ID: id, ContextWindow: contextWindowHint(entry)})
	}
	return models, nil
}

// ContextWindow returns the context-window hint for one model id, or 0.
func ContextWindow(ctx context.Context, baseURL, modelID string) int64 {
	models, err := ListModels(ctx, baseURL)
	if err != nil {
		return 0
	}
	for _, m := range models {
		if m.ID == modelID && m.ContextWindow > 0 {
			return m.ContextWindow
		}
	}
	// fall back to any model that reports one; local servers usually load
	// a single model
	for _, m := range models {
		if m.ContextWindow > 0 {
			return m.ContextWindow
		}
	}
	return 0
}

func fetchModels(ctx context.Context, baseURL string) ([]map[string]any, error) {
	url := strings.TrimSuffix(baseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	var payload struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	return payload.Data, nil
}

// contextWindowKeys are the metadata fields local servers use for the
// model's context size.
var contextWindowKeys = []string{
	"context_length",
	"max_context_length",
	"context_window",
	"max_context_window",
	"n_ctx",
}

// contextWindowHint scans a model entry (and one nested metadata level)
// for a context-window field.
func contextWindowHint(entry map[string]any) int64 {
	if n := intField(entry); n > 0 {
		return n
	}
	for _, nested := range []string{"meta", "metadata", "settings", "config", "parameters"} {
		if sub, ok := entry[nested].(map[string]any); ok {
			if n := intField(sub); n > 0 {
				return n
			}
		}
	}
	return 0
}

func intField(m map[string]any) int64 {
	for _, key := range contextWindowKeys {
		switch v := m[key].(type) {
		case float64:
			if v > 0 {
				return int64(v)
			}
		case json.Number:
			if n, err := v.Int64(); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}
