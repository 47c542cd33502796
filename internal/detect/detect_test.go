package detect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func modelsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestListModels(t *testing.T) {
	srv := modelsServer(t, `{"data":[
		{"id":"llama-3.1-8b","context_length":131072},
		{"id":"qwen-2.5","meta":{"n_ctx":32768}},
		{"id":""},
		{"object":"model"}
	]}`)

	models, err := ListModels(context.Background(), srv.URL+"/v1")
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2 (entries without an id are skipped)", len(models))
	}
	if models[0].ID != "llama-3.1-8b" || models[0].ContextWindow != 131072 {
		t.Errorf("model[0] = %+v", models[0])
	}
	if models[1].ID != "qwen-2.5" || models[1].ContextWindow != 32768 {
		t.Errorf("model[1] = %+v (nested hint lost)", models[1])
	}
}

func TestListModelsErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)
		if _, err := ListModels(context.Background(), srv.URL+"/v1"); err == nil {
			t.Error("expected an error for a 500 response")
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		if _, err := ListModels(context.Background(), "http://127.0.0.1:1/v1"); err == nil {
			t.Error("expected an error for a connection failure")
		}
	})
}

func TestContextWindow(t *testing.T) {
	srv := modelsServer(t, `{"data":[
		{"id":"small","context_length":8192},
		{"id":"big","context_length":131072}
	]}`)

	if got := ContextWindow(context.Background(), srv.URL+"/v1", "big"); got != 131072 {
		t.Errorf("exact match = %d, want 131072", got)
	}
	// unknown model falls back to any model reporting a window
	if got := ContextWindow(context.Background(), srv.URL+"/v1", "other"); got != 8192 {
		t.Errorf("fallback = %d, want 8192", got)
	}
	// unreachable server is a silent zero
	if got := ContextWindow(context.Background(), "http://127.0.0.1:1/v1", "big"); got != 0 {
		t.Errorf("unreachable = %d, want 0", got)
	}
}

func TestContextWindowHint(t *testing.T) {
	tests := []struct {
		name  string
		entry map[string]any
		want  int64
	}{
		{"top level", map[string]any{"context_length": float64(4096)}, 4096},
		{"alternate key", map[string]any{"max_context_length": float64(2048)}, 2048},
		{"nested metadata", map[string]any{"metadata": map[string]any{"context_window": float64(1024)}}, 1024},
		{"nested n_ctx", map[string]any{"config": map[string]any{"n_ctx": float64(512)}}, 512},
		{"zero ignored", map[string]any{"context_length": float64(0)}, 0},
		{"absent", map[string]any{"id": "m"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contextWindowHint(tt.entry); got != tt.want {
				t.Errorf("contextWindowHint() = %d, want %d", got, tt.want)
			}
		})
	}
}
