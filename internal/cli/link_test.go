package cli

import (
	"reflect"
	"strings"
	"testing"

	"github.com/chazuruo/codexlink/internal/testutil"
)

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		want  map[string]string
	}{
		{"nil input", nil, nil},
		{"single pair", []string{"X-Org=acme"}, map[string]string{"X-Org": "acme"}},
		{
			"last one wins",
			[]string{"A=1", "A=2"},
			map[string]string{"A": "2"},
		},
		{
			"value with equals",
			[]string{"Authorization=Bearer a=b"},
			map[string]string{"Authorization": "Bearer a=b"},
		},
		{
			"malformed entries skipped",
			[]string{"no-separator", "=empty-key", "OK=1"},
			map[string]string{"OK": "1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parsePairs(tt.pairs); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parsePairs(%v) = %v, want %v", tt.pairs, got, tt.want)
			}
		})
	}
}

func TestGuardProfileOverwrite(t *testing.T) {
	configText := strings.Join([]string{
		`model = "m"`,
		``,
		`[profiles.work]`,
		`model = "m"`,
		``,
		`[profiles."odd name"]`,
		`model = "m"`,
		``,
	}, "\n")

	t.Run("missing config never blocks", func(t *testing.T) {
		if err := guardProfileOverwrite("/nonexistent/config.toml", "work", false, false); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("new profile passes", func(t *testing.T) {
		path := testutil.WriteFile(t, "config.toml", configText)
		if err := guardProfileOverwrite(path, "fresh", false, false); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("existing profile blocks", func(t *testing.T) {
		path := testutil.WriteFile(t, "config.toml", configText)
		err := guardProfileOverwrite(path, "work", false, false)
		if err == nil {
			t.Fatal("expected an error for an existing profile")
		}
		if !strings.Contains(err.Error(), "--overwrite-profile") {
			t.Errorf("error should mention the escape hatch: %v", err)
		}
	})

	t.Run("quoted header matches too", func(t *testing.T) {
		path := testutil.WriteFile(t, "config.toml", configText)
		if err := guardProfileOverwrite(path, "odd name", false, false); err == nil {
			t.Error("expected an error for a quoted existing profile")
		}
	})

	t.Run("overwrite flag bypasses", func(t *testing.T) {
		path := testutil.WriteFile(t, "config.toml", configText)
		if err := guardProfileOverwrite(path, "work", true, false); err != nil {
			t.Errorf("unexpected error with --overwrite-profile: %v", err)
		}
	})
}
