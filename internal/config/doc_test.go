package config

import "testing"

// TestTableOrder verifies insertion order survives Set and replacement.
func TestTableOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Set("b", String("1"))
	tbl.Set("a", String("2"))
	tbl.Set("c", Int(3))
	tbl.Set("a", String("updated")) // replace keeps position

	want := []string{"b", "a", "c"}
	got := tbl.Keys()
	if len(got) != len(want) {
		t.Fatalf("got %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if v, _ := tbl.Get("a"); v.Str != "updated" {
		t.Errorf("replaced value = %q, want %q", v.Str, "updated")
	}
}

// TestIsEmpty covers the sparsity rule: blank strings, empty arrays and
// empty tables are empty; zero ints and false bools are not.
func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"empty string", String(""), true},
		{"whitespace string", String("  \t"), true},
		{"real string", String("x"), false},
		{"zero int", Int(0), false},
		{"false bool", Bool(false), false},
		{"empty array", Strings(), true},
		{"array", Strings("a"), false},
		{"nil table", Nested(nil), true},
		{"empty table", Nested(NewTable()), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestPrune drops empty leaves and recursively empty tables, and keeps
// zero ints and false bools.
func TestPrune(t *testing.T) {
	inner := NewTable()
	inner.Set("blank", String(""))

	tbl := NewTable()
	tbl.Set("model", String("m"))
	tbl.Set("empty", String(""))
	tbl.Set("zero", Int(0))
	tbl.Set("off", Bool(false))
	tbl.Set("none", Strings())
	tbl.Set("inner", Nested(inner))

	pruned := tbl.Prune()

	for _, key := range []string{"model", "zero", "off"} {
		if _, ok := pruned.Get(key); !ok {
			t.Errorf("key %q missing after prune", key)
		}
	}
	for _, key := range []string{"empty", "none", "inner"} {
		if _, ok := pruned.Get(key); ok {
			t.Errorf("key %q should have been pruned", key)
		}
	}

	// table that becomes non-empty only via a nested meaningful value
	deep := NewTable()
	deep.Set("flag", Bool(false))
	outer := NewTable()
	outer.Set("deep", Nested(deep))
	if outer.Prune().Len() != 1 {
		t.Errorf("table holding a false bool must survive pruning")
	}
}
