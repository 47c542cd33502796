// Package config defines the canonical in-memory configuration document
// produced for Codex-compatible clients, and the builder that shapes it
// from saved state plus resolved CLI inputs.
//
// The document is a tree over a closed set of node kinds (string, int,
// bool, string array, table). All emitters in the emit package render the
// same tree, so key set, values and types are format-invariant by
// construction.
package config

// Kind identifies the type of a document node.
type Kind int

const (
	// KindString is a string scalar.
	KindString Kind = iota
	// KindInt is an integer scalar.
	KindInt
	// KindBool is a boolean scalar.
	KindBool
	// KindStringArray is a flat array of strings.
	KindStringArray
	// KindTable is a nested table with ordered keys.
	KindTable
)

// String returns a short name for the kind, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindStringArray:
		return "string array"
	case KindTable:
		return "table"
	}
	return "unknown"
}

// Value is a single node in the configuration document. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Bool  bool
	Array []string
	Table *Table
}

// String wraps a string scalar.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int wraps an integer scalar.
func Int(n int64) Value { return Value{Kind: KindInt, Int: n} }

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Strings wraps a string array.
func Strings(ss ...string) Value { return Value{Kind: KindStringArray, Array: ss} }

// Nested wraps a table.
func Nested(t *Table) Value { return Value{Kind: KindTable, Table: t} }

// IsEmpty reports whether the value falls under the sparsity rule: empty or
// whitespace-only strings, empty arrays and empty tables are omitted from
// output. Zero integers and false booleans are meaningful and never empty.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindString:
		return isBlank(v.Str)
	case KindStringArray:
		return len(v.Array) == 0
	case KindTable:
		return v.Table == nil || v.Table.pruned().Len() == 0
	}
	return false
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

// Table is an ordered string-keyed mapping of values. Insertion order is
// preserved so every emitter renders keys in the same, stable order.
type Table struct {
	keys []string
	vals map[string]Value
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{vals: make(map[string]Value)}
}

// Set inserts or replaces a key. A replaced key keeps its original position.
func (t *Table) Set(key string, v Value) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.vals[key] = v
}

// Get returns the value for key.
func (t *Table) Get(key string) (Value, bool) {
	v, ok := t.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of keys.
func (t *Table) Len() int { return len(t.keys) }

// pruned returns a copy of the table with all empty values dropped,
// recursing into nested tables. The receiver is not modified.
func (t *Table) pruned() *Table {
	out := NewTable()
	for _, k := range t.keys {
		v := t.vals[k]
		if v.Kind == KindTable && v.Table != nil {
			sub := v.Table.pruned()
			if sub.Len() == 0 {
				continue
			}
			out.Set(k, Nested(sub))
			continue
		}
		if v.IsEmpty() {
			continue
		}
		out.Set(k, v)
	}
	return out
}

// Prune returns a sparse copy of the table per the sparsity rule.
func (t *Table) Prune() *Table { return t.pruned() }

// Document is the root of a built configuration.
type Document struct {
	Root *Table
}
