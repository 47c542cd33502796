// Package emit renders a built configuration document into its three
// serialized forms: TOML, JSON and YAML. The emitters are independent pure
// functions over the same document tree, so the three outputs always
// describe an identical logical document.
package emit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chazuruo/codexlink/internal/config"
	"github.com/chazuruo/codexlink/internal/errors"
)

var bareKeyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ToTOML renders the document as TOML: root scalars first, then one
// [dotted.header] section per nested table, depth-first in document order.
func ToTOML(doc *config.Document) (string, error) {
	root := doc.Root.Prune()

	var b strings.Builder
	b.WriteString("# Generated by codexlink\n")
	if err := writeTOMLTable(&b, root, nil); err != nil {
		return "", err
	}
	out := strings.TrimRight(b.String(), "\n") + "\n"
	return out, nil
}

// writeTOMLTable emits t's scalar keys, then recurses into sub-tables,
// emitting a section header for each.
func writeTOMLTable(b *strings.Builder, t *config.Table, path []string) error {
	for _, key := range t.Keys() {
		v, _ := t.Get(key)
		if v.Kind == config.KindTable {
			continue
		}
		enc, err := tomlValue(v)
		if err != nil {
			return &errors.ConfigError{Err: errors.Wrap(err, strings.Join(append(path, key), "."))}
		}
		fmt.Fprintf(b, "%s = %s\n", tomlKey(key), enc)
	}
	for _, key := range t.Keys() {
		v, _ := t.Get(key)
		if v.Kind != config.KindTable {
			continue
		}
		sub := append(append([]string(nil), path...), key)
		header := make([]string, len(sub))
		for i, part := range sub {
			header[i] = tomlKey(part)
		}
		fmt.Fprintf(b, "\n[%s]\n", strings.Join(header, "."))
		if err := writeTOMLTable(b, v.Table, sub); err != nil {
			return err
		}
	}
	return nil
}

func tomlValue(v config.Value) (string, error) {
	switch v.Kind {
	case config.KindString:
		return tomlString(v.Str), nil
	case config.KindInt:
		return strconv.FormatInt(v.Int, 10), nil
	case config.KindBool:
		return strconv.FormatBool(v.Bool), nil
	case config.KindStringArray:
		parts := make([]string, len(v.Array))
		for i, s := range v.Array {
			parts[i] = tomlString(s)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	}
	return "", fmt.Errorf("%w: %s", errors.ErrUnsupportedNode, v.Kind)
}

func tomlKey(key string) string {
	if bareKeyRe.MatchString(key) {
		return key
	}
	return tomlString(key)
}

// tomlString encodes s as a TOML basic string.
func tomlString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
