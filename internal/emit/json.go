package emit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/chazuruo/codexlink/internal/config"
	"github.com/chazuruo/codexlink/internal/errors"
)

// ToJSON renders the document as a single JSON object with two-space
// indentation. Keys keep the document's schema order; encoding/json's map
// sorting is avoided by walking the ordered tree directly.
func ToJSON(doc *config.Document) (string, error) {
	var b strings.Builder
	if err := writeJSONTable(&b, doc.Root.Prune(), 0); err != nil {
		return "", err
	}
	b.WriteByte('\n')
	return b.String(), nil
}

func writeJSONTable(b *strings.Builder, t *config.Table, depth int) error {
	if t.Len() == 0 {
		b.WriteString("{}")
		return nil
	}
	indent := strings.Repeat("  ", depth+1)
	b.WriteString("{\n")
	keys := t.Keys()
	for i, key := range keys {
		v, _ := t.Get(key)
		b.WriteString(indent)
		b.WriteString(jsonString(key))
		b.WriteString(": ")
		if err := writeJSONValue(b, v, depth+1); err != nil {
			return err
		}
		if i < len(keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteByte('}')
	return nil
}

func writeJSONValue(b *strings.Builder, v config.Value, depth int) error {
	switch v.Kind {
	case config.KindString:
		b.WriteString(jsonString(v.Str))
	case config.KindInt:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case config.KindBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case config.KindStringArray:
		b.WriteByte('[')
		for i, s := range v.Array {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(jsonString(s))
		}
		b.WriteByte(']')
	case config.KindTable:
		return writeJSONTable(b, v.Table, depth)
	default:
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedNode, v.Kind)
	}
	return nil
}

func jsonString(s string) string {
	enc, err := json.Marshal(s)
	if err != nil {
		// strings always marshal
		return `""`
	}
	return string(enc)
}
