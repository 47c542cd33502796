package emit

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chazuruo/codexlink/internal/config"
	"github.com/chazuruo/codexlink/internal/errors"
)

// ToYAML renders the document as a block-style YAML mapping. The yaml.Node
// API is used instead of Marshal on a map so the schema key order survives
// and strings needing quotes are quoted per the YAML grammar.
func ToYAML(doc *config.Document) (string, error) {
	root, err := yamlTable(doc.Root.Prune())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", &errors.ConfigError{Err: errors.Wrap(err, "yaml encode")}
	}
	if err := enc.Close(); err != nil {
		return "", &errors.ConfigError{Err: errors.Wrap(err, "yaml encode")}
	}
	return b.String(), nil
}

func yamlTable(t *config.Table) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range t.Keys() {
		v, _ := t.Get(key)
		val, err := yamlValue(v)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			val,
		)
	}
	return node, nil
}

func yamlValue(v config.Value) (*yaml.Node, error) {
	switch v.Kind {
	case config.KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}, nil
	case config.KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.Int, 10)}, nil
	case config.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool)}, nil
	case config.KindStringArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, s := range v.Array {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s})
		}
		return seq, nil
	case config.KindTable:
		return yamlTable(v.Table)
	}
	return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedNode, v.Kind)
}
