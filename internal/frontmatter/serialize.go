package frontmatter

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"
)

// Canonical serializes metadata into YAML bytes with keys in lexicographic
// order, LF newlines and dates in RFC 3339 UTC. Identical metadata always
// yields identical bytes regardless of source key order or syntax.
//
// Empty metadata yields an empty slice.
func Canonical(meta Metadata) ([]byte, error) {
	if len(meta) == 0 {
		return []byte{}, nil
	}

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range meta.Keys() {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			nodeFromValue(meta[k]),
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nodeFromValue(v Value) *yaml.Node {
	switch v.Kind() {
	case KindString:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case KindDate:
		t, _ := v.AsDate()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: t.UTC().Format(time.RFC3339Nano)}
	case KindBool:
		b, _ := v.AsBool()
		if b {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "false"}
	case KindList:
		items, _ := v.AsList()
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range items {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		return seq
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
