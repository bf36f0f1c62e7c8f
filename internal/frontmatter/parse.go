package frontmatter

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML block (without delimiters) into Metadata.
//
// The block must be a mapping. Scalars become strings, booleans or dates;
// sequences of scalars become lists. Null values are dropped. Nested
// mappings are rejected.
func ParseYAML(block []byte) (Metadata, error) {
	meta := Metadata{}
	if len(block) == 0 {
		return meta, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return meta, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("front matter must be a mapping, got %s", nodeKindName(root.Kind))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: front matter keys must be scalars", keyNode.Line)
		}
		key := keyNode.Value
		if _, dup := meta[key]; dup {
			return nil, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, key)
		}
		v, ok, err := valueFromNode(valNode)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		if ok {
			meta[key] = v
		}
	}
	return meta, nil
}

func valueFromNode(n *yaml.Node) (Value, bool, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return scalarValue(n)
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind == yaml.AliasNode && item.Alias != nil {
				item = item.Alias
			}
			if item.Kind != yaml.ScalarNode {
				return Value{}, false, fmt.Errorf("line %d: list items must be scalars", item.Line)
			}
			if item.ShortTag() == "!!null" {
				continue
			}
			items = append(items, item.Value)
		}
		return ListValue(items...), true, nil
	default:
		return Value{}, false, fmt.Errorf("line %d: nested %s values are not supported", n.Line, nodeKindName(n.Kind))
	}
}

func scalarValue(n *yaml.Node) (Value, bool, error) {
	switch n.ShortTag() {
	case "!!null":
		return Value{}, false, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, false, err
		}
		return BoolValue(b), true, nil
	case "!!timestamp":
		t, ok := ParseDate(n.Value)
		if !ok {
			return Value{}, false, fmt.Errorf("line %d: invalid date %q", n.Line, n.Value)
		}
		return DateValue(t), true, nil
	case "!!binary":
		return Value{}, false, fmt.Errorf("line %d: binary values are not supported", n.Line)
	default:
		// !!str, !!int and !!float keep their source text.
		return StringValue(n.Value), true, nil
	}
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}

// ParseTOML decodes a TOML block (without delimiters) into Metadata.
// The same value rules as ParseYAML apply; tables are rejected.
func ParseTOML(block []byte) (Metadata, error) {
	meta := Metadata{}
	if len(block) == 0 {
		return meta, nil
	}

	var raw map[string]any
	if err := toml.Unmarshal(block, &raw); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		v, err := valueFromTOML(raw[key])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		meta[key] = v
	}
	return meta, nil
}

func valueFromTOML(v any) (Value, error) {
	switch vv := v.(type) {
	case []any:
		items := make([]string, 0, len(vv))
		for _, item := range vv {
			s, err := tomlScalarText(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, s)
		}
		return ListValue(items...), nil
	case bool:
		return BoolValue(vv), nil
	case time.Time:
		return DateValue(vv), nil
	case toml.LocalDate:
		return DateValue(vv.AsTime(time.UTC)), nil
	case toml.LocalDateTime:
		return DateValue(vv.AsTime(time.UTC)), nil
	case map[string]any:
		return Value{}, fmt.Errorf("nested tables are not supported")
	default:
		s, err := tomlScalarText(v)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	}
}

func tomlScalarText(v any) (string, error) {
	switch vv := v.(type) {
	case string:
		return vv, nil
	case int64:
		return strconv.FormatInt(vv, 10), nil
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(vv), nil
	case time.Time:
		return FormatDate(vv), nil
	case toml.LocalDate:
		return vv.String(), nil
	case toml.LocalDateTime:
		return vv.String(), nil
	case toml.LocalTime:
		return vv.String(), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}
