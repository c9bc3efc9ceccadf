package frontmatter

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SerializeYAML encodes fields as YAML without delimiters.
//
// Keys are sorted at every nesting level so output is stable across runs.
// Empty fields serialize to an empty slice.
func SerializeYAML(fields Fields, style Style) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	node, err := mappingNode(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if style.Newline != "" && style.Newline != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(style.Newline))
	}
	return out, nil
}

// Compose renders fields and body into a complete document.
func Compose(fields Fields, body []byte) ([]byte, error) {
	style := detectStyle(body)
	raw, err := SerializeYAML(fields, style)
	if err != nil {
		return nil, fmt.Errorf("serialize frontmatter: %w", err)
	}
	return Join(raw, body, len(fields) > 0, style), nil
}

func mappingNode(m map[string]any) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		val, err := valueNode(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		n.Content = append(n.Content, scalar("!!str", k), val)
	}
	return n, nil
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func valueNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case string:
		return scalar("!!str", vv), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(vv)), nil
	case int:
		return scalar("!!int", strconv.Itoa(vv)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(vv, 10)), nil
	case float64:
		return scalar("!!float", strconv.FormatFloat(vv, 'g', -1, 64)), nil
	case Fields:
		return mappingNode(vv)
	case map[string]any:
		return mappingNode(vv)
	case map[any]any:
		converted := make(map[string]any, len(vv))
		for k, val := range vv {
			converted[fmt.Sprint(k)] = val
		}
		return mappingNode(converted)
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			seq.Content = append(seq.Content, scalar("!!str", item))
		}
		return seq, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			node, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, node)
		}
		return seq, nil
	default:
		// Uncommon scalars (time.Time, uint, ...) go through yaml's own encoder.
		var node yaml.Node
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return &node, nil
	}
}
