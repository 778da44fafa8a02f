package categories

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigurationLoadError reports a categories file that exists but could not
// be used. Callers are expected to fall back to Default.
type ConfigurationLoadError struct {
	Path string
	Err  error
}

func (e *ConfigurationLoadError) Error() string {
	return fmt.Sprintf("loading categories from %s: %v", e.Path, e.Err)
}

func (e *ConfigurationLoadError) Unwrap() error { return e.Err }

// Load reads a categories file: a YAML (or JSON) mapping of category name to
// a list of keywords. Mapping order becomes match order.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationLoadError{Path: path, Err: err}
	}
	t, err := Parse(data)
	if err != nil {
		return nil, &ConfigurationLoadError{Path: path, Err: err}
	}
	return t, nil
}

// Parse decodes a categories document. It walks the yaml.Node tree instead of
// unmarshaling into a map so declaration order survives.
func Parse(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing categories: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty categories document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of category to keywords", root.Line)
	}

	entries := make([]Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: category name must be a string", key.Line)
		}
		kws, err := keywords(val)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", key.Value, err)
		}
		entries = append(entries, Entry{Name: key.Value, Keywords: kws})
	}
	return New(entries)
}

func keywords(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: keyword must be a string", item.Line)
			}
			out = append(out, item.Value)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: keywords must be a list", n.Line)
	}
}

// Marshal encodes t in the format Parse reads.
func Marshal(t *Table) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range t.entries {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, kw := range e.Keywords {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kw})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
			seq,
		)
	}
	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("marshaling categories: %w", err)
	}
	return data, nil
}

// Save writes t to a YAML file.
func Save(path string, t *Table) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}
	return nil
}
