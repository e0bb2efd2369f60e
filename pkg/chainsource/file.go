package chainsource

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File returns a source reading chains from a YAML or JSON document:
//
//	iphone: [iphone, mobile, html]
//	mobile: mobile, html
//
// A chain is either a list or a comma separated string.
func File(path string) Source {
	return SourceFunc(func(ctx context.Context) (map[string][]string, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
		chains, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return chains, nil
	})
}

// Parse decodes a chains document. JSON is accepted as a YAML subset.
func Parse(data []byte) (map[string][]string, error) {
	var doc map[string]chainValue
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidChains, err)
	}
	if len(doc) == 0 {
		return nil, ErrEmptySource
	}

	chains := make(map[string][]string, len(doc))
	for format, chain := range doc {
		chains[format] = []string(chain)
	}
	return chains, nil
}

type chainValue []string

func (c *chainValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*c = nil
			return nil
		}
		*c = ParseChain(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*c = list
		return nil
	default:
		return fmt.Errorf("line %d: chain must be a list or a comma separated string", node.Line)
	}
}
