package chainsource

import (
	"context"
	"maps"
	"slices"
	"strings"
)

// Source loads a complete fallback table: format -> ordered chain.
type Source interface {
	Load(ctx context.Context) (map[string][]string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (map[string][]string, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) (map[string][]string, error) { return f(ctx) }

// Static returns a source that always yields a copy of chains.
func Static(chains map[string][]string) Source {
	snapshot := cloneChains(chains)
	return SourceFunc(func(context.Context) (map[string][]string, error) {
		return cloneChains(snapshot), nil
	})
}

// ParseChain splits a comma separated chain ("iphone, mobile, html") into
// its trimmed tokens. Empty tokens are kept so validation can reject them.
func ParseChain(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// FormatChain is the inverse of ParseChain.
func FormatChain(chain []string) string {
	return strings.Join(chain, ",")
}

func cloneChains(chains map[string][]string) map[string][]string {
	if chains == nil {
		return nil
	}
	out := make(map[string][]string, len(chains))
	for k, v := range chains {
		out[k] = slices.Clone(v)
	}
	return out
}

func equalChains(a, b map[string][]string) bool {
	return maps.EqualFunc(a, b, slices.Equal[[]string])
}
