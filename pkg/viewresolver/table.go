package viewresolver

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FallbackTable maps a requested format to the ordered chain of formats
// tried for it, most specific first. A table is immutable once built.
type FallbackTable struct {
	chains map[string][]string
}

// NewFallbackTable validates chains and returns a table holding a deep copy.
// A format with an empty key, a nil or empty chain, or a blank token in its
// chain is rejected with ErrInvalidFallbackChain.
//
// Chains are expanded one level only: the chain of the primary format is used
// verbatim and the tokens inside it are never expanded again, so a chain that
// names its own format (mobile -> [mobile, html]) is the normal case.
func NewFallbackTable(chains map[string][]string) (FallbackTable, error) {
	out := make(map[string][]string, len(chains))
	for format, chain := range chains {
		if strings.TrimSpace(format) == "" {
			return FallbackTable{}, fmt.Errorf("%w: empty format key", ErrInvalidFallbackChain)
		}
		if len(chain) == 0 {
			return FallbackTable{}, fmt.Errorf("%w: format %q has no chain", ErrInvalidFallbackChain, format)
		}
		for i, token := range chain {
			if strings.TrimSpace(token) == "" {
				return FallbackTable{}, fmt.Errorf("%w: format %q has a blank token at position %d", ErrInvalidFallbackChain, format, i)
			}
		}
		out[format] = slices.Clone(chain)
	}
	return FallbackTable{chains: out}, nil
}

// Chain returns a copy of the chain configured for format.
func (t FallbackTable) Chain(format string) ([]string, bool) {
	chain, ok := t.chains[format]
	if !ok {
		return nil, false
	}
	return slices.Clone(chain), true
}

// Has reports whether format has a configured chain.
func (t FallbackTable) Has(format string) bool {
	_, ok := t.chains[format]
	return ok
}

// Formats returns the configured formats in sorted order.
func (t FallbackTable) Formats() []string {
	return slices.Sorted(maps.Keys(t.chains))
}

// Len returns the number of configured formats.
func (t FallbackTable) Len() int { return len(t.chains) }

// Map returns a deep copy of the table contents.
func (t FallbackTable) Map() map[string][]string {
	out := make(map[string][]string, len(t.chains))
	for k, v := range t.chains {
		out[k] = slices.Clone(v)
	}
	return out
}
