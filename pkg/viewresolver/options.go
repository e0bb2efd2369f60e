package viewresolver

import (
	"log/slog"

	"github.com/dmitrymomot/mobileview/pkg/logger"
)

// Option configures a Resolver.
type Option func(*resolverConfig)

type resolverConfig struct {
	chains map[string][]string
	logger *slog.Logger
}

// WithFallbackChains sets the initial fallback table.
// The chains are validated when the resolver is built.
func WithFallbackChains(chains map[string][]string) Option {
	return func(c *resolverConfig) { c.chains = chains }
}

// WithLogger sets the logger used for debug output. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *resolverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
