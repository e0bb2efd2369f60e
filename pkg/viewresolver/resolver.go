package viewresolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/dmitrymomot/mobileview/pkg/logger"
)

// Resolver resolves template lookups against a Store, expanding the primary
// requested format through the fallback table.
//
// Resolve never mutates shared state and is safe for concurrent use.
// ReplaceFallbackChains swaps the whole table atomically; resolutions
// already in flight keep the snapshot they started with.
type Resolver struct {
	store  Store
	table  atomic.Pointer[FallbackTable]
	logger *slog.Logger
}

// New creates a resolver on top of store.
func New(store Store, opts ...Option) (*Resolver, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	cfg := &resolverConfig{logger: logger.Discard()}
	for _, opt := range opts {
		opt(cfg)
	}

	table, err := NewFallbackTable(cfg.chains)
	if err != nil {
		return nil, err
	}

	r := &Resolver{store: store, logger: cfg.logger}
	r.table.Store(&table)
	return r, nil
}

// ReplaceFallbackChains replaces the entire fallback table. Nothing from the
// previous table survives unless it is also present in chains. On a
// validation error the current table is left in place.
func (r *Resolver) ReplaceFallbackChains(chains map[string][]string) error {
	table, err := NewFallbackTable(chains)
	if err != nil {
		return err
	}
	r.table.Store(&table)
	r.logger.Debug("fallback chains replaced", slog.Int("formats", table.Len()))
	return nil
}

// FallbackChains returns a copy of the current fallback table.
func (r *Resolver) FallbackChains() map[string][]string {
	return r.table.Load().Map()
}

// ExpandFormats returns the details the store would be queried with.
// When the primary format has a chain, a copy of the details is returned
// with the formats replaced by that chain; otherwise the details are
// returned unchanged.
func (r *Resolver) ExpandFormats(l Lookup) (Details, error) {
	return expand(r.table.Load(), l.Details)
}

func expand(table *FallbackTable, details Details) (Details, error) {
	formats := details.Formats()
	if len(formats) == 0 {
		return nil, ErrNoFormats
	}

	chain, ok := table.chains[formats[0]]
	if !ok {
		return details, nil
	}

	expanded := details.Clone()
	expanded[DetailFormats] = slices.Clone(chain)
	return expanded, nil
}

// Resolve returns every artifact the store finds for the lookup. An empty
// result is a miss, not an error. Store failures are returned as they are.
func (r *Resolver) Resolve(ctx context.Context, l Lookup) ([]Artifact, error) {
	details, err := expand(r.table.Load(), l.Details)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", l.VirtualPath(), err)
	}

	artifacts, err := r.store.Search(ctx, l.Name, l.Prefix, l.Partial, details)
	if err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "template lookup",
		slog.String("template", l.VirtualPath()),
		slog.Any("formats", details.Formats()),
		slog.Int("matches", len(artifacts)),
	)
	return artifacts, nil
}

// Find returns the best match for the lookup, or ErrTemplateNotFound.
func (r *Resolver) Find(ctx context.Context, l Lookup) (Artifact, error) {
	artifacts, err := r.Resolve(ctx, l)
	if err != nil {
		return Artifact{}, err
	}
	if len(artifacts) == 0 {
		return Artifact{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, l.VirtualPath())
	}
	return artifacts[0], nil
}

// IsNotFound reports whether err means no template matched.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}
