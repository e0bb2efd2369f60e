package viewresolver

import (
	"context"
	"io"
)

// Store is the backing-store template search primitive. Every details
// dimension is combined in a single search and all matches are returned in
// the store's own order.
type Store interface {
	Search(ctx context.Context, name, prefix string, partial bool, details Details) ([]Artifact, error)
}

// Opener gives access to the content of a resolved artifact.
type Opener interface {
	Open(ctx context.Context, a Artifact) (io.ReadCloser, error)
}

// StoreFunc adapts a plain function to the Store interface.
type StoreFunc func(ctx context.Context, name, prefix string, partial bool, details Details) ([]Artifact, error)

// Search calls f.
func (f StoreFunc) Search(ctx context.Context, name, prefix string, partial bool, details Details) ([]Artifact, error) {
	return f(ctx, name, prefix, partial, details)
}
