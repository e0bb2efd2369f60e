package viewresolver

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FSStore searches templates inside an fs.FS, typically an embed.FS
// compiled into the binary. Roots are slash-separated and unrooted.
type FSStore struct {
	fsys    fs.FS
	roots   []string
	pattern string
}

// NewFSStore creates a store over fsys. With no roots the whole
// filesystem ("." ) is searched.
func NewFSStore(fsys fs.FS, roots []string, opts ...StoreOption) (*FSStore, error) {
	if fsys == nil {
		return nil, ErrNilStore
	}

	clean := make([]string, 0, len(roots))
	for _, r := range roots {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		r = path.Clean(strings.TrimPrefix(r, "/"))
		if !fs.ValidPath(r) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSearchPath, r)
		}
		clean = append(clean, r)
	}
	clean = compactUniq(clean)
	if len(clean) == 0 {
		clean = []string{"."}
	}

	cfg := newStoreConfig(opts)
	return &FSStore{fsys: fsys, roots: clean, pattern: cfg.pattern}, nil
}

// Roots returns the search roots in lookup order.
func (s *FSStore) Roots() []string { return slices.Clone(s.roots) }

// Search globs every expansion of the query against the filesystem.
func (s *FSStore) Search(ctx context.Context, name, prefix string, partial bool, details Details) ([]Artifact, error) {
	query := BuildQuery(s.pattern, s.roots, name, prefix, partial, details)

	var artifacts []Artifact
	seen := make(map[string]struct{})
	for _, pattern := range ExpandBraces(query) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := doublestar.Glob(s.fsys, cleanFSPattern(pattern),
			doublestar.WithFilesOnly(),
			doublestar.WithFailOnIOErrors(),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSearchFailed, pattern, err)
		}

		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			artifacts = append(artifacts, newArtifact(m, path.Base(m), name, prefix, partial, details))
		}
	}
	return artifacts, nil
}

// Open opens a file found by Search.
func (s *FSStore) Open(ctx context.Context, a Artifact) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fsys.Open(a.Identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	return f, nil
}

// cleanFSPattern strips the "./" left behind by the "." root, since fs.FS
// paths never start with it.
func cleanFSPattern(pattern string) string {
	for strings.HasPrefix(pattern, "./") {
		pattern = pattern[2:]
	}
	return pattern
}
