package viewresolver

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// StoreOption configures the glob-based stores.
type StoreOption func(*storeConfig)

type storeConfig struct {
	pattern string
}

// WithPattern overrides DefaultPattern. Empty patterns are ignored.
func WithPattern(pattern string) StoreOption {
	return func(c *storeConfig) {
		if pattern != "" {
			c.pattern = pattern
		}
	}
}

func newStoreConfig(opts []StoreOption) storeConfig {
	cfg := storeConfig{pattern: DefaultPattern}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// FileSystemStore searches templates in a set of directories on the local
// filesystem. The search path is fixed at construction.
type FileSystemStore struct {
	paths   []string // absolute, de-duplicated
	pattern string
}

// NewFileSystemStore creates a store over paths. Paths are resolved to
// absolute form and duplicates are dropped, keeping the first occurrence.
// Directories that do not exist are allowed and simply never match.
func NewFileSystemStore(paths []string, opts ...StoreOption) (*FileSystemStore, error) {
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSearchPath, p, err)
		}
		abs = append(abs, a)
	}
	abs = compactUniq(abs)
	if len(abs) == 0 {
		return nil, fmt.Errorf("%w: no search paths", ErrInvalidSearchPath)
	}

	cfg := newStoreConfig(opts)
	return &FileSystemStore{paths: abs, pattern: cfg.pattern}, nil
}

// Paths returns the search path in lookup order.
func (s *FileSystemStore) Paths() []string { return slices.Clone(s.paths) }

// Search globs every expansion of the query and returns the matching files
// in glob order without duplicates. Each search path is globbed inside its
// own os.DirFS, so glob characters in the path itself are never interpreted.
func (s *FileSystemStore) Search(ctx context.Context, name, prefix string, partial bool, details Details) ([]Artifact, error) {
	query := BuildQuery(s.pattern, []string{"."}, name, prefix, partial, details)
	patterns := ExpandBraces(query)

	var artifacts []Artifact
	seen := make(map[string]struct{})
	for _, root := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}

		fsys := os.DirFS(root)
		for _, pattern := range patterns {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			matches, err := doublestar.Glob(fsys, cleanFSPattern(pattern),
				doublestar.WithFilesOnly(),
				doublestar.WithFailOnIOErrors(),
			)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %s: %w", ErrSearchFailed, root, pattern, err)
			}

			for _, m := range matches {
				file := filepath.Join(root, filepath.FromSlash(m))
				if _, ok := seen[file]; ok {
					continue
				}
				seen[file] = struct{}{}
				artifacts = append(artifacts, newArtifact(file, filepath.Base(file), name, prefix, partial, details))
			}
		}
	}
	return artifacts, nil
}

// Open opens a file found by Search. Files outside the search path are refused.
func (s *FileSystemStore) Open(ctx context.Context, a Artifact) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.contains(a.Identifier) {
		return nil, fmt.Errorf("%w: %s is outside the search path", ErrOpenFailed, a.Identifier)
	}

	f, err := os.Open(a.Identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	return f, nil
}

func (s *FileSystemStore) contains(file string) bool {
	for _, root := range s.paths {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
