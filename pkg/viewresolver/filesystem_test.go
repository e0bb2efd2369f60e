package viewresolver_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mobileview/pkg/viewresolver"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupViews(t *testing.T) (views, shared string) {
	t.Helper()
	root := t.TempDir()
	views = filepath.Join(root, "views")
	shared = filepath.Join(root, "shared")

	writeFile(t, filepath.Join(views, "users", "show.html.tmpl"), "desktop")
	writeFile(t, filepath.Join(views, "users", "show.mobile.tmpl"), "mobile")
	writeFile(t, filepath.Join(views, "users", "show.iphone.tmpl"), "iphone")
	writeFile(t, filepath.Join(views, "users", "show.en.mobile+phone.tmpl"), "phone variant")
	writeFile(t, filepath.Join(views, "users", "_row.html.tmpl"), "row")
	writeFile(t, filepath.Join(views, "index.html.tmpl"), "home")
	writeFile(t, filepath.Join(shared, "users", "show.mobile.tmpl"), "shared mobile")
	require.NoError(t, os.MkdirAll(filepath.Join(views, "users", "list.html.tmpl"), 0o755))
	return views, shared
}

func details(formats ...string) viewresolver.Details {
	return viewresolver.Details{
		viewresolver.DetailFormats:  formats,
		viewresolver.DetailHandlers: {"tmpl"},
	}
}

func TestNewFileSystemStore(t *testing.T) {
	t.Parallel()

	t.Run("dedupes and resolves paths", func(t *testing.T) {
		dir := t.TempDir()
		store, err := viewresolver.NewFileSystemStore([]string{dir, dir + "/", "", dir})
		require.NoError(t, err)
		assert.Equal(t, []string{dir}, store.Paths())
	})

	t.Run("relative path made absolute", func(t *testing.T) {
		store, err := viewresolver.NewFileSystemStore([]string{"views"})
		require.NoError(t, err)
		require.Len(t, store.Paths(), 1)
		assert.True(t, filepath.IsAbs(store.Paths()[0]))
	})

	t.Run("requires a path", func(t *testing.T) {
		_, err := viewresolver.NewFileSystemStore(nil)
		require.ErrorIs(t, err, viewresolver.ErrInvalidSearchPath)
	})
}

func TestFileSystemStore_Search(t *testing.T) {
	t.Parallel()

	views, shared := setupViews(t)
	store, err := viewresolver.NewFileSystemStore([]string{views, shared})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("candidate order within and across paths", func(t *testing.T) {
		got, err := store.Search(ctx, "show", "users", false, details("mobile", "html"))
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, filepath.Join(views, "users", "show.mobile.tmpl"), got[0].Identifier)
		assert.Equal(t, filepath.Join(views, "users", "show.html.tmpl"), got[1].Identifier)
		assert.Equal(t, filepath.Join(shared, "users", "show.mobile.tmpl"), got[2].Identifier)

		assert.Equal(t, "mobile", got[0].Format)
		assert.Equal(t, "tmpl", got[0].Handler)
		assert.Equal(t, "users/show", got[0].VirtualPath)
	})

	t.Run("no match is empty, not an error", func(t *testing.T) {
		got, err := store.Search(ctx, "show", "users", false, details("json"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("partial", func(t *testing.T) {
		got, err := store.Search(ctx, "row", "users", true, details("html"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].Partial)
		assert.Equal(t, "users/_row", got[0].VirtualPath)
	})

	t.Run("empty prefix", func(t *testing.T) {
		got, err := store.Search(ctx, "index", "", false, details("html"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, filepath.Join(views, "index.html.tmpl"), got[0].Identifier)
	})

	t.Run("directories never match", func(t *testing.T) {
		got, err := store.Search(ctx, "list", "users", false, details("html"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("locale and variant", func(t *testing.T) {
		d := details("mobile")
		d[viewresolver.DetailLocale] = []string{"en"}
		d[viewresolver.DetailVariants] = []string{"phone"}

		got, err := store.Search(ctx, "show", "users", false, d)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, filepath.Join(views, "users", "show.en.mobile+phone.tmpl"), got[0].Identifier)
		assert.Equal(t, "en", got[0].Locale)
		assert.Equal(t, "mobile", got[0].Format)
		assert.Equal(t, "phone", got[0].Variant)
		assert.Equal(t, "tmpl", got[0].Handler)
	})

	t.Run("any variant", func(t *testing.T) {
		d := details("mobile")
		d[viewresolver.DetailLocale] = []string{"en"}
		d[viewresolver.DetailVariants] = []string{viewresolver.VariantsAny}

		got, err := store.Search(ctx, "show", "users", false, d)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, "phone", got[0].Variant)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Search(cctx, "show", "users", false, details("html"))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing search path is not an error", func(t *testing.T) {
		s, err := viewresolver.NewFileSystemStore([]string{filepath.Join(views, "missing")})
		require.NoError(t, err)
		got, err := s.Search(ctx, "show", "users", false, details("html"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestFileSystemStore_SearchLiteralGlobCharacters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		root   string
		prefix string
	}{
		{name: "brackets in root", root: "v[1]", prefix: "users"},
		{name: "comma in root", root: "a,b", prefix: "users"},
		{name: "braces in root", root: "c{x}", prefix: "users"},
		{name: "brackets in prefix", root: "views", prefix: "us[e]rs"},
		{name: "braces in prefix", root: "views", prefix: "admin{1,2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := filepath.Join(t.TempDir(), tt.root)
			want := filepath.Join(root, tt.prefix, "show.mobile.tmpl")
			writeFile(t, want, "mobile")
			writeFile(t, filepath.Join(root, "users1", "show.mobile.tmpl"), "decoy")

			store, err := viewresolver.NewFileSystemStore([]string{root})
			require.NoError(t, err)

			got, err := store.Search(context.Background(), "show", tt.prefix, false, details("mobile"))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, want, got[0].Identifier)
			assert.Equal(t, "mobile", got[0].Format)

			rc, err := store.Open(context.Background(), got[0])
			require.NoError(t, err)
			defer rc.Close()
			body, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, "mobile", string(body))
		})
	}
}

func TestFileSystemStore_WithResolver(t *testing.T) {
	t.Parallel()

	views, _ := setupViews(t)
	store, err := viewresolver.NewFileSystemStore([]string{views})
	require.NoError(t, err)

	r, err := viewresolver.New(store, viewresolver.WithFallbackChains(map[string][]string{
		"iphone":  {"iphone", "mobile", "html"},
		"android": {"android", "mobile", "html"},
	}))
	require.NoError(t, err)
	ctx := context.Background()

	a, err := r.Find(ctx, viewresolver.Lookup{Name: "show", Prefix: "users", Details: details("iphone")})
	require.NoError(t, err)
	assert.Equal(t, "iphone", a.Format)

	a, err = r.Find(ctx, viewresolver.Lookup{Name: "show", Prefix: "users", Details: details("android")})
	require.NoError(t, err)
	assert.Equal(t, "mobile", a.Format)

	_, err = r.Find(ctx, viewresolver.Lookup{Name: "index", Details: details("android")})
	require.NoError(t, err)

	_, err = r.Find(ctx, viewresolver.Lookup{Name: "index", Details: details("tablet")})
	require.ErrorIs(t, err, viewresolver.ErrTemplateNotFound)
}

func TestFileSystemStore_Open(t *testing.T) {
	t.Parallel()

	views, _ := setupViews(t)
	store, err := viewresolver.NewFileSystemStore([]string{views})
	require.NoError(t, err)
	ctx := context.Background()

	got, err := store.Search(ctx, "show", "users", false, details("mobile"))
	require.NoError(t, err)
	require.NotEmpty(t, got)

	rc, err := store.Open(ctx, got[0])
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "mobile", string(body))

	_, err = store.Open(ctx, viewresolver.Artifact{Identifier: filepath.Join(views, "..", "secret.txt")})
	require.ErrorIs(t, err, viewresolver.ErrOpenFailed)
}
