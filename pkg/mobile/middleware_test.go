package mobile_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mobileview/pkg/mobile"
)

// serve runs req through the middleware and returns the state the handler saw.
func serve(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) mobile.Formats {
	t.Helper()

	var (
		got    mobile.Formats
		called bool
	)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := mobile.FormatsFromContext(r.Context())
		require.True(t, ok)
		got, called = f, true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.True(t, called)
	require.Equal(t, http.StatusNoContent, rec.Code)
	return got
}

func request(target, ua string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	return req
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("desktop request keeps its format", func(t *testing.T) {
		t.Parallel()
		f := serve(t, mobile.Middleware(), request("/", uaChrome))

		assert.Equal(t, mobile.Formats{Active: "html", Original: "html", Accepted: []string{"html"}}, f)
		assert.False(t, f.IsMobileView())
	})

	t.Run("mobile request falls back to original format", func(t *testing.T) {
		t.Parallel()
		f := serve(t, mobile.Middleware(), request("/", uaIPhone))

		assert.Equal(t, "mobile", f.Active)
		assert.Equal(t, "html", f.Original)
		assert.Equal(t, []string{"mobile", "html"}, f.Accepted)
		assert.True(t, f.Mobile)
		assert.Equal(t, "iphone", f.Device)
	})

	t.Run("original format is the fallback", func(t *testing.T) {
		t.Parallel()
		f := serve(t, mobile.Middleware(), request("/posts.json", uaAndroid))

		assert.Equal(t, "json", f.Original)
		assert.Equal(t, []string{"mobile", "json"}, f.Accepted)
	})

	t.Run("configured fallback", func(t *testing.T) {
		t.Parallel()
		f := serve(t, mobile.Middleware(mobile.WithFallback("txt")), request("/posts.json", uaAndroid))

		assert.Equal(t, []string{"mobile", "txt"}, f.Accepted)
		assert.Equal(t, "json", f.Original)
	})

	t.Run("fallback disabled", func(t *testing.T) {
		t.Parallel()
		f := serve(t, mobile.Middleware(mobile.WithoutFallback()), request("/", uaIPhone))

		assert.Equal(t, []string{"mobile"}, f.Accepted)
	})

	t.Run("fallback equal to active format is not repeated", func(t *testing.T) {
		t.Parallel()
		f := serve(t, mobile.Middleware(), request("/?format=mobile", uaIPhone))

		assert.Equal(t, []string{"mobile"}, f.Accepted)
		assert.Equal(t, "mobile", f.Original)
	})

	t.Run("ignore override keeps desktop format", func(t *testing.T) {
		t.Parallel()
		req := request("/", uaIPhone)
		req.AddCookie(&http.Cookie{Name: mobile.DefaultOverrideCookie, Value: string(mobile.IgnoreMobile)})

		f := serve(t, mobile.Middleware(), req)
		assert.Equal(t, []string{"html"}, f.Accepted)
		assert.False(t, f.Mobile)
	})

	t.Run("force override on desktop", func(t *testing.T) {
		t.Parallel()
		req := request("/", uaChrome)
		req.AddCookie(&http.Cookie{Name: mobile.DefaultOverrideCookie, Value: string(mobile.ForceMobile)})

		f := serve(t, mobile.Middleware(), req)
		assert.Equal(t, []string{"mobile", "html"}, f.Accepted)
		assert.True(t, f.Mobile)
		assert.Empty(t, f.Device)
	})

	t.Run("ignore wins over xhr and force sources", func(t *testing.T) {
		t.Parallel()
		mw := mobile.Middleware(mobile.WithOverrideSource(mobile.QueryOverride("view")))

		f := serve(t, mw, request("/?view=desktop", uaIPhone))
		assert.Equal(t, []string{"html"}, f.Accepted)

		f = serve(t, mw, request("/?view=mobile", uaChrome))
		assert.Equal(t, []string{"mobile", "html"}, f.Accepted)
	})

	t.Run("nil override source", func(t *testing.T) {
		t.Parallel()
		req := request("/", uaIPhone)
		req.AddCookie(&http.Cookie{Name: mobile.DefaultOverrideCookie, Value: string(mobile.IgnoreMobile)})

		f := serve(t, mobile.Middleware(mobile.WithOverrideSource(nil)), req)
		assert.True(t, f.Mobile)
	})

	t.Run("async requests are skipped", func(t *testing.T) {
		t.Parallel()
		headers := map[string]string{
			"X-Requested-With": "XMLHttpRequest",
			"HX-Request":       "true",
			"Datastar-Request": "true",
		}
		for name, value := range headers {
			req := request("/", uaIPhone)
			req.Header.Set(name, value)

			f := serve(t, mobile.Middleware(), req)
			assert.Equal(t, []string{"html"}, f.Accepted, name)

			req = request("/", uaIPhone)
			req.Header.Set(name, value)
			f = serve(t, mobile.Middleware(mobile.WithSkipXHR(false)), req)
			assert.Equal(t, []string{"mobile", "html"}, f.Accepted, name)
		}
	})

	t.Run("device formats", func(t *testing.T) {
		t.Parallel()
		mw := mobile.Middleware(mobile.WithDeviceFormats(true))

		f := serve(t, mw, request("/", uaIPhone))
		assert.Equal(t, "iphone", f.Active)
		assert.Equal(t, []string{"iphone", "html"}, f.Accepted)
		assert.False(t, f.IsMobileView())

		f = serve(t, mw, request("/", uaOpera))
		assert.Equal(t, []string{"mobile", "html"}, f.Accepted)
	})

	t.Run("custom classifier", func(t *testing.T) {
		t.Parallel()
		c := mobile.MustNewClassifier(mobile.WithUserAgents("kaios"))
		mw := mobile.Middleware(mobile.WithClassifier(c))

		f := serve(t, mw, request("/", uaIPhone))
		assert.False(t, f.Mobile)

		f = serve(t, mw, request("/", "Mozilla/5.0 (Mobile; KaiOS/2.5)"))
		assert.True(t, f.Mobile)
	})

	t.Run("state is set at most once", func(t *testing.T) {
		t.Parallel()
		outer := mobile.Middleware(mobile.WithFallback("txt"))
		inner := mobile.Middleware(mobile.WithoutFallback())
		chain := func(next http.Handler) http.Handler { return outer(inner(next)) }

		f := serve(t, chain, request("/", uaIPhone))
		assert.Equal(t, []string{"mobile", "txt"}, f.Accepted)
	})
}

func TestIsXHR(t *testing.T) {
	t.Parallel()

	req := request("/", "")
	assert.False(t, mobile.IsXHR(req))

	req.Header.Set("X-Requested-With", "xmlhttprequest")
	assert.True(t, mobile.IsXHR(req))

	req = request("/", "")
	req.Header.Set("HX-Request", "false")
	assert.False(t, mobile.IsXHR(req))
}
