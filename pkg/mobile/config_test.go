package mobile_test

import (
	"net/http"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mobileview/pkg/mobile"
)

func TestChains(t *testing.T) {
	t.Parallel()

	t.Run("explicit chains win", func(t *testing.T) {
		t.Parallel()
		chains := map[string][]string{"iphone": {"iphone", "mobile", "html"}}
		got := mobile.Chains("txt", true, chains)

		assert.Equal(t, chains, got)
		got["iphone"][0] = "changed"
		assert.Equal(t, "iphone", chains["iphone"][0])
	})

	t.Run("single fallback", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, map[string][]string{"mobile": {"mobile", "txt"}}, mobile.Chains("txt", false, nil))
	})

	t.Run("default", func(t *testing.T) {
		t.Parallel()
		expected := map[string][]string{"mobile": {"mobile", "html"}}
		assert.Equal(t, expected, mobile.Chains("", false, nil))
		assert.Equal(t, expected, mobile.Chains("mobile", false, map[string][]string{}))
	})

	t.Run("disabled fallback", func(t *testing.T) {
		t.Parallel()
		expected := map[string][]string{"mobile": {"mobile"}}
		assert.Equal(t, expected, mobile.Chains("", true, nil))
		assert.Equal(t, expected, mobile.Chains("txt", true, nil))
	})
}

func TestConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		var cfg mobile.Config
		require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}))

		assert.True(t, cfg.SkipXHR)
		assert.False(t, cfg.DisableFallback)
		assert.Equal(t, "view_override", cfg.OverrideCookie)
		assert.Equal(t, "view", cfg.OverrideParam)
		assert.Empty(t, cfg.Devices)
	})

	t.Run("from environment", func(t *testing.T) {
		t.Parallel()
		var cfg mobile.Config
		require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{
			"MOBILE_FALLBACK":       "txt",
			"MOBILE_SKIP_XHR":       "false",
			"MOBILE_DEVICES":        "kindle:silk,webos:webos",
			"MOBILE_DEVICE_FORMATS": "true",
		}}))

		assert.Equal(t, "txt", cfg.Fallback)
		assert.False(t, cfg.SkipXHR)
		assert.True(t, cfg.DeviceFormats)
		assert.Equal(t, map[string]string{"kindle": "silk", "webos": "webos"}, cfg.Devices)
	})

	t.Run("options drive middleware", func(t *testing.T) {
		t.Parallel()
		cfg := mobile.Config{
			Fallback:       "txt",
			SkipXHR:        true,
			Devices:        map[string]string{"kindle": "silk"},
			DeviceFormats:  true,
			OverrideCookie: "pref",
			OverrideParam:  "view",
		}
		opts, err := cfg.Options()
		require.NoError(t, err)

		mw := mobile.Middleware(opts...)

		f := serve(t, mw, request("/", "Mozilla/5.0 (Linux; U; en-us; KFTT) Silk/3.4 Mobile Safari/535.19"))
		assert.Equal(t, []string{"kindle", "txt"}, f.Accepted)

		f = serve(t, mw, request("/?view=desktop", uaIPhone))
		assert.Equal(t, []string{"html"}, f.Accepted)

		req := request("/", uaChrome)
		req.AddCookie(&http.Cookie{Name: "pref", Value: "force_mobile"})
		f = serve(t, mw, req)
		assert.Equal(t, []string{"mobile", "txt"}, f.Accepted)
	})

	t.Run("disabled fallback", func(t *testing.T) {
		t.Parallel()
		opts, err := mobile.Config{Fallback: "txt", DisableFallback: true}.Options()
		require.NoError(t, err)

		f := serve(t, mobile.Middleware(opts...), request("/", uaIPhone))
		assert.Equal(t, []string{"mobile"}, f.Accepted)
	})

	t.Run("invalid device", func(t *testing.T) {
		t.Parallel()
		_, err := mobile.Config{Devices: map[string]string{"bad": "("}}.Options()
		require.ErrorIs(t, err, mobile.ErrInvalidDevicePattern)
	})
}
