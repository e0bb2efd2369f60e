package mobile

import "slices"

// Config holds the mobile handling settings, usually parsed from the
// environment.
type Config struct {
	// Fallback is appended after the mobile format. The original format is
	// used when empty.
	Fallback        string `env:"MOBILE_FALLBACK"`
	DisableFallback bool   `env:"MOBILE_DISABLE_FALLBACK" envDefault:"false"`
	// SkipXHR leaves XHR, htmx and Datastar requests alone.
	SkipXHR bool `env:"MOBILE_SKIP_XHR" envDefault:"true"`
	// Devices adds devices as name:pattern pairs, e.g. "kindle:silk,palm:webos".
	Devices       map[string]string `env:"MOBILE_DEVICES"`
	DeviceFormats bool              `env:"MOBILE_DEVICE_FORMATS" envDefault:"false"`
	// OverrideCookie and OverrideParam name where visitor overrides are read.
	// Empty disables that source.
	OverrideCookie string `env:"MOBILE_OVERRIDE_COOKIE" envDefault:"view_override"`
	OverrideParam  string `env:"MOBILE_OVERRIDE_PARAM" envDefault:"view"`
}

// Options turns the configuration into middleware options.
func (c Config) Options(extra ...Option) ([]Option, error) {
	classifier, err := NewClassifier(WithDevices(c.Devices))
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithClassifier(classifier),
		WithSkipXHR(c.SkipXHR),
		WithDeviceFormats(c.DeviceFormats),
	}

	var sources []OverrideSource
	if c.OverrideParam != "" {
		sources = append(sources, QueryOverride(c.OverrideParam))
	}
	if c.OverrideCookie != "" {
		sources = append(sources, CookieOverride(c.OverrideCookie))
	}
	opts = append(opts, WithOverrideSource(FirstOverride(sources...)))

	switch {
	case c.DisableFallback:
		opts = append(opts, WithoutFallback())
	case c.Fallback != "":
		opts = append(opts, WithFallback(c.Fallback))
	}

	return append(opts, extra...), nil
}

// Chains returns the fallback table for the resolver. Explicit chains take
// precedence over everything else. Otherwise a disabled fallback produces
// mobile -> [mobile], a fallback f produces mobile -> [mobile, f], and with
// neither mobile falls back to html.
func Chains(fallback string, disabled bool, chains map[string][]string) map[string][]string {
	if len(chains) > 0 {
		out := make(map[string][]string, len(chains))
		for k, v := range chains {
			out[k] = slices.Clone(v)
		}
		return out
	}
	if disabled {
		return map[string][]string{FormatMobile: {FormatMobile}}
	}
	if fallback == "" || fallback == FormatMobile {
		fallback = FormatHTML
	}
	return map[string][]string{FormatMobile: {FormatMobile, fallback}}
}
