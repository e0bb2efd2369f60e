package mobile

import (
	"log/slog"
	"net/http"
	"strings"
)

// Middleware sets the request format state before any template lookup.
//
// A mobile request (or one forced mobile by an override) gets the mobile
// format as active format, followed by the fallback format unless fallback
// is disabled. Requests with the ignore_mobile override, XHR requests and
// desktop requests keep the detected format. The state is set at most once:
// a request that already carries it passes through untouched.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultMiddlewareConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FormatsFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			f := cfg.resolve(r)
			if f.Mobile {
				cfg.logger.DebugContext(r.Context(), "mobile request",
					slog.String("format", f.Active),
					slog.String("original_format", f.Original),
					slog.String("device", f.Device),
				)
			}
			next.ServeHTTP(w, r.WithContext(WithFormats(r.Context(), f)))
		})
	}
}

func (cfg *middlewareConfig) resolve(r *http.Request) Formats {
	original := DetectFormat(r)
	f := Formats{
		Active:   original,
		Original: original,
		Accepted: []string{original},
	}

	ov := NoOverride
	if cfg.override != nil {
		ov = cfg.override(r)
	}
	if ov == IgnoreMobile {
		return f
	}
	if cfg.skipXHR && IsXHR(r) {
		return f
	}

	ua := r.UserAgent()
	if ov != ForceMobile && !cfg.classifier.IsMobile(ua) {
		return f
	}

	f.Mobile = true
	f.Device = cfg.classifier.Device(ua)
	f.Active = FormatMobile
	if cfg.deviceFormats && f.Device != "" {
		f.Active = f.Device
	}
	f.Accepted = []string{f.Active}

	if !cfg.disableFallback {
		fallback := cfg.fallback
		if fallback == "" {
			fallback = original
		}
		if fallback != f.Active {
			f.Accepted = append(f.Accepted, fallback)
		}
	}
	return f
}

// IsXHR reports whether the request is an asynchronous sub-request:
// XMLHttpRequest, htmx or Datastar.
func IsXHR(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") ||
		r.Header.Get("HX-Request") == "true" ||
		r.Header.Get("Datastar-Request") == "true"
}
