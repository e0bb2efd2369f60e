package view

import (
	"html/template"
	"log/slog"
	"maps"

	"github.com/dmitrymomot/mobileview/pkg/logger"
)

// DefaultHandlers are the template file extensions looked up.
var DefaultHandlers = []string{"tmpl", "html"}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHandlers sets the template file extensions, most preferred first.
func WithHandlers(handlers ...string) Option {
	return func(r *Renderer) {
		if len(handlers) > 0 {
			r.handlers = handlers
		}
	}
}

// WithFuncs adds functions available to every template.
func WithFuncs(funcs template.FuncMap) Option {
	return func(r *Renderer) {
		maps.Copy(r.funcs, funcs)
	}
}

// WithContentType maps a format to the Content-Type it is served with.
func WithContentType(format, contentType string) Option {
	return func(r *Renderer) {
		r.contentTypes[format] = contentType
	}
}

// WithDeviceVariants looks up device variants (show.html+iphone.tmpl) for
// requests the mobile middleware matched to a device. Enabled by default.
func WithDeviceVariants(enabled bool) Option {
	return func(r *Renderer) { r.deviceVariants = enabled }
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

var defaultContentTypes = map[string]string{
	"html": "text/html; charset=utf-8",
	"json": "application/json",
	"xml":  "application/xml; charset=utf-8",
	"txt":  "text/plain; charset=utf-8",
	"csv":  "text/csv; charset=utf-8",
	"rss":  "application/rss+xml; charset=utf-8",
	"atom": "application/atom+xml; charset=utf-8",
	"js":   "text/javascript; charset=utf-8",
}
