package locale

import (
	"context"
	"log/slog"
)

// Default is the locale used when nothing was negotiated.
const Default = "en"

type localeContextKey struct{}

// WithLocale stores the locale in the context.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// FromContext returns the negotiated locale, or an empty string when the
// middleware did not run.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	locale, _ := ctx.Value(localeContextKey{}).(string)
	return locale
}

// LoggerExtractor returns a ContextExtractor adding the locale.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if l := FromContext(ctx); l != "" {
			return slog.String("locale", l), true
		}
		return slog.Attr{}, false
	}
}
