package mobile

import (
	"context"
	"log/slog"
)

// LoggerExtractor returns a ContextExtractor adding the active format.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if f, ok := FormatsFromContext(ctx); ok && f.Active != "" {
			return slog.String("format", f.Active), true
		}
		return slog.Attr{}, false
	}
}
