package logger

import (
	"log/slog"
	"strings"
)

// Error records err under "error". A nil error yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Template records a template virtual path under "template".
func Template(path string) slog.Attr {
	return slog.String("template", path)
}

// Formats records a format chain under "formats", e.g. "mobile,html".
func Formats(formats []string) slog.Attr {
	return slog.String("formats", strings.Join(formats, ","))
}

// Store records the template store kind under "store".
func Store(kind string) slog.Attr {
	return slog.String("store", kind)
}

// Component names the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
