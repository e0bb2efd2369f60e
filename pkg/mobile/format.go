package mobile

import (
	"context"
	"net/http"
	"path"
	"regexp"
	"slices"
	"strings"
)

// Format tokens used by the middleware.
const (
	FormatMobile = "mobile"
	FormatHTML   = "html"
)

// FormatParam is the query parameter that selects a format explicitly.
const FormatParam = "format"

// Formats is the format state of one request.
type Formats struct {
	// Active is the format templates are looked up for.
	Active string
	// Original is the format detected before any mobile handling.
	Original string
	// Accepted lists the acceptable formats, Active first.
	Accepted []string
	// Mobile is set when the request was switched to a mobile format.
	Mobile bool
	// Device is the matched device name, if any.
	Device string
}

// IsMobileView reports whether the active format is the mobile one.
func (f Formats) IsMobileView() bool { return f.Active == FormatMobile }

type formatsContextKey struct{}

// WithFormats stores the request format state in the context.
func WithFormats(ctx context.Context, f Formats) context.Context {
	f.Accepted = slices.Clone(f.Accepted)
	return context.WithValue(ctx, formatsContextKey{}, f)
}

// FormatsFromContext returns the request format state.
func FormatsFromContext(ctx context.Context) (Formats, bool) {
	if ctx == nil {
		return Formats{}, false
	}
	f, ok := ctx.Value(formatsContextKey{}).(Formats)
	if !ok {
		return Formats{}, false
	}
	f.Accepted = slices.Clone(f.Accepted)
	return f, true
}

// AcceptedFormats returns the acceptable formats for the request in the
// context, defaulting to html when the middleware did not run.
func AcceptedFormats(ctx context.Context) []string {
	if f, ok := FormatsFromContext(ctx); ok && len(f.Accepted) > 0 {
		return f.Accepted
	}
	return []string{FormatHTML}
}

var formatToken = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)

// Path extensions that select a format.
var extensionFormats = map[string]string{
	".html":   "html",
	".htm":    "html",
	".json":   "json",
	".xml":    "xml",
	".txt":    "txt",
	".csv":    "csv",
	".rss":    "rss",
	".atom":   "atom",
	".js":     "js",
	".mobile": FormatMobile,
}

// Accept header media types that select a format.
var mediaFormats = map[string]string{
	"text/html":             "html",
	"application/xhtml+xml": "html",
	"application/json":      "json",
	"application/xml":       "xml",
	"text/xml":              "xml",
	"text/plain":            "txt",
	"text/csv":              "csv",
	"application/rss+xml":   "rss",
	"application/atom+xml":  "atom",
	"text/javascript":       "js",
	"text/vnd.mobile":       FormatMobile,
	"*/*":                   "html",
}

// DetectFormat returns the format a request asks for: the format query
// parameter, then a known path extension, then the first known Accept
// media type, and html otherwise.
func DetectFormat(r *http.Request) string {
	if p := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(FormatParam))); formatToken.MatchString(p) {
		return p
	}

	if f, ok := extensionFormats[strings.ToLower(path.Ext(r.URL.Path))]; ok {
		return f
	}

	for part := range strings.SplitSeq(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(part, ";")
		if f, ok := mediaFormats[strings.ToLower(strings.TrimSpace(mediaType))]; ok {
			return f
		}
	}

	return FormatHTML
}
