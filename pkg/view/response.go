package view

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// PatchOption configures how Datastar requests patch the rendered template
// into the page.
type PatchOption = datastar.PatchElementOption

// WithTarget sets the selector the rendered template patches.
func WithTarget(selector string) PatchOption {
	return datastar.WithSelector(selector)
}

// WithPatchMode sets how the rendered template is merged into the DOM.
func WithPatchMode(mode datastar.ElementPatchMode) PatchOption {
	return datastar.WithMode(mode)
}

type templateResponse struct {
	renderer *Renderer
	name     string
	prefix   string
	data     any
	patch    []PatchOption
}

// Template returns a Response rendering prefix/name. Datastar requests get
// the output as an element patch over SSE, others as a regular body.
func (rn *Renderer) Template(name, prefix string, data any, opts ...PatchOption) Response {
	return templateResponse{renderer: rn, name: name, prefix: prefix, data: data, patch: opts}
}

func (t templateResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return t.renderer.Render(w, r, t.name, t.prefix, t.data)
	}

	var buf bytes.Buffer
	if _, err := t.renderer.RenderTo(r.Context(), &buf, t.name, t.prefix, t.data); err != nil {
		return err
	}
	sse := datastar.NewSSE(w, r)
	return sse.PatchElementTempl(rendered(buf.Bytes()), t.patch...)
}

// Component adapts prefix/name to a templ component, so resolved templates
// can be embedded in templ layouts. Lookup uses the format state and locale
// of the context the component is rendered with.
func (rn *Renderer) Component(name, prefix string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := rn.RenderTo(ctx, w, name, prefix, data)
		return err
	})
}

func rendered(b []byte) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

// Datastar request markers.
const (
	DataStarAcceptHeader  = "text/event-stream"
	DataStarQueryParam    = "datastar"
	DataStarRequestHeader = "Datastar-Request"
)

// IsDataStar reports whether r was sent by Datastar and expects an SSE
// response.
func IsDataStar(r *http.Request) bool {
	if r.Header.Get(DataStarRequestHeader) == "true" {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), DataStarAcceptHeader) {
		return true
	}
	if r.URL.Query().Has(DataStarQueryParam) {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/x-datastar")
}
