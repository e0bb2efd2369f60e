package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"path"
	"strings"

	"github.com/dmitrymomot/mobileview/pkg/locale"
	"github.com/dmitrymomot/mobileview/pkg/logger"
	"github.com/dmitrymomot/mobileview/pkg/mobile"
	"github.com/dmitrymomot/mobileview/pkg/viewresolver"
)

// maxPartialDepth bounds partial calls nested inside partials.
const maxPartialDepth = 16

// Finder resolves a lookup to the best matching template.
type Finder interface {
	Find(ctx context.Context, l viewresolver.Lookup) (viewresolver.Artifact, error)
}

// Renderer looks templates up for the request's formats and locale and
// executes them with html/template.
type Renderer struct {
	finder         Finder
	opener         viewresolver.Opener
	handlers       []string
	funcs          template.FuncMap
	contentTypes   map[string]string
	deviceVariants bool
	logger         *slog.Logger
}

// New creates a renderer resolving templates with finder and reading them
// with opener.
func New(finder Finder, opener viewresolver.Opener, opts ...Option) (*Renderer, error) {
	if finder == nil {
		return nil, ErrNilResolver
	}
	if opener == nil {
		return nil, ErrNilOpener
	}

	r := &Renderer{
		finder:         finder,
		opener:         opener,
		handlers:       DefaultHandlers,
		funcs:          template.FuncMap{},
		contentTypes:   maps.Clone(defaultContentTypes),
		deviceVariants: true,
		logger:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Lookup builds the lookup for a template in the context of r.
func (rn *Renderer) Lookup(r *http.Request, name, prefix string, partial bool) viewresolver.Lookup {
	return rn.LookupContext(r.Context(), name, prefix, partial)
}

// LookupContext builds a lookup from the format state and locale stored in
// ctx by the mobile and locale middlewares.
func (rn *Renderer) LookupContext(ctx context.Context, name, prefix string, partial bool) viewresolver.Lookup {
	details := viewresolver.Details{
		viewresolver.DetailFormats:  mobile.AcceptedFormats(ctx),
		viewresolver.DetailHandlers: append([]string(nil), rn.handlers...),
	}
	if l := locale.FromContext(ctx); l != "" {
		details[viewresolver.DetailLocale] = []string{l}
	}
	if f, ok := mobile.FormatsFromContext(ctx); ok && rn.deviceVariants && f.Device != "" {
		details[viewresolver.DetailVariants] = []string{f.Device}
	}
	return viewresolver.Lookup{Name: name, Prefix: prefix, Partial: partial, Details: details}
}

// Render resolves prefix/name for the request and writes the result with
// the content type of the matched format.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, name, prefix string, data any) error {
	var buf bytes.Buffer
	a, err := rn.execute(r.Context(), &buf, name, prefix, false, data, 0)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", rn.contentType(a.Format))
	_, err = buf.WriteTo(w)
	return err
}

// RenderTo resolves prefix/name within ctx and writes the output to w.
// It returns the artifact that was rendered.
func (rn *Renderer) RenderTo(ctx context.Context, w io.Writer, name, prefix string, data any) (viewresolver.Artifact, error) {
	return rn.execute(ctx, w, name, prefix, false, data, 0)
}

func (rn *Renderer) execute(ctx context.Context, w io.Writer, name, prefix string, partial bool, data any, depth int) (viewresolver.Artifact, error) {
	if depth > maxPartialDepth {
		return viewresolver.Artifact{}, fmt.Errorf("%w: %s", ErrPartialDepth, name)
	}

	lookup := rn.LookupContext(ctx, name, prefix, partial)
	a, err := rn.finder.Find(ctx, lookup)
	if err != nil {
		return viewresolver.Artifact{}, err
	}

	tmpl, err := rn.parse(ctx, a, depth)
	if err != nil {
		return a, err
	}

	if err := tmpl.Execute(w, data); err != nil {
		return a, fmt.Errorf("%w: %s: %w", ErrRenderFailed, a.Identifier, err)
	}

	rn.logger.DebugContext(ctx, "template rendered",
		slog.String("template", a.VirtualPath),
		slog.String("identifier", a.Identifier),
		slog.String("format", a.Format),
	)
	return a, nil
}

func (rn *Renderer) parse(ctx context.Context, a viewresolver.Artifact, depth int) (*template.Template, error) {
	rc, err := rn.opener.Open(ctx, a)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	src, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", viewresolver.ErrOpenFailed, a.Identifier, err)
	}

	tmpl, err := template.New(a.VirtualPath).
		Funcs(rn.funcs).
		Funcs(template.FuncMap{"partial": rn.partialFunc(ctx, a.Prefix, depth)}).
		Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseFailed, a.Identifier, err)
	}
	return tmpl, nil
}

// partialFunc renders another template as a partial. A name without a
// slash is looked up next to the calling template.
func (rn *Renderer) partialFunc(ctx context.Context, prefix string, depth int) func(name string, data ...any) (template.HTML, error) {
	return func(name string, data ...any) (template.HTML, error) {
		p := prefix
		if strings.Contains(name, "/") {
			p, name = path.Split(name)
			p = strings.Trim(p, "/")
		}

		var arg any
		if len(data) > 0 {
			arg = data[0]
		}

		var buf bytes.Buffer
		if _, err := rn.execute(ctx, &buf, name, p, true, arg, depth+1); err != nil {
			return "", err
		}
		return template.HTML(buf.String()), nil
	}
}

func (rn *Renderer) contentType(format string) string {
	if ct, ok := rn.contentTypes[format]; ok {
		return ct
	}
	return rn.contentTypes["html"]
}

// Handler serves prefix/name. data builds the template data per request and
// may be nil. A missing template answers 404, any other failure 500.
func (rn *Renderer) Handler(name, prefix string, data func(r *http.Request) any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var d any
		if data != nil {
			d = data(r)
		}
		if err := rn.Template(name, prefix, d).Render(w, r); err != nil {
			rn.Error(w, r, err)
		}
	})
}

// Error answers a failed render: 404 when no template matched, 500 otherwise.
func (rn *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, viewresolver.ErrTemplateNotFound) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	rn.logger.ErrorContext(r.Context(), "failed to render template", slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
