package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/mobileview/pkg/httpserver"
	"github.com/dmitrymomot/mobileview/pkg/locale"
	"github.com/dmitrymomot/mobileview/pkg/mobile"
	"github.com/dmitrymomot/mobileview/pkg/requestid"
	"github.com/dmitrymomot/mobileview/pkg/view"
)

const (
	homePrefix = "home"
	homeName   = "index"
)

type routerDeps struct {
	renderer       *view.Renderer
	mobile         []mobile.Option
	locales        []string
	overrideCookie string
	checks         []httpserver.Check
	logger         *slog.Logger
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", httpserver.HealthCheckHandler(d.logger, d.checks...))

	r.Group(func(r chi.Router) {
		r.Use(
			requestid.Middleware(),
			locale.Middleware(d.locales...),
			mobile.Middleware(d.mobile...),
		)

		r.Get("/", d.renderer.Handler(homeName, homePrefix, pageData).ServeHTTP)
		r.Get("/view/{mode}", switchView(d.overrideCookie))
		r.Get("/{prefix}/{name}", func(w http.ResponseWriter, r *http.Request) {
			name, prefix := chi.URLParam(r, "name"), chi.URLParam(r, "prefix")
			if err := d.renderer.Template(name, prefix, pageData(r)).Render(w, r); err != nil {
				d.renderer.Error(w, r, err)
			}
		})
	})

	return r
}

// switchView remembers the visitor's choice and sends them back.
func switchView(cookie string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := mobile.ParseOverride(chi.URLParam(r, "mode"))
		mobile.SetOverrideCookie(w, cookie, mode)

		target := r.URL.Query().Get("return")
		if target == "" || target[0] != '/' || (len(target) > 1 && (target[1] == '/' || target[1] == '\\')) {
			target = "/"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

func pageData(r *http.Request) any {
	formats, _ := mobile.FormatsFromContext(r.Context())
	return map[string]any{
		"Path":      r.URL.Path,
		"Locale":    locale.FromContext(r.Context()),
		"Format":    formats.Active,
		"Mobile":    formats.IsMobileView(),
		"Device":    formats.Device,
		"RequestID": requestid.FromContext(r.Context()),
	}
}
