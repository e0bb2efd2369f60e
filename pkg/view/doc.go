// Package view renders templates picked by viewresolver for the current
// request.
//
// The lookup carries the accepted formats set by the mobile middleware, the
// locale set by the locale middleware and, for recognized devices, the device
// name as variant. A mobile visitor asking for home/index therefore gets
// home/index.mobile.tmpl when it exists and home/index.html.tmpl otherwise.
//
//	renderer, err := view.New(resolver, store, view.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	r.Get("/", renderer.Handler("index", "home", nil).ServeHTTP)
//
// Templates are executed with html/template. The partial function renders
// another template as a partial (_name), next to the caller unless the name
// contains a slash:
//
//	{{ partial "card" .Item }}
//	{{ partial "shared/footer" }}
//
// Template returns a Response that answers Datastar requests with an SSE
// element patch; Component adapts a template to templ.Component.
package view
