// Package mobile detects mobile user agents and switches the request format
// so device-specific templates are looked up first.
//
// The Classifier matches the User-Agent header case-insensitively against a
// list of known mobile fragments (DefaultUserAgents) and names known
// devices (iphone, ipad, android, plus any registered with WithDevice).
//
// Middleware stores the request format state (Formats) in the context:
//
//	desktop request:  Active=html    Accepted=[html]
//	mobile request:   Active=mobile  Accepted=[mobile, html]
//
// The second entry is the fallback format: the configured one
// (WithFallback), the originally requested one by default, or none with
// WithoutFallback. Visitors can opt out or in through an Override, read by
// default from the view_override cookie.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Use(mobile.Middleware(
//		mobile.WithFallback("html"),
//		mobile.WithOverrideSource(mobile.CookieOverride("view_override")),
//	))
//
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//		f, _ := mobile.FormatsFromContext(r.Context())
//		if f.IsMobileView() {
//			// ...
//		}
//	})
//
// Chains builds the matching fallback table for viewresolver.
package mobile
