// Package locale negotiates the request locale with golang.org/x/text/language
// and keeps it in the request context, where template lookups pick it up as
// the locale dimension.
//
//	r.Use(locale.Middleware("en", "de", "pt-BR"))
//
//	lang := locale.FromContext(r.Context()) // "de" for "Accept-Language: de-CH"
package locale
