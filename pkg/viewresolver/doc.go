// Package viewresolver resolves template lookups to device-specific template
// variants with configurable per-format fallback chains.
//
// A lookup names a template (prefix, name, partial flag) and carries the
// candidate values of every lookup dimension: formats, locale, handlers and
// variants. The Resolver takes the first requested format and, when the
// fallback table has a chain for it, searches with that chain instead:
//
//	iphone -> [iphone, mobile, html]
//	mobile -> [mobile, html]
//
// Formats without a chain are searched as requested, so formats nobody
// configured behave exactly as they would without the resolver.
//
// # Architecture
//
// The Resolver owns the fallback table and delegates the search itself to a
// Store. Stores build one glob query from a pattern (DefaultPattern),
// expand its {a,b} groups in candidate order and return every match:
//
//	Lookup ──▶ Resolver (fallback expansion) ──▶ Store.Search ──▶ []Artifact
//	                                              │
//	                    BuildQuery + ExpandBraces ┘
//
// Three stores are provided:
//   - FileSystemStore: directories on the local filesystem
//   - FSStore: any fs.FS, e.g. templates embedded with embed.FS
//   - S3Store: objects in an S3 or S3-compatible bucket
//
// # Usage
//
//	store, err := viewresolver.NewFileSystemStore([]string{"app/views"})
//	if err != nil {
//		return err
//	}
//
//	resolver, err := viewresolver.New(store,
//		viewresolver.WithFallbackChains(map[string][]string{
//			"iphone": {"iphone", "mobile", "html"},
//			"mobile": {"mobile", "html"},
//		}),
//	)
//	if err != nil {
//		return err
//	}
//
//	tmpl, err := resolver.Find(ctx, viewresolver.Lookup{
//		Name:   "show",
//		Prefix: "users",
//		Details: viewresolver.Details{
//			viewresolver.DetailFormats:  {"iphone"},
//			viewresolver.DetailHandlers: {"tmpl"},
//		},
//	})
//
// # Concurrency
//
// Resolve and Find are safe for concurrent use. ReplaceFallbackChains swaps
// the whole table atomically and never merges it with the previous one.
//
// # Errors
//
// An empty Resolve result is a miss, not an error; Find reports it as
// ErrTemplateNotFound. Invalid chains fail with ErrInvalidFallbackChain.
// Store I/O failures are wrapped with ErrSearchFailed or ErrOpenFailed and
// are never retried.
package viewresolver
