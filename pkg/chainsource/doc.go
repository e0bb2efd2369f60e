// Package chainsource loads fallback chains from outside the process and
// keeps a resolver's table in sync with them.
//
// Sources:
//
//   - File reads a YAML (or JSON) document mapping formats to chains.
//   - Redis reads a hash whose fields are formats and values are comma
//     separated chains; PublishRedis writes one.
//   - Static serves a fixed map.
//
// Watch polls a source and calls ReplaceFallbackChains on the target only
// when the loaded table changed:
//
//	go func() {
//		_ = chainsource.Watch(ctx, chainsource.Redis(client, ""), resolver,
//			chainsource.WithInterval(10*time.Second),
//			chainsource.WithLogger(log),
//		)
//	}()
//
// A source that fails, returns nothing, or returns a table the resolver
// rejects never clears the table in use.
package chainsource
