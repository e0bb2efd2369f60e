// Package requestid tags every request with a correlation id.
//
// Middleware reuses a well-formed X-Request-ID sent by the client or
// generates a time ordered UUID, stores it in the request context and echoes
// it in the response header. LoggerExtractor plugs the id into
// logger.WithContextExtractors so every record logged with the request
// context carries request_id.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware())
package requestid
