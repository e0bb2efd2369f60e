// Package logger builds log/slog loggers for the view server.
//
// New applies functional options over an info level JSON handler writing to
// stdout. WithEnvironment picks per-environment defaults, and Config reads
// APP_ENV, SERVICE_NAME, LOG_LEVEL and LOG_FORMAT:
//
//	var cfg logger.Config
//	_ = config.Load(&cfg)
//	opts, err := cfg.Options()
//	if err != nil {
//		return err
//	}
//	log := logger.New(append(opts,
//		logger.WithContextExtractors(
//			requestid.LoggerExtractor(),
//			locale.LoggerExtractor(),
//			mobile.LoggerExtractor(),
//		),
//	)...)
//
// Context extractors run on every record through LogHandlerDecorator, so a
// record logged with InfoContext(r.Context(), ...) carries the request id,
// locale and active format of that request.
package logger
