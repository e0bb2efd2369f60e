// Package httpserver runs the view server's http.Server with timeouts,
// graceful shutdown and health probes.
//
// Run blocks until its context ends, then drains in-flight requests within
// the shutdown timeout. Signal handling is left to the caller:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// HealthCheckHandler answers liveness probes without checks and readiness
// probes with them, e.g. a Redis ping.
package httpserver
