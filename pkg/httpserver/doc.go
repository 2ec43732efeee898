// Package httpserver runs an http.Server for the lifetime of a context.
//
// Run listens on Config.Addr (or a listener from WithListener), serves the
// handler and, once the context is done, drains in-flight requests within
// Config.ShutdownTimeout before running shutdown hooks:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server", logger.Error(err))
//	}
//
// Config carries env tags, so it loads with config.Load. HealthHandler
// serves liveness and readiness probes.
package httpserver
