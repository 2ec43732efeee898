// Package logger builds *slog.Logger values for the form engine and the demo
// server, and keeps attribute naming consistent across packages.
//
// New creates a logger from functional options: output format (text or
// json), minimum level, static attributes and context extractors. Extractors
// run on every record and inject values stored in the context, such as the id
// of the form a request is working on.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("formdemo"),
//	    logger.WithContextValue("form_id", formIDKey{}),
//	)
//	log.DebugContext(ctx, "batch superseded",
//	    logger.Component("form.coordinator"),
//	    logger.Batch(gen),
//	    logger.Waiters(n),
//	)
//
// Helper constructors return an empty slog.Attr for nil input, so
//
//	log.Warn("remote validation failed", logger.Error(err))
//
// needs no nil check. Discard returns a logger that drops everything; the form
// engine uses it when no logger is injected.
package logger
