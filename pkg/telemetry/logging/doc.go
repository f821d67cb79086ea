// Package logging builds the process-wide log/slog logger.
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(&cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
//	// Later, from a config reload
//	_ = logger.SetLevel("debug")
//
// Components derive their loggers with slog.Default().With("component", ...).
//
// # Context Fields
//
// Records logged with a context (InfoContext and friends) carry the request
// ID set by the HTTP middleware and the active trace ID:
//
//	ctx = logging.WithRequestID(ctx, id)
//	slog.InfoContext(ctx, "analysis recorded")  // includes request_id
//
// Posting text is never logged. Log its content hash or length instead.
package logging
