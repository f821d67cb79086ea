// Package middleware provides the HTTP middleware chain for the jobscan API.
//
// Each middleware has the signature func(http.Handler) http.Handler, either
// directly or via a constructor taking its configuration. Chain composes
// them with the first argument outermost:
//
//	handler := middleware.Chain(mux,
//	    middleware.Recovery,
//	    middleware.RequestID,
//	    middleware.Tracing(tracer),
//	    middleware.Logging,
//	    middleware.Metrics(collector),
//	    middleware.CORS(&cfg.Server.CORS),
//	    middleware.RateLimit(&cfg.Server.RateLimit),
//	    middleware.Timeout(cfg.Server.RequestTimeout),
//	)
//
// Recovery must stay outermost. Timeout re-raises handler panics on the
// serving goroutine so Recovery still sees them.
//
// Error responses use the {"error": "..."} body from package api.
package middleware
