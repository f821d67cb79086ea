// Package server runs the jobscan HTTP API.
//
// The server assembles the routes from package handlers, the health checker
// and the Prometheus endpoint, wraps them in the middleware chain and manages
// the listener lifecycle:
//
//	srv := server.New(cfg, server.Deps{
//	    Storage:  store,
//	    Recorder: rec,
//	    Checker:  checker,
//	    Metrics:  collector,
//	    Tracer:   tracer,
//	    Version:  health.NewVersionInfo(version, commit, buildTime),
//	})
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until ctx is cancelled, SIGINT or SIGTERM arrives, or Shutdown
// is called, then drains in-flight requests within ShutdownTimeout.
//
// # Routes
//
//	GET  /health          database connectivity (200 or 503)
//	POST /analyze-job     score a job posting
//	GET  /analyses        paginated audit listing
//	GET  /health/live     liveness probe
//	GET  /health/ready    readiness probe
//	GET  /version         build information
//	GET  /metrics         Prometheus exposition, when enabled
//
// Probe, version and metrics paths are configurable.
package server
