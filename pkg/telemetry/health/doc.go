// Package health provides liveness, readiness and version endpoints.
//
// Components register named checks with a Checker. Readiness runs every
// check concurrently, each under its own timeout, and reports 503 when any
// fails:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck(health.CheckDatabase, store.Ping)
//
//	mux.Handle("GET /health/live", checker.LivenessHandler())
//	mux.Handle("GET /health/ready", checker.ReadinessHandler())
//	mux.Handle("GET /version", health.VersionHandler(info))
//
// Example readiness response:
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "database": {"status": "unhealthy", "message": "health check timeout", "duration_ms": 2000}
//	    },
//	    "timestamp": "2025-11-20T10:30:00Z"
//	}
package health
