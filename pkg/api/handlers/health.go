package handlers

import (
	"net/http"

	"mercator-hq/jobscan/pkg/api"
	"mercator-hq/jobscan/pkg/telemetry/health"
)

// Database states reported by GET /health.
const (
	DBOK          = "ok"
	DBUnavailable = "unavailable"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

// HealthHandler reports storage connectivity.
type HealthHandler struct {
	checker *health.Checker
}

// NewHealthHandler creates a handler that runs the checker's database check.
func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// ServeHTTP answers 200 when the database check passes and 503 otherwise.
// The status field stays "ok" because the process itself is up.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	result := h.checker.Check(r.Context(), health.CheckDatabase)
	if !result.Healthy() {
		logger().WarnContext(r.Context(), "database health check failed", "error", result.Message)
		api.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "ok", DB: DBUnavailable})
		return
	}

	api.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", DB: DBOK})
}
