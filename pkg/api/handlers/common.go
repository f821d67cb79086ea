package handlers

import (
	"log/slog"
	"net/http"

	"mercator-hq/jobscan/pkg/api"
)

// logger returns the component logger from the current default.
func logger() *slog.Logger {
	return slog.Default().With("component", "api.handlers")
}

// allowMethod writes 405 and returns false unless r uses one of methods.
// GET also admits HEAD.
func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m || (m == http.MethodGet && r.Method == http.MethodHead) {
			return true
		}
	}

	allow := ""
	for i, m := range methods {
		if i > 0 {
			allow += ", "
		}
		allow += m
	}
	w.Header().Set("Allow", allow)
	api.WriteError(w, http.StatusMethodNotAllowed, api.MsgMethodNotAllowed)
	return false
}

// NotFound answers unknown paths with a JSON 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	api.WriteError(w, http.StatusNotFound, api.MsgNotFound)
}
