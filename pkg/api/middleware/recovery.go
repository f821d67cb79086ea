package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/jobscan/pkg/api"
)

// Recovery turns handler panics into a 500 response. The panic value and
// stack are logged; neither reaches the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				api.WriteError(w, http.StatusInternalServerError, api.MsgInternalError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
