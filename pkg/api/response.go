// Package api holds the JSON response conventions shared by the HTTP
// handlers and middleware.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Client-facing error messages.
const (
	MsgInternalError    = "Internal server error"
	MsgTimeout          = "Request timed out"
	MsgTooManyRequests  = "Too many requests"
	MsgMethodNotAllowed = "Method not allowed"
	MsgNotFound         = "Not found"
	MsgBodyTooLarge     = "Request body too large"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes body as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("failed to encode response", "error", err)
	}
}

// WriteError writes {"error": message} with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}
