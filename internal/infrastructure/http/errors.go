package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse represents a standardized error response format.
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// WriteJSON encodes payload as the JSON body of a response with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, payload any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// The status line is already out; nothing left to send but the log.
		if log != nil {
			log.Error("failed to encode response", "error", err, "status", statusCode)
		}
	}
}

// WriteError writes a standardized JSON error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, message string, errors []string, log *slog.Logger) {
	if errors == nil {
		errors = []string{}
	}
	WriteJSON(w, statusCode, ErrorResponse{
		Message: message,
		Errors:  errors,
	}, log)
}
