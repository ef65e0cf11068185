package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/socins/socins/internal/handler/dto"
)

// writeErrorBody writes the standard error envelope from middleware, where
// the handler-level helpers are out of reach.
func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      r.URL.Path,
		TraceID:   GetRequestID(r.Context()),
	})
}
