package middleware

import (
	"log/slog"
	"net/http"
	"time"

	ctxutil "tfi/obras-sociales-api/internal/infrastructure/context"
	"tfi/obras-sociales-api/internal/infrastructure/security"
)

// RequestLogger returns a middleware that logs HTTP requests and responses.
// Affiliate numbers in the query string are masked. It expects CorrelationID
// to run first so the log line carries the correlation ID.
// Log levels are determined by status code:
//   - Info: 2xx, 3xx
//   - Warn: 4xx
//   - Error: 5xx
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)

			next.ServeHTTP(rw, r)

			status := rw.status()
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(time.Since(start).Nanoseconds()) / 1e6,
				"bytes", rw.bytesWritten,
			}
			if query := security.SanitizeQuery(r.URL.Query()); query != "" {
				attrs = append(attrs, "query", query)
			}
			if id := ctxutil.GetCorrelationID(r.Context()); id != "" {
				attrs = append(attrs, "correlation_id", id)
			}
			if userAgent := r.Header.Get("User-Agent"); userAgent != "" {
				attrs = append(attrs, "user_agent", userAgent)
			}

			switch {
			case status >= 500:
				log.Error("HTTP request", attrs...)
			case status >= 400:
				log.Warn("HTTP request", attrs...)
			default:
				log.Info("HTTP request", attrs...)
			}
		})
	}
}
