package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	ctxutil "tfi/obras-sociales-api/internal/infrastructure/context"
)

// CorrelationID stores a correlation ID in the request context and echoes it in
// the response. The caller's X-Correlation-ID wins, then chi's request ID, then
// a fresh UUID.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(ctxutil.HeaderCorrelationID)
		if id == "" {
			id = chimw.GetReqID(r.Context())
		}
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(ctxutil.HeaderCorrelationID, id)
		next.ServeHTTP(w, r.WithContext(ctxutil.WithCorrelationID(r.Context(), id)))
	})
}
