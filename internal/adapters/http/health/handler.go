package health

import (
	"net/http"

	apphealth "tfi/obras-sociales-api/internal/application/health"
	httperrors "tfi/obras-sociales-api/internal/infrastructure/http"
)

// Handler bridges HTTP traffic with the health application service.
type Handler struct {
	service *apphealth.Service
}

func NewHandler(service *apphealth.Service) *Handler {
	return &Handler{service: service}
}

// Status answers 200 when every dependency is up and 503 otherwise.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.service.Status(r.Context())

	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	httperrors.WriteJSON(w, code, status, nil)
}
