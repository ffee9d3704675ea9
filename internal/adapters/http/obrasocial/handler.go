package obrasocial

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	appobrasocial "tfi/obras-sociales-api/internal/application/obrasocial"
	"tfi/obras-sociales-api/internal/core/obrasocial"
	httperrors "tfi/obras-sociales-api/internal/infrastructure/http"
)

// Handler bridges HTTP traffic with the obra social application service.
type Handler struct {
	service *appobrasocial.Service
	log     *slog.Logger
	version string
}

// NewHandler creates a new obra social HTTP handler.
func NewHandler(service *appobrasocial.Service, log *slog.Logger, version string) *Handler {
	return &Handler{
		service: service,
		log:     log,
		version: version,
	}
}

// IndexResponse describes the service and its endpoints.
type IndexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Index handles GET / requests.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	httperrors.WriteJSON(w, http.StatusOK, IndexResponse{
		Message: "API de Obras Sociales",
		Version: h.version,
		Endpoints: map[string]string{
			"listar_obras_sociales": "/api/obras-sociales",
			"verificar_afiliacion":  "/api/obras-sociales/verificar?obra_social_id={id}&numero_afiliado={numero}",
		},
	}, h.log)
}

// ListObrasSociales handles GET /api/obras-sociales requests.
func (h *Handler) ListObrasSociales(w http.ResponseWriter, r *http.Request) {
	obras, err := h.service.ListObrasSociales(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, obras, h.log)
}

// VerificarAfiliacion handles GET /api/obras-sociales/verificar?obra_social_id={id}&numero_afiliado={numero} requests.
func (h *Handler) VerificarAfiliacion(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var validationErrors []string

	rawID := strings.TrimSpace(query.Get("obra_social_id"))
	var obraSocialID int64
	if rawID == "" {
		validationErrors = append(validationErrors, "obra_social_id es requerido")
	} else {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			validationErrors = append(validationErrors, "obra_social_id debe ser un número entero")
		}
		obraSocialID = id
	}

	// The affiliate number is echoed verbatim, so it is not trimmed.
	numeroAfiliado := query.Get("numero_afiliado")
	if strings.TrimSpace(numeroAfiliado) == "" {
		validationErrors = append(validationErrors, "numero_afiliado es requerido")
	}

	if len(validationErrors) > 0 {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", validationErrors, h.log)
		return
	}

	result, err := h.service.VerificarAfiliacion(r.Context(), obraSocialID, numeroAfiliado)
	if err != nil {
		h.handleError(w, err)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, result, h.log)
}

// handleError maps domain errors to HTTP status codes.
func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var notFound *obrasocial.NotFoundError
	switch {
	case errors.As(err, &notFound):
		httperrors.WriteError(w, http.StatusNotFound, "Obra social no encontrada", []string{notFound.Error()}, h.log)
	case errors.Is(err, obrasocial.ErrObraSocialNoEncontrada):
		httperrors.WriteError(w, http.StatusNotFound, "Obra social no encontrada", []string{err.Error()}, h.log)
	case errors.Is(err, obrasocial.ErrValidacion):
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{err.Error()}, h.log)
	default:
		httperrors.WriteError(w, http.StatusInternalServerError, "Error Interno del Servidor", []string{err.Error()}, h.log)
	}
}
