package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tfi/obras-sociales-api/internal/testutil"
)

// failingResponseWriter is a ResponseWriter that can simulate write failures
type failingResponseWriter struct {
	http.ResponseWriter
}

func (f *failingResponseWriter) Write(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		message        string
		errors         []string
		withLogger     bool
		expectedStatus int
		expectedBody   ErrorResponse
	}{
		{
			name:           "not found",
			statusCode:     http.StatusNotFound,
			message:        "Obra social no encontrada",
			errors:         []string{"Obra social con ID 99 no encontrada"},
			withLogger:     true,
			expectedStatus: http.StatusNotFound,
			expectedBody: ErrorResponse{
				Message: "Obra social no encontrada",
				Errors:  []string{"Obra social con ID 99 no encontrada"},
			},
		},
		{
			name:           "multiple errors",
			statusCode:     http.StatusBadRequest,
			message:        "Error de Validación",
			errors:         []string{"obra_social_id es requerido", "numero_afiliado es requerido"},
			withLogger:     false,
			expectedStatus: http.StatusBadRequest,
			expectedBody: ErrorResponse{
				Message: "Error de Validación",
				Errors:  []string{"obra_social_id es requerido", "numero_afiliado es requerido"},
			},
		},
		{
			name:           "nil errors become empty array",
			statusCode:     http.StatusInternalServerError,
			message:        "Error Interno",
			errors:         nil,
			withLogger:     true,
			expectedStatus: http.StatusInternalServerError,
			expectedBody: ErrorResponse{
				Message: "Error Interno",
				Errors:  []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			var logger *slog.Logger
			if tt.withLogger {
				logger = testutil.NewTestLogger()
			}

			WriteError(w, tt.statusCode, tt.message, tt.errors, logger)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status code %d, got %d", tt.expectedStatus, w.Code)
			}

			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}

			var raw map[string]json.RawMessage
			if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if string(raw["errors"]) == "null" {
				t.Error("expected errors to be encoded as an array, got null")
			}

			var response ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if response.Message != tt.expectedBody.Message {
				t.Errorf("expected message %q, got %q", tt.expectedBody.Message, response.Message)
			}

			if len(response.Errors) != len(tt.expectedBody.Errors) {
				t.Fatalf("expected %d errors, got %d", len(tt.expectedBody.Errors), len(response.Errors))
			}
			for i, expectedErr := range tt.expectedBody.Errors {
				if response.Errors[i] != expectedErr {
					t.Errorf("expected error[%d] %q, got %q", i, expectedErr, response.Errors[i])
				}
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusOK, []map[string]any{{"id": 1, "nombre": "OSDE"}}, nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected status code %d, got %d", http.StatusOK, w.Code)
	}
	if got := w.Body.String(); got != "[{\"id\":1,\"nombre\":\"OSDE\"}]\n" {
		t.Errorf("unexpected body %q", got)
	}
}

func TestWriteError_EncodingFailureDoesNotPanic(t *testing.T) {
	w := &failingResponseWriter{ResponseWriter: httptest.NewRecorder()}

	WriteError(w, http.StatusBadRequest, "Test", []string{"Error"}, testutil.NewNullLogger())
}
