package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

// DecodeJSON checks the recorded status code and decodes the body into v.
func DecodeJSON(t testing.TB, w *httptest.ResponseRecorder, expectedStatus int, v any) {
	t.Helper()

	if w.Code != expectedStatus {
		t.Fatalf("expected status %d, got %d (body: %s)", expectedStatus, w.Code, w.Body.String())
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
}

// ErrorBody mirrors the shared JSON error shape.
type ErrorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}
