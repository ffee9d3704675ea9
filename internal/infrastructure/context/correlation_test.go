package context

import (
	"context"
	"testing"
)

func TestWithCorrelationID(t *testing.T) {
	tests := []struct {
		name          string
		correlationID string
	}{
		{
			name:          "adds correlation ID to context",
			correlationID: "test-correlation-123",
		},
		{
			name:          "ignores empty correlation ID",
			correlationID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithCorrelationID(context.Background(), tt.correlationID)

			if got := GetCorrelationID(ctx); got != tt.correlationID {
				t.Errorf("expected %q, got %q", tt.correlationID, got)
			}
		})
	}
}

func TestGetCorrelationID_Missing(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Errorf("expected empty correlation ID, got %q", got)
	}
}

func TestWithCorrelationID_Overrides(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "first")
	ctx = WithCorrelationID(ctx, "second")

	if got := GetCorrelationID(ctx); got != "second" {
		t.Errorf("expected %q, got %q", "second", got)
	}
}
