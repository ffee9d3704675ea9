package health

import (
	"context"
	"errors"
	"testing"
	"time"

	corehealth "tfi/obras-sociales-api/internal/core/health"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestNewService(t *testing.T) {
	meta := Metadata{
		Service:     "test-service",
		Version:     "1.0.0",
		Environment: "test",
	}

	service := NewService(meta, nil)

	if service == nil {
		t.Fatal("expected service to be created, got nil")
	}

	if service.meta != meta {
		t.Error("expected service to have the provided metadata")
	}

	if service.startedAt.IsZero() {
		t.Error("expected startedAt to be set")
	}
}

func TestService_Status(t *testing.T) {
	meta := Metadata{
		Service:     "test-service",
		Version:     "1.0.0",
		Environment: "test",
	}

	service := NewService(meta, nil)

	time.Sleep(10 * time.Millisecond)

	status := service.Status(context.Background())

	if status.Service != meta.Service {
		t.Errorf("expected service %q, got %q", meta.Service, status.Service)
	}
	if status.Version != meta.Version {
		t.Errorf("expected version %q, got %q", meta.Version, status.Version)
	}
	if status.Status != corehealth.StatusUp {
		t.Errorf("expected status %q, got %q", corehealth.StatusUp, status.Status)
	}
	if !status.StartedAt.Equal(service.startedAt) {
		t.Errorf("expected startedAt %v, got %v", service.startedAt, status.StartedAt)
	}
	if status.Uptime == "" {
		t.Error("expected uptime to be set")
	}
	if len(status.Dependencies) != 0 {
		t.Errorf("expected no dependencies, got %d", len(status.Dependencies))
	}
}

func TestService_Status_Dependencies(t *testing.T) {
	tests := []struct {
		name           string
		ping           pingerFunc
		expectedStatus string
		expectedDep    string
		expectedDepErr string
	}{
		{
			name:           "database up",
			ping:           func(context.Context) error { return nil },
			expectedStatus: corehealth.StatusUp,
			expectedDep:    corehealth.StatusUp,
		},
		{
			name:           "database down",
			ping:           func(context.Context) error { return errors.New("connection refused") },
			expectedStatus: corehealth.StatusDegraded,
			expectedDep:    corehealth.StatusDown,
			expectedDepErr: "connection refused",
		},
		{
			name: "probe gets a deadline",
			ping: func(ctx context.Context) error {
				if _, ok := ctx.Deadline(); !ok {
					return errors.New("no deadline")
				}
				return nil
			},
			expectedStatus: corehealth.StatusUp,
			expectedDep:    corehealth.StatusUp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(Metadata{Service: "svc"}, map[string]Pinger{"database": tt.ping})

			status := service.Status(context.Background())

			if status.Status != tt.expectedStatus {
				t.Errorf("expected status %q, got %q", tt.expectedStatus, status.Status)
			}
			if len(status.Dependencies) != 1 {
				t.Fatalf("expected 1 dependency, got %d", len(status.Dependencies))
			}
			dep := status.Dependencies[0]
			if dep.Name != "database" {
				t.Errorf("expected dependency name database, got %q", dep.Name)
			}
			if dep.Status != tt.expectedDep {
				t.Errorf("expected dependency status %q, got %q", tt.expectedDep, dep.Status)
			}
			if dep.Error != tt.expectedDepErr {
				t.Errorf("expected dependency error %q, got %q", tt.expectedDepErr, dep.Error)
			}
		})
	}
}
