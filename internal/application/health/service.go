package health

import (
	"context"
	"time"

	corehealth "tfi/obras-sociales-api/internal/core/health"
)

const defaultCheckTimeout = 2 * time.Second

// Metadata contains immutable metadata about the running service.
type Metadata struct {
	Service     string
	Version     string
	Environment string
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service exposes health-check use cases to adapters.
type Service struct {
	meta         Metadata
	startedAt    time.Time
	checks       map[string]Pinger
	checkTimeout time.Duration
}

// NewService creates a health service. checks maps a dependency name to its probe.
func NewService(meta Metadata, checks map[string]Pinger) *Service {
	return &Service{
		meta:         meta,
		startedAt:    time.Now().UTC(),
		checks:       checks,
		checkTimeout: defaultCheckTimeout,
	}
}

// Status returns the current availability snapshot. The service is DEGRADED
// as soon as one dependency fails its probe.
func (s *Service) Status(ctx context.Context) corehealth.Status {
	uptime := time.Since(s.startedAt)
	status := corehealth.Status{
		Service:     s.meta.Service,
		Version:     s.meta.Version,
		Environment: s.meta.Environment,
		Status:      corehealth.StatusUp,
		StartedAt:   s.startedAt,
		Uptime:      uptime.String(),
		UptimeSecs:  int64(uptime.Seconds()),
	}

	for name, check := range s.checks {
		dep := corehealth.Dependency{Name: name, Status: corehealth.StatusUp}

		checkCtx, cancel := context.WithTimeout(ctx, s.checkTimeout)
		err := check.PingContext(checkCtx)
		cancel()

		if err != nil {
			dep.Status = corehealth.StatusDown
			dep.Error = err.Error()
			status.Status = corehealth.StatusDegraded
		}
		status.Dependencies = append(status.Dependencies, dep)
	}

	return status
}
