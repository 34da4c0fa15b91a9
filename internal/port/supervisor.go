package port

import (
	"context"

	"docparse/internal/domain"
)

// ProcessSupervisor controls the parser server process the engine depends on.
type ProcessSupervisor interface {
	// EnsureReady starts the server if needed and blocks until it is healthy or the
	// readiness budget is exhausted (domain.ErrSupervisorTimeout).
	EnsureReady(ctx context.Context) error
	// HealthCheck probes the server once. It never returns an error.
	HealthCheck(ctx context.Context) bool
	State() domain.SupervisorState
}
