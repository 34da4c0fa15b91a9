package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docparse/internal/domain"
)

// MockProcessSupervisor is a mock implementation of port.ProcessSupervisor.
type MockProcessSupervisor struct {
	mock.Mock
}

func (m *MockProcessSupervisor) EnsureReady(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProcessSupervisor) HealthCheck(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockProcessSupervisor) State() domain.SupervisorState {
	args := m.Called()
	return args.Get(0).(domain.SupervisorState)
}
