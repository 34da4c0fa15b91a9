package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docparse/internal/domain"
)

// MockPropertyInspector is a mock implementation of port.PropertyInspector.
type MockPropertyInspector struct {
	mock.Mock
}

func (m *MockPropertyInspector) Inspect(ctx context.Context, path string) (*domain.FileProperties, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileProperties), args.Error(1)
}
