package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docparse/internal/domain"
)

// MockEngine is a mock implementation of port.Engine.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Ingest(ctx context.Context, filename, path, mimeType string, opts domain.ParseOptions) (map[string]any, []string, error) {
	args := m.Called(ctx, filename, path, mimeType, opts)
	var result map[string]any
	if v := args.Get(0); v != nil {
		result = v.(map[string]any)
	}
	var warnings []string
	if v := args.Get(1); v != nil {
		warnings = v.([]string)
	}
	return result, warnings, args.Error(2)
}
