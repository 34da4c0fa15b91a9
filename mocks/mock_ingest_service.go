package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docparse/internal/domain"
)

// MockIngestService is a mock implementation of service.IngestService.
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) Ingest(ctx context.Context, content []byte, filename string, opts domain.ParseOptions) *domain.ParseResult {
	args := m.Called(ctx, content, filename, opts)
	return args.Get(0).(*domain.ParseResult)
}

func (m *MockIngestService) IngestReader(ctx context.Context, req domain.ParseRequest) *domain.ParseResult {
	args := m.Called(ctx, req)
	return args.Get(0).(*domain.ParseResult)
}

func (m *MockIngestService) History(ctx context.Context, limit int) ([]domain.ParseRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParseRecord), args.Error(1)
}
