package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docparse/internal/domain"
)

// MockParseRecordRepo is a mock implementation of port.ParseRecordRepository.
type MockParseRecordRepo struct {
	mock.Mock
}

func (m *MockParseRecordRepo) Create(ctx context.Context, rec *domain.ParseRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockParseRecordRepo) ListRecent(ctx context.Context, limit int) ([]domain.ParseRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParseRecord), args.Error(1)
}
