package port

import (
	"context"

	"docparse/internal/domain"
)

// ParseRecordRepository persists the audit trail of ingestion attempts.
type ParseRecordRepository interface {
	Create(ctx context.Context, rec *domain.ParseRecord) error
	ListRecent(ctx context.Context, limit int) ([]domain.ParseRecord, error)
}
