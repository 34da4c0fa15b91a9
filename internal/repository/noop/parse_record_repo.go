package noop

import (
	"context"

	"go.uber.org/zap"

	"docparse/internal/domain"
	"docparse/internal/port"
)

type parseRecordRepo struct {
	logger *zap.Logger
}

// NewParseRecordRepo creates a ParseRecordRepository that only logs records.
// It is used when the audit database is disabled.
func NewParseRecordRepo(logger *zap.Logger) port.ParseRecordRepository {
	return &parseRecordRepo{logger: logger.Named("records")}
}

func (r *parseRecordRepo) Create(_ context.Context, rec *domain.ParseRecord) error {
	r.logger.Debug("parse attempt",
		zap.String("id", rec.ID.String()),
		zap.String("source", string(rec.Source)),
		zap.String("filename", rec.Filename),
		zap.String("status", string(rec.Status)),
		zap.Int64("duration_ms", rec.DurationMS),
	)
	return nil
}

func (r *parseRecordRepo) ListRecent(_ context.Context, _ int) ([]domain.ParseRecord, error) {
	return []domain.ParseRecord{}, nil
}
