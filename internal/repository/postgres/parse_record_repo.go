package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"docparse/internal/domain"
	"docparse/internal/port"
)

const maxListLimit = 500

type parseRecordRepo struct {
	db *sqlx.DB
}

// NewParseRecordRepo creates a new PostgreSQL-backed ParseRecordRepository.
func NewParseRecordRepo(db *sqlx.DB) port.ParseRecordRepository {
	return &parseRecordRepo{db: db}
}

func (r *parseRecordRepo) Create(ctx context.Context, rec *domain.ParseRecord) error {
	query := `INSERT INTO parse_records
		(id, source, filename, mime_type, size_bytes, status, reason, duration_ms, created_at)
		VALUES (:id, :source, :filename, :mime_type, :size_bytes, :status, :reason, :duration_ms, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("parseRecordRepo.Create: %w", err)
	}
	return nil
}

func (r *parseRecordRepo) ListRecent(ctx context.Context, limit int) ([]domain.ParseRecord, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	records := []domain.ParseRecord{}
	err := r.db.SelectContext(ctx, &records,
		`SELECT id, source, filename, mime_type, size_bytes, status, reason, duration_ms, created_at
		 FROM parse_records ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("parseRecordRepo.ListRecent: %w", err)
	}
	return records, nil
}
