package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docparse/internal/domain"
	"docparse/internal/port"
	"docparse/internal/staging"
)

// IngestService drives one document through staging, inspection and the parse
// engine. Every outcome, including panics inside the engine, is returned as a
// ParseResult; nothing escapes to the transport layer.
type IngestService interface {
	// Ingest parses an in-memory document fetched by the event entry point.
	Ingest(ctx context.Context, content []byte, filename string, opts domain.ParseOptions) *domain.ParseResult
	// IngestReader streams req.Content to disk and enforces req.MaxBytes against
	// the measured size of the staged file.
	IngestReader(ctx context.Context, req domain.ParseRequest) *domain.ParseResult
	History(ctx context.Context, limit int) ([]domain.ParseRecord, error)
}

type ingestService struct {
	stager    *staging.Stager
	inspector port.PropertyInspector
	engine    port.Engine
	records   port.ParseRecordRepository
	logger    *zap.Logger
}

// NewIngestService creates a new IngestService implementation.
func NewIngestService(
	stager *staging.Stager,
	inspector port.PropertyInspector,
	engine port.Engine,
	records port.ParseRecordRepository,
	logger *zap.Logger,
) IngestService {
	return &ingestService{
		stager:    stager,
		inspector: inspector,
		engine:    engine,
		records:   records,
		logger:    logger.Named("ingest"),
	}
}

func (s *ingestService) Ingest(ctx context.Context, content []byte, filename string, opts domain.ParseOptions) *domain.ParseResult {
	return s.IngestReader(ctx, domain.ParseRequest{
		Content:  bytes.NewReader(content),
		Filename: filename,
		Options:  opts,
		Source:   domain.ParseSourceEvent,
	})
}

func (s *ingestService) IngestReader(ctx context.Context, req domain.ParseRequest) *domain.ParseResult {
	start := time.Now()
	rec := &domain.ParseRecord{
		ID:       uuid.New(),
		Source:   req.Source,
		Filename: req.Filename,
	}

	result := s.run(ctx, req, rec)

	rec.Status = result.Status
	rec.Reason = result.Reason
	rec.DurationMS = time.Since(start).Milliseconds()
	rec.CreatedAt = time.Now().UTC()
	s.record(ctx, rec)

	return result
}

func (s *ingestService) run(ctx context.Context, req domain.ParseRequest, rec *domain.ParseRecord) (result *domain.ParseResult) {
	log := s.logger.With(zap.String("filename", req.Filename), zap.String("source", string(req.Source)))

	staged, err := s.stager.Stage(req.Content, staging.Suffix(req.Filename))
	if err != nil {
		log.Error("staging failed", zap.Error(err))
		return domain.Failed(fmt.Errorf("%w: %w", domain.ErrStaging, err))
	}
	defer func() {
		_ = s.stager.Release(staged)
	}()

	// Panics from the inspector or engine become failure results; the release above still runs.
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while parsing", zap.Any("panic", r), zap.Stack("stack"))
			result = domain.Failed(fmt.Errorf("%w: panic: %v", domain.ErrEngine, r))
		}
	}()

	size, err := s.stager.MeasuredSize(staged)
	if err != nil {
		log.Error("measuring staged file failed", zap.Error(err))
		return domain.Failed(fmt.Errorf("%w: %w", domain.ErrStaging, err))
	}
	rec.SizeBytes = size

	if req.MaxBytes > 0 && size > req.MaxBytes {
		limitErr := &domain.SizeLimitError{Size: size, Limit: req.MaxBytes}
		log.Warn("file rejected: size exceeds limit",
			zap.Int64("size", size),
			zap.Int64("limit", req.MaxBytes),
		)
		return domain.Failed(limitErr)
	}

	props, err := s.inspector.Inspect(ctx, staged.Path)
	if err != nil {
		log.Error("inspecting file failed", zap.Error(err))
		return domain.Failed(fmt.Errorf("%w: %w", domain.ErrInspection, err))
	}
	rec.MIMEType = props.MIMEType

	log.Info("parsing document",
		zap.String("mime_type", props.MIMEType),
		zap.Int64("size", size),
		zap.Int("pages", props.Pages),
	)

	data, warnings, err := s.engine.Ingest(ctx, req.Filename, staged.Path, props.MIMEType, req.Options)
	if err != nil {
		log.Error("parse engine failed", zap.Error(err))
		return domain.Failed(fmt.Errorf("%w: %w", domain.ErrEngine, err))
	}
	for _, w := range warnings {
		log.Warn("parse warning", zap.String("warning", w))
	}

	return domain.Succeeded(data, warnings)
}

func (s *ingestService) record(ctx context.Context, rec *domain.ParseRecord) {
	if s.records == nil {
		return
	}
	if err := s.records.Create(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("failed to record parse attempt", zap.String("id", rec.ID.String()), zap.Error(err))
	}
}

func (s *ingestService) History(ctx context.Context, limit int) ([]domain.ParseRecord, error) {
	if s.records == nil {
		return []domain.ParseRecord{}, nil
	}
	return s.records.ListRecent(ctx, limit)
}
