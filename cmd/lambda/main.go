// Command lambda serves parse events. Everything, including the parser server
// process, is built once per cold start and shared by every invocation.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"docparse/internal/config"
	"docparse/internal/engine/tika"
	"docparse/internal/event"
	"docparse/internal/fetch"
	"docparse/internal/inspect"
	"docparse/internal/logger"
	"docparse/internal/port"
	"docparse/internal/repository/noop"
	"docparse/internal/repository/postgres"
	"docparse/internal/service"
	"docparse/internal/staging"
	s3storage "docparse/internal/storage/s3"
	"docparse/internal/supervisor"
)

func main() {
	h, err := build(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	lambda.Start(h.Handle)
}

func build(ctx context.Context) (*event.Handler, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	sup := supervisor.New(&cfg.Supervisor, zl)
	if err := sup.Start(ctx); err != nil {
		// EnsureReady retries the launch on the first invocation.
		zl.Error("failed to start parser server", zap.Error(err))
	}

	storage, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		zl.Warn("s3 unavailable, s3:// urls will be rejected", zap.Error(err))
	}

	var records port.ParseRecordRepository = noop.NewParseRecordRepo(zl)
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		records = postgres.NewParseRecordRepo(db)
	}

	ingestSvc := service.NewIngestService(
		staging.New(cfg.Staging.Dir, zl),
		inspect.New(zl),
		tika.New(&cfg.Engine, zl),
		records,
		zl,
	)

	return event.NewHandler(sup, fetch.New(&cfg.Fetch, storage, zl), ingestSvc, zl)
}
