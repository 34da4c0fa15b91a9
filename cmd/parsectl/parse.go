package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docparse/internal/config"
	"docparse/internal/domain"
	"docparse/internal/engine/tika"
	"docparse/internal/inspect"
	"docparse/internal/logger"
	"docparse/internal/port"
	"docparse/internal/repository/noop"
	"docparse/internal/repository/postgres"
	"docparse/internal/service"
	"docparse/internal/staging"
	"docparse/internal/supervisor"
)

var errParseFailed = errors.New("parse failed")

func newParseCmd(output *string) *cobra.Command {
	var params domain.OptionParams

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a local document and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := domain.BuildParseOptions(params, domain.HTTPOptionDefaults)
			if err != nil {
				return err
			}

			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			ctx := cmd.Context()
			sup := supervisor.New(&cfg.Supervisor, zl)
			defer func() { _ = sup.Stop(context.WithoutCancel(ctx)) }()
			if err := sup.EnsureReady(ctx); err != nil {
				return err
			}

			records, closeRecords, err := openRecords(&cfg.DB, zl)
			if err != nil {
				return err
			}
			defer closeRecords()

			svc := service.NewIngestService(
				staging.New(cfg.Staging.Dir, zl),
				inspect.New(zl),
				tika.New(&cfg.Engine, zl),
				records,
				zl,
			)
			result := svc.IngestReader(ctx, domain.ParseRequest{
				Content:  f,
				Filename: filepath.Base(args[0]),
				Options:  opts,
				MaxBytes: cfg.Server.MaxContentLength,
				Source:   domain.ParseSourceCLI,
			})

			if err := render(cmd.OutOrStdout(), *output, result.Payload()); err != nil {
				return err
			}
			if result.Failed() {
				return errParseFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&params.RenderFormat, "render-format", "all", "render format: all, html, text or json")
	cmd.Flags().StringVar(&params.UseNewIndentParser, "use-new-indent-parser", "no", "yes or no")
	cmd.Flags().StringVar(&params.ApplyOCR, "apply-ocr", "no", "yes or no")
	return cmd
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	zl, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, zl, nil
}

func openRecords(cfg *config.DBConfig, zl *zap.Logger) (port.ParseRecordRepository, func(), error) {
	if !cfg.Enabled {
		return noop.NewParseRecordRepo(zl), func() {}, nil
	}
	db, err := postgres.NewDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewParseRecordRepo(db), func() { _ = db.Close() }, nil
}
