// @title docparse API
// @version 1.0
// @description Document parsing service backed by a supervised parser server.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT token.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "docparse/docs"
	"docparse/internal/config"
	"docparse/internal/engine/tika"
	"docparse/internal/handler"
	"docparse/internal/inspect"
	"docparse/internal/logger"
	"docparse/internal/port"
	"docparse/internal/repository/noop"
	"docparse/internal/repository/postgres"
	"docparse/internal/router"
	"docparse/internal/service"
	"docparse/internal/staging"
	"docparse/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The parser server is started once per process, before traffic is accepted.
	sup := supervisor.New(&cfg.Supervisor, zl)
	if err := sup.Start(ctx); err != nil {
		return fmt.Errorf("failed to start parser server: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := sup.Stop(stopCtx); err != nil {
			zl.Warn("parser server stop", zap.Error(err))
		}
	}()
	if err := sup.AwaitReady(ctx); err != nil {
		return fmt.Errorf("parser server: %w", err)
	}

	records, db, err := openRecords(&cfg.DB, zl)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	// Initialize services
	ingestSvc := service.NewIngestService(
		staging.New(cfg.Staging.Dir, zl),
		inspect.New(zl),
		tika.New(&cfg.Engine, zl),
		records,
		zl,
	)

	// Initialize handlers
	parseH := handler.NewParseHandler(ingestSvc, cfg.Server.MaxContentLength, zl)
	healthH := handler.NewHealthHandler(sup, db)

	r := router.Setup(cfg, zl, parseH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("server starting", zap.String("addr", cfg.Server.Port), zap.Bool("auth", cfg.Auth.Enabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openRecords returns the audit repository. The database handle is nil when
// the audit store is disabled.
func openRecords(cfg *config.DBConfig, zl *zap.Logger) (port.ParseRecordRepository, *sqlx.DB, error) {
	if !cfg.Enabled {
		return noop.NewParseRecordRepo(zl), nil, nil
	}
	db, err := postgres.NewDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewParseRecordRepo(db), db, nil
}
