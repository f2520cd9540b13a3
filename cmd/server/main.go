package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/application/importer"
	"github.com/oms/backend/internal/application/tracking"
	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/sync"
	"github.com/oms/backend/internal/infrastructure/config"
	"github.com/oms/backend/internal/infrastructure/event"
	"github.com/oms/backend/internal/infrastructure/logger"
	"github.com/oms/backend/internal/infrastructure/notification"
	"github.com/oms/backend/internal/infrastructure/persistence"
	"github.com/oms/backend/internal/infrastructure/platform"
	"github.com/oms/backend/internal/infrastructure/scheduler"
	"github.com/oms/backend/internal/interfaces/http/handler"
	"github.com/oms/backend/internal/interfaces/http/middleware"
	"github.com/oms/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
	)

	db, err := persistence.NewDatabaseWithLogger(
		&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)),
	)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	// repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cursorRepo := persistence.NewGormCursorRepository(db.DB)
	importLogRepo := persistence.NewGormImportLogRepository(db.DB)
	txManager := persistence.NewTxManager(db.DB)

	// notifications: imports suppress them, manual shipment flows do not
	mailer := notification.NewLoggingMailer(log)
	gate := notification.NewGate(mailer, log)

	// platform adapters
	adapters, err := platform.BuildAdapters(cfg, log)
	if err != nil {
		return fmt.Errorf("building platform adapters: %w", err)
	}
	registry := sync.NewAdapterRegistry(adapters...)
	for _, a := range adapters {
		log.Info("platform adapter configured", zap.String("platform", a.Platform().String()))
	}

	var defaultAssignee *uuid.UUID
	if cfg.Sync.DefaultAssignee != "" {
		id, err := uuid.Parse(cfg.Sync.DefaultAssignee)
		if err != nil {
			return fmt.Errorf("sync.default_assignee is not a valid UUID: %w", err)
		}
		defaultAssignee = &id
	}

	// import pipeline
	materializer := importer.NewMaterializer(txManager, orderRepo, productRepo, gate, defaultAssignee, log)
	importService := importer.NewService(
		registry,
		cursorRepo,
		importLogRepo,
		orderRepo,
		materializer,
		map[order.Source][]string{
			order.SourceWooCommerce: cfg.WooCommerce.StatusFilter,
			order.SourceBigCommerce: cfg.BigCommerce.StatusFilter,
			order.SourceShopify:     cfg.Shopify.StatusFilter,
		},
		log,
	)

	// tracking sync-back rides on the shipped event
	eventBus := event.NewInMemoryEventBus(log)
	dispatcher := tracking.NewDispatcher(registry, orderRepo, log)
	eventBus.Subscribe(tracking.NewOrderShippedHandler(dispatcher, log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var importScheduler *scheduler.Scheduler
	if cfg.Sync.SchedulerEnabled {
		importScheduler = scheduler.NewScheduler(importService, cfg.Sync.PollInterval, log)
		importScheduler.Start(ctx)
	}

	// HTTP surface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
	)

	router.NewRouter(engine).
		Register(handler.NewSystemHandler(cfg.App.Name, version)).
		Register(handler.NewSyncHandler(importService, log)).
		Register(handler.NewOrderHandler(orderRepo, eventBus, gate, log)).
		Setup()

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	if importScheduler != nil {
		importScheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	log.Info("stopped cleanly")
	return nil
}
