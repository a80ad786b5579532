package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/venturis/worktrack-api/internal/auth"
	"github.com/venturis/worktrack-api/internal/config"
	"github.com/venturis/worktrack-api/internal/database"
	"github.com/venturis/worktrack-api/internal/http/handler"
	"github.com/venturis/worktrack-api/internal/http/middleware"
	"github.com/venturis/worktrack-api/internal/http/router"
	"github.com/venturis/worktrack-api/internal/jobs"
	"github.com/venturis/worktrack-api/internal/logger"
	"github.com/venturis/worktrack-api/internal/repository"
	"github.com/venturis/worktrack-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Repositories
	stageEventRepo := repository.NewStageEventRepository(db)
	workOrderRepo := repository.NewWorkOrderRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	salesLeadRepo := repository.NewSalesLeadRepository(db)
	trRepo := repository.NewTechnicalRecommendationRepository(db)
	rfqRepo := repository.NewRFQRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	sequenceRepo := repository.NewNumberSequenceRepository(db)
	lookupRepo := repository.NewLookupRepository(db)

	// Services
	sequenceService := service.NewSequenceService(sequenceRepo, log)
	stageService := service.NewStageService(stageEventRepo, workOrderRepo, salesLeadRepo, trRepo, rfqRepo, quotationRepo, log)
	workOrderService := service.NewWorkOrderService(db, workOrderRepo, accountRepo, sequenceService, log)
	accountService := service.NewAccountService(accountRepo, sequenceService, log)
	salesLeadService := service.NewSalesLeadService(db, salesLeadRepo, workOrderRepo, sequenceService, log)
	trService := service.NewTechnicalRecommendationService(db, trRepo, salesLeadRepo, workOrderRepo, sequenceService, log)
	rfqService := service.NewRFQService(db, rfqRepo, workOrderRepo, lookupRepo, sequenceService, log)
	quotationService := service.NewQuotationService(db, quotationRepo, rfqRepo, trRepo, workOrderRepo, sequenceService, log)

	// Handlers
	stageHandler := handler.NewStageHandler(stageService, log)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService, log)
	accountHandler := handler.NewAccountHandler(accountService, log)
	salesLeadHandler := handler.NewSalesLeadHandler(salesLeadService, log)
	trHandler := handler.NewTechnicalRecommendationHandler(trService, log)
	rfqHandler := handler.NewRFQHandler(rfqService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Background jobs
	scheduler := jobs.NewScheduler(log)
	if cfg.Jobs.Enabled {
		notifyJob := jobs.NewStageNotifyJob(stageEventRepo, jobs.NewLogNotifier(log), cfg.Jobs.NotifyBatchSize, log)
		if err := scheduler.AddJob("stage-notify-sweep", cfg.Jobs.NotifySchedule, notifyJob.Run); err != nil {
			return fmt.Errorf("failed to schedule notification sweep: %w", err)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	// Router
	rt := router.NewRouter(
		cfg, log, db,
		authMiddleware, rateLimiter,
		stageHandler, workOrderHandler, accountHandler,
		salesLeadHandler, trHandler, rfqHandler, quotationHandler,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      http.TimeoutHandler(rt.Setup(), cfg.Server.RequestTimeoutDuration(), "request timed out"),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
