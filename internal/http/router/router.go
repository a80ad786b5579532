package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/venturis/worktrack-api/internal/auth"
	"github.com/venturis/worktrack-api/internal/config"
	"github.com/venturis/worktrack-api/internal/database"
	"github.com/venturis/worktrack-api/internal/http/handler"
	"github.com/venturis/worktrack-api/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	stageHandler     *handler.StageHandler
	workOrderHandler *handler.WorkOrderHandler
	accountHandler   *handler.AccountHandler
	salesLeadHandler *handler.SalesLeadHandler
	trHandler        *handler.TechnicalRecommendationHandler
	rfqHandler       *handler.RFQHandler
	quotationHandler *handler.QuotationHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	stageHandler *handler.StageHandler,
	workOrderHandler *handler.WorkOrderHandler,
	accountHandler *handler.AccountHandler,
	salesLeadHandler *handler.SalesLeadHandler,
	trHandler *handler.TechnicalRecommendationHandler,
	rfqHandler *handler.RFQHandler,
	quotationHandler *handler.QuotationHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		stageHandler:     stageHandler,
		workOrderHandler: workOrderHandler,
		accountHandler:   accountHandler,
		salesLeadHandler: salesLeadHandler,
		trHandler:        trHandler,
		rfqHandler:       rfqHandler,
		quotationHandler: quotationHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{"status": "healthy"}
		}

		w.Header().Set("Content-Type", "application/json")
		status := http.StatusOK
		overall := "healthy"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": overall,
			"checks": checks,
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Workflow stage log
			r.Route("/stages", func(r chi.Router) {
				r.Get("/", rt.stageHandler.List)
				r.Post("/", rt.stageHandler.Append)
				r.Get("/latest-submitted", rt.stageHandler.LatestSubmitted)
				r.Get("/assigned", rt.stageHandler.LatestAssigned)
				r.Get("/{id}", rt.stageHandler.Get)
				r.Patch("/{id}", rt.stageHandler.Update)
				r.Delete("/{id}", rt.stageHandler.Delete)
			})

			// Work orders
			r.Route("/work-orders", func(r chi.Router) {
				r.Get("/", rt.workOrderHandler.List)
				r.Post("/", rt.workOrderHandler.Create)
				r.Get("/{id}", rt.workOrderHandler.Get)
				r.Put("/{id}", rt.workOrderHandler.Update)
				r.Delete("/{id}", rt.workOrderHandler.Delete)
				r.Get("/{id}/stages", rt.stageHandler.History)
				r.Get("/{id}/stages/latest", rt.stageHandler.Latest)
				r.Get("/{id}/rfq", rt.rfqHandler.GetByWorkOrder)
			})

			// Accounts (NAEF)
			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", rt.accountHandler.List)
				r.Post("/", rt.accountHandler.Create)
				r.Get("/{id}", rt.accountHandler.Get)
				r.Put("/{id}", rt.accountHandler.Update)
				r.Delete("/{id}", rt.accountHandler.Delete)
			})

			// Sales leads
			r.Route("/sales-leads", func(r chi.Router) {
				r.Get("/", rt.salesLeadHandler.List)
				r.Post("/", rt.salesLeadHandler.Create)
				r.Get("/{id}", rt.salesLeadHandler.Get)
				r.Put("/{id}", rt.salesLeadHandler.Update)
				r.Delete("/{id}", rt.salesLeadHandler.Delete)
			})

			// Technical recommendations
			r.Route("/technical-recommendations", func(r chi.Router) {
				r.Get("/", rt.trHandler.List)
				r.Post("/", rt.trHandler.Create)
				r.Get("/{id}", rt.trHandler.Get)
				r.Put("/{id}", rt.trHandler.Update)
				r.Delete("/{id}", rt.trHandler.Delete)
			})

			// RFQs — PUT runs the desired-state reconciliation
			r.Route("/rfqs", func(r chi.Router) {
				r.Get("/", rt.rfqHandler.List)
				r.Post("/", rt.rfqHandler.Create)
				r.Get("/{id}", rt.rfqHandler.Get)
				r.Put("/{id}", rt.rfqHandler.Update)
				r.Delete("/{id}", rt.rfqHandler.Delete)
			})

			// Quotations
			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.List)
				r.Post("/", rt.quotationHandler.Create)
				r.Get("/{id}", rt.quotationHandler.Get)
				r.Put("/{id}", rt.quotationHandler.Update)
				r.Delete("/{id}", rt.quotationHandler.Delete)
			})
		})
	})

	return r
}
