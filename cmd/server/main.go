package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/freelancepro/backend/internal/application/billing"
	identityapp "github.com/freelancepro/backend/internal/application/identity"
	partnerapp "github.com/freelancepro/backend/internal/application/partner"
	projectapp "github.com/freelancepro/backend/internal/application/project"
	reportapp "github.com/freelancepro/backend/internal/application/report"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/freelancepro/backend/internal/infrastructure/cache"
	"github.com/freelancepro/backend/internal/infrastructure/config"
	"github.com/freelancepro/backend/internal/infrastructure/logger"
	"github.com/freelancepro/backend/internal/infrastructure/persistence"
	"github.com/freelancepro/backend/internal/infrastructure/telemetry"
	"github.com/freelancepro/backend/internal/interfaces/http/handler"
	"github.com/freelancepro/backend/internal/interfaces/http/middleware"
	"github.com/freelancepro/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FreelancePro Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Initialize repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)

	// Idempotency store: Redis when reachable, otherwise an in-process
	// fallback so a Redis outage never blocks invoicing.
	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
			idempotencyStore = cache.NewInMemoryIdempotencyStore()
		} else {
			idempotencyStore = redisStore
			log.Info("Redis idempotency store connected", zap.String("addr", cfg.Redis.Addr()))
		}
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	idemConfig := shared.IdempotencyConfig{
		TTL:     cfg.Idempotency.TTL,
		Enabled: cfg.Idempotency.Enabled,
	}

	// Initialize application services
	earningsService := reportapp.NewEarningsService(invoiceRepo, projectRepo, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, projectRepo, profileRepo, idempotencyStore, idemConfig, log)
	clientService := partnerapp.NewClientService(clientRepo, projectRepo, log)
	projectService := projectapp.NewProjectService(projectRepo, clientRepo, invoiceRepo, log)
	settingsService := identityapp.NewSettingsService(profileRepo, log)

	// Initialize HTTP handlers
	reportHandler := handler.NewReportHandler(earningsService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	clientHandler := handler.NewClientHandler(clientService)
	projectHandler := handler.NewProjectHandler(projectService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Span per request (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Report domain (earnings aggregation)
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/summary", reportHandler.GetSummary)
	reportRoutes.GET("/monthly", reportHandler.GetMonthlySeries)
	reportRoutes.GET("/weekly", reportHandler.GetWeeklySeries)

	// Client domain
	clientRoutes := router.NewDomainGroup("clients", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/:id", clientHandler.GetByID)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.DELETE("/:id", clientHandler.Delete)

	// Project domain
	projectRoutes := router.NewDomainGroup("projects", "/projects")
	projectRoutes.POST("", projectHandler.Create)
	projectRoutes.GET("", projectHandler.List)
	projectRoutes.GET("/:id", projectHandler.GetByID)
	projectRoutes.GET("/:id/earnings", reportHandler.GetProjectEarnings)
	projectRoutes.POST("/:id/complete", projectHandler.Complete)
	projectRoutes.POST("/:id/archive", projectHandler.Archive)
	projectRoutes.DELETE("/:id", projectHandler.Delete)

	// Billing domain (invoices)
	invoiceRoutes := router.NewDomainGroup("invoices", "/invoices")
	invoiceRoutes.POST("", invoiceHandler.Create)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/:id", invoiceHandler.GetByID)
	invoiceRoutes.POST("/:id/payments", invoiceHandler.RecordPayment)
	invoiceRoutes.DELETE("/:id", invoiceHandler.Delete)

	// Identity domain (business settings)
	settingsRoutes := router.NewDomainGroup("settings", "/settings")
	settingsRoutes.GET("", settingsHandler.Get)
	settingsRoutes.PUT("", settingsHandler.Update)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(reportRoutes).
		Register(clientRoutes).
		Register(projectRoutes).
		Register(invoiceRoutes).
		Register(settingsRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
