package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appdropship "github.com/dropship/backend/internal/application/dropship"
	"github.com/dropship/backend/internal/domain/dropship"
	"github.com/dropship/backend/internal/infrastructure/cache"
	"github.com/dropship/backend/internal/infrastructure/config"
	"github.com/dropship/backend/internal/infrastructure/logger"
	"github.com/dropship/backend/internal/infrastructure/persistence"
	"github.com/dropship/backend/internal/infrastructure/provider"
	"github.com/dropship/backend/internal/infrastructure/resilience"
	"github.com/dropship/backend/internal/interfaces/http/handler"
	"github.com/dropship/backend/internal/interfaces/http/middleware"
	"github.com/dropship/backend/internal/interfaces/http/router"
)

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

	log.Info("Starting dropship backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with zap-backed GORM logging
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Product cache: Redis when reachable, in-memory otherwise
	cacheFactory := cache.NewProductCacheFactory(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cache.WithLogger(log))
	productCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create product cache", zap.Error(err))
	}

	// Register the providers that have credentials. A provider without an
	// API key is simply absent from the registry.
	registry := dropship.NewRegistry()

	if cfg.Providers.Printful.Configured() {
		printfulCfg := provider.NewPrintfulConfig(cfg.Providers.Printful.APIKey)
		if cfg.Providers.Printful.BaseURL != "" {
			printfulCfg.APIBaseURL = cfg.Providers.Printful.BaseURL
		}
		if cfg.Providers.Printful.TimeoutSeconds > 0 {
			printfulCfg.TimeoutSeconds = cfg.Providers.Printful.TimeoutSeconds
		}
		if cfg.Providers.Printful.RequestsPerSecond > 0 {
			printfulCfg.RequestsPerSecond = cfg.Providers.Printful.RequestsPerSecond
		}
		if cfg.Providers.Printful.MaxConcurrency > 0 {
			printfulCfg.MaxConcurrency = cfg.Providers.Printful.MaxConcurrency
		}
		printful, err := provider.NewPrintfulAdapter(printfulCfg, log)
		if err != nil {
			log.Fatal("Failed to create Printful adapter", zap.Error(err))
		}
		if err := registry.Register(printful); err != nil {
			log.Fatal("Failed to register Printful adapter", zap.Error(err))
		}
		log.Info("Provider registered", zap.String("provider", printful.Name()))
	}

	if cfg.Providers.Spocket.Configured() {
		spocketCfg := provider.NewSpocketConfig(cfg.Providers.Spocket.APIKey)
		if cfg.Providers.Spocket.BaseURL != "" {
			spocketCfg.APIBaseURL = cfg.Providers.Spocket.BaseURL
		}
		if cfg.Providers.Spocket.TimeoutSeconds > 0 {
			spocketCfg.TimeoutSeconds = cfg.Providers.Spocket.TimeoutSeconds
		}
		if cfg.Providers.Spocket.RequestsPerSecond > 0 {
			spocketCfg.RequestsPerSecond = cfg.Providers.Spocket.RequestsPerSecond
		}
		spocket, err := provider.NewSpocketAdapter(spocketCfg, log)
		if err != nil {
			log.Fatal("Failed to create Spocket adapter", zap.Error(err))
		}
		if err := registry.Register(spocket); err != nil {
			log.Fatal("Failed to register Spocket adapter", zap.Error(err))
		}
		log.Info("Provider registered", zap.String("provider", spocket.Name()))
	}

	if cfg.Providers.Default != "" {
		if err := registry.SetDefault(cfg.Providers.Default); err != nil {
			log.Fatal("Failed to set default provider", zap.Error(err))
		}
	}

	// Retry executor shared by all provider calls
	executor := resilience.NewExecutor(resilience.Config{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		BaseDelay:      cfg.Retry.BaseDelay,
		Multiplier:     cfg.Retry.Multiplier,
		MaxDelay:       cfg.Retry.MaxDelay,
		JitterFraction: cfg.Retry.JitterFraction,
	}, log)

	// Application service over the provider registry
	service := appdropship.NewService(registry, executor,
		appdropship.WithCatalogStore(persistence.NewGormCatalogStore(db.DB)),
		appdropship.WithInventorySink(persistence.NewGormInventorySink(db.DB)),
		appdropship.WithProductCache(productCache, cfg.Cache.ProductTTL),
		appdropship.WithLogger(log),
	)

	// Order tracker (if enabled)
	var tracker *appdropship.Tracker
	if cfg.Tracker.Enabled {
		tracker = appdropship.NewTracker(service, appdropship.TrackerConfig{
			PollInterval:    cfg.Tracker.PollInterval,
			MaxPollInterval: cfg.Tracker.MaxPollInterval,
			MaxTracked:      cfg.Tracker.MaxTracked,
			Workers:         cfg.Tracker.Workers,
		}, log)
		tracker.Start(context.Background())
		defer tracker.Stop()
		log.Info("Order tracker started",
			zap.Duration("poll_interval", cfg.Tracker.PollInterval),
			zap.Int("workers", cfg.Tracker.Workers),
		)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
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
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, service))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	r.Register(handler.NewDropshipHandler(service, tracker))
	r.Setup()

	// Simple ping for basic liveness checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

// healthHandler reports database connectivity and per-provider health.
func healthHandler(db *persistence.Database, service *appdropship.Service) gin.HandlerFunc {
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
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"database":  "ok",
			"providers": service.GetEnabledProviders(),
		})
	}
}
