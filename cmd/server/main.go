package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	catalogapp "github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/application/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/catalog"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/domain/shared"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/auth"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/cache"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/config"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/logger"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/persistence"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/scheduler"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/shopify"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/storage"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/infrastructure/telemetry"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/handler"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/middleware"
	"github.com/prathamesh-radical/rg-quick-bulk-product-editor/internal/interfaces/http/router"

	_ "github.com/prathamesh-radical/rg-quick-bulk-product-editor/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Quick Bulk Product Editor API
//	@version		1.0
//	@description	Backend of the Shopify embedded quick bulk product editor

//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OTLP log bridge first so the main logger can tee into it
	bootLog, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             logger.ParseLevel(cfg.Telemetry.LogsExportLevel),
	}, bootLog)
	if err != nil {
		bootLog.Warn("OTLP log export disabled", zap.Error(err))
	}
	var extraCores []zapcore.Core
	if logProvider != nil && logProvider.IsEnabled() {
		extraCores = append(extraCores, logProvider.Core())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
	}, extraCores...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting quick bulk product editor",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("shop", cfg.Shopify.ShopDomain),
		zap.String("version", version),
	)

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Caches: snapshot L1/L2 and idempotency keys
	cacheStack, err := cache.Build(ctx, cfg.Redis, cfg.Cache,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()))
	if err != nil {
		log.Fatal("Failed to initialize caches", zap.Error(err))
	}
	go func() {
		if err := cacheStack.Snapshots.StartInvalidationSubscription(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Snapshot invalidation subscription stopped", zap.Error(err))
		}
	}()

	// Saved views: postgres when configured, otherwise process memory
	var (
		db        *persistence.Database
		viewsRepo catalog.SavedViewRepository = persistence.NewMemorySavedViewRepository()
	)
	if cfg.Database.Enabled {
		gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
		db, err = persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
			Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			DBName:     cfg.Database.DBName,
			LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		}, log); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
		if sqlDB, err := db.DB.DB(); err == nil && meterProvider.IsEnabled() {
			if _, err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter("database"), sqlDB); err != nil {
				log.Warn("Database pool metrics disabled", zap.Error(err))
			}
		}
		viewsRepo = persistence.NewGormSavedViewRepository(db.DB)
		log.Info("Database connected successfully")
	} else {
		log.Warn("Database disabled, saved views are kept in memory")
	}

	// Shopify
	platform, err := shopify.NewAdapter(&shopify.Config{
		ShopDomain:  cfg.Shopify.ShopDomain,
		AccessToken: cfg.Shopify.AccessToken,
		APIKey:      cfg.Shopify.APIKey,
		APISecret:   cfg.Shopify.APISecret,
		APIVersion:  cfg.Shopify.APIVersion,
		LocationID:  cfg.Shopify.LocationID,
		Timeout:     cfg.Shopify.Timeout,
		MaxRetries:  cfg.Shopify.MaxRetries,
		PageSize:    cfg.Shopify.PageSize,
	}, shopify.WithLogger(log), shopify.WithMeter(meterProvider.Meter("shopify")))
	if err != nil {
		log.Fatal("Failed to initialize Shopify client", zap.Error(err))
	}
	shop := shopify.NormalizeShopDomain(cfg.Shopify.ShopDomain)

	// Export storage
	var exportStorage catalogapp.ExportStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ExportStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize export storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Export bucket check failed", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		exportStorage = s3
	}

	// Application services
	snapshots := catalogapp.NewSnapshotLoader(platform, cacheStack.Snapshots, catalogapp.SnapshotLoaderConfig{
		Shop:       shop,
		TTL:        cfg.Cache.SnapshotTTL,
		LocationID: cfg.Shopify.LocationID,
	}, log)
	productService := catalogapp.NewProductService(platform, snapshots, cacheStack.Idempotency, log)
	idemConfig := shared.DefaultIdempotencyConfig()
	idemConfig.TTL = cfg.Cache.IdempotencyTTL
	productService.SetIdempotencyConfig(idemConfig)
	inventoryService := catalogapp.NewInventoryService(platform, snapshots, cfg.Shopify.LocationID, log)
	viewService := catalogapp.NewViewService(viewsRepo, shop, log)
	exportService := catalogapp.NewExportService(snapshots, exportStorage, cfg.Storage.URLExpiry, log)

	warmer := scheduler.NewSnapshotWarmer(snapshots, log, scheduler.DefaultSnapshotWarmerConfig(cfg.Cache.WarmInterval))
	if err := warmer.Start(ctx); err != nil {
		log.Warn("Failed to start snapshot warmer", zap.Error(err))
	}

	// Auth
	var jwtMiddleware gin.HandlerFunc
	if cfg.Auth.Enabled {
		var revoker auth.TokenRevoker = auth.NewInMemoryTokenRevoker()
		if cacheStack.Redis != nil {
			revoker = auth.NewRedisTokenRevoker(cacheStack.Redis)
		}
		jwtMiddleware = middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: auth.NewJWTService(cfg.Auth, shop),
			Revoker:    revoker,
			Logger:     log,
		})
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Server span per request, then span enrichment
	// 5. Shop - Put the shop on the request context
	// 6. Security - Frame ancestors for the embedded admin
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. Metrics and profiling labels
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
		Filter:      middleware.SkipHealthChecks,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.ShopContext(shop))
	engine.Use(middleware.SecureWithConfig(middleware.EmbeddedAppSecurityConfig(shop)))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-Export-Rows", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(meterProvider))
	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = profiler.IsEnabled()
	engine.Use(middleware.ProfilingWithConfig(profiling))

	// Health check endpoint (outside /api)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, healthChecks(db, cacheStack))
	engine.GET("/health", systemHandler.Health)

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Webhooks are signed by Shopify, not by staff tokens
	webhookHandler := handler.NewWebhookHandler(
		shopify.NewWebhookVerifier(cfg.Shopify.WebhookSecret),
		snapshots, cacheStack.Idempotency, cfg.Cache.IdempotencyTTL, log)
	engine.POST("/webhooks", webhookHandler.Receive)

	// Setup API routes using router
	r := router.NewRouter(engine)
	if jwtMiddleware != nil {
		r.Use(jwtMiddleware)
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(ctx, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		r.Use(middleware.RateLimitByKey(limiter, middleware.RateLimitKey))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	productHandler := handler.NewProductHandler(productService, viewService)
	for _, group := range router.APIGroups(router.Handlers{
		Product:   productHandler,
		Export:    handler.NewExportHandler(productHandler, exportService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Store:     handler.NewStoreHandler(productService, snapshots),
		View:      handler.NewViewHandler(viewService),
		System:    systemHandler,
	}, log) {
		r.Register(group)
	}
	r.Setup()

	// Embedded frontend
	if cfg.App.StaticPath != "" {
		spa := handler.NewSPAHandler(cfg.App.StaticPath, cfg.Shopify.APIKey)
		engine.NoRoute(spa.Serve)
		log.Info("Serving frontend", zap.String("path", cfg.App.StaticPath))
	}

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	stop()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := warmer.Stop(shutdownCtx); err != nil {
		log.Warn("Snapshot warmer did not stop in time", zap.Error(err))
	}
	if err := cacheStack.Close(); err != nil {
		log.Warn("Error closing caches", zap.Error(err))
	}
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error flushing metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error flushing traces", zap.Error(err))
	}
	if logProvider != nil {
		_ = logProvider.Shutdown(shutdownCtx)
	}

	log.Info("Server exited gracefully")
	os.Exit(0)
}

// healthChecks probes the optional dependencies
func healthChecks(db *persistence.Database, stack *cache.Stack) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{}
	if db != nil {
		checks["database"] = func(context.Context) error { return db.Ping() }
	}
	if stack.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return stack.Redis.Ping(ctx).Err() }
	}
	return checks
}
