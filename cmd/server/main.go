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
	catalogapp "github.com/purchase-invoice/backend/internal/application/catalog"
	identityapp "github.com/purchase-invoice/backend/internal/application/identity"
	invoiceapp "github.com/purchase-invoice/backend/internal/application/invoice"
	notificationapp "github.com/purchase-invoice/backend/internal/application/notification"
	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/purchase-invoice/backend/internal/infrastructure/auth"
	"github.com/purchase-invoice/backend/internal/infrastructure/cache"
	"github.com/purchase-invoice/backend/internal/infrastructure/config"
	"github.com/purchase-invoice/backend/internal/infrastructure/event"
	"github.com/purchase-invoice/backend/internal/infrastructure/lock"
	"github.com/purchase-invoice/backend/internal/infrastructure/logger"
	"github.com/purchase-invoice/backend/internal/infrastructure/persistence"
	"github.com/purchase-invoice/backend/internal/infrastructure/storage"
	"github.com/purchase-invoice/backend/internal/infrastructure/telemetry"
	"github.com/purchase-invoice/backend/internal/infrastructure/webhook"
	"github.com/purchase-invoice/backend/internal/interfaces/http/handler"
	"github.com/purchase-invoice/backend/internal/interfaces/http/middleware"
	"github.com/purchase-invoice/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/purchase-invoice/backend/docs"
)

//	@title			Purchase Invoice API
//	@version		1.0
//	@description	Purchase invoice approval and notification backend

//	@contact.name	API Support

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Bootstrap logger so telemetry setup can log; replaced below once
	// the OTLP log core is known
	bootLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, loggerProvider.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting purchase invoice backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("approval_limit", cfg.Invoice.ApprovalLimit.String()),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles unavailable", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbSystem := "postgresql"
	if cfg.Database.Driver == persistence.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(cfg.Telemetry, log, telemetry.WithDBSystem(dbSystem)).Register(db.DB); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	log.Info("Database connected successfully", zap.String("driver", dbSystem))

	var redisClient *redis.Client
	if cfg.Cache.Backend == cache.BackendRedis || cfg.Invoice.OwnerLock == lock.BackendRedis {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
		} else {
			defer func() { _ = redisClient.Close() }()
		}
	}

	invoiceMetrics, err := telemetry.NewInvoiceMetrics(meterProvider.Meter("purchase-invoice/invoice"))
	if err != nil {
		log.Fatal("Failed to create invoice metrics", zap.Error(err))
	}

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Notifications
	dispatcherOpts := []notificationapp.DispatcherOption{
		notificationapp.WithDeliveryTimeout(cfg.Notification.WebhookTimeout),
		notificationapp.WithDispatcherMetrics(invoiceMetrics),
		notificationapp.WithDispatcherLogger(log.Named("dispatcher")),
	}
	if cfg.Notification.ArchiveBucket != "" {
		archive, err := storage.NewS3Archive(ctx, cfg.Notification, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize notification archive", zap.Error(err))
		}
		dispatcherOpts = append(dispatcherOpts, notificationapp.WithArchiver(archive))
	}
	dispatcher := notificationapp.NewDispatcher(
		notificationRepo,
		webhook.NewClient(cfg.Notification.WebhookTimeout),
		cfg.Notification.WebhookURLs,
		dispatcherOpts...,
	)

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(notificationapp.NewInvoiceEventHandler(dispatcher, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	invoiceOpts := []invoiceapp.Option{
		invoiceapp.WithEventPublisher(eventBus),
		invoiceapp.WithMetrics(invoiceMetrics),
		invoiceapp.WithLogger(log.Named("invoice")),
	}
	if cfg.Invoice.OwnerLock == lock.BackendRedis {
		if redisClient != nil {
			invoiceOpts = append(invoiceOpts, invoiceapp.WithOwnerLocker(
				lock.NewRedisLocker(redisClient, cfg.Invoice.OwnerLockTTL, lock.WithLogger(log)),
			))
		} else {
			log.Warn("Redis owner lock requested without Redis, using in-process lock")
		}
	}
	invoiceService := invoiceapp.NewService(
		persistence.NewGormTransactionScope(db.DB),
		invoiceRepo,
		invoice.NewApprovalPolicy(cfg.Invoice.ApprovalLimit),
		invoiceOpts...,
	)

	productCache := cache.NewStore(cfg.Cache, redisClient, log)
	defer func() { _ = productCache.Close() }()
	productService := catalogapp.NewProductService(productRepo,
		catalogapp.WithCache(productCache, cfg.Cache.ProductTTL),
		catalogapp.WithProductLogger(log),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	notificationService := notificationapp.NewService(notificationRepo, log)

	middleware.SetupValidator()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	// Global middleware: order matters
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Logger:        log,
	}))

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Close()
		engine.Use(middleware.RateLimit(rateLimiter))
	}
	var authLimiter *middleware.RateLimiter
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Close()
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log

	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = profiler.IsEnabled()

	router.Mount(engine, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Invoice:      handler.NewInvoiceHandler(invoiceService),
		Product:      handler.NewProductHandler(productService),
		Notification: handler.NewNotificationHandler(notificationService),
		Health:       handler.NewHealthHandler(db),
	}, router.Options{
		APIMiddleware: []gin.HandlerFunc{
			middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
			middleware.TracingAttributeInjector(),
			middleware.Profiling(profilingConfig),
		},
		AuthRateLimiter: authLimiter,
		Swagger:         cfg.Swagger,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Stop accepting events, then let in-flight webhook deliveries finish
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn("Webhook deliveries did not drain", zap.Error(err))
	}

	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
