package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/infrastructure/config"
	"github.com/ecommerce/backend/internal/infrastructure/logger"
	"github.com/ecommerce/backend/internal/infrastructure/persistence"
	"github.com/ecommerce/backend/internal/infrastructure/remote"
	"github.com/ecommerce/backend/internal/infrastructure/telemetry"
	"github.com/ecommerce/backend/internal/interfaces/http/handler"
	"github.com/ecommerce/backend/internal/interfaces/http/middleware"
	"github.com/ecommerce/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()
	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Service,
	}
	bootLog := logger.New(logCfg)

	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		Level:             logger.ParseLevel(cfg.Log.Level),
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log export", zap.Error(err))
	}

	log := logger.New(logCfg, logProvider.Core())
	zap.ReplaceGlobals(log)
	defer func() {
		_ = log.Sync()
	}()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Service stopped with error", zap.Error(err))
	}

	if err := logProvider.Shutdown(context.Background()); err != nil {
		bootLog.Error("Error shutting down log export", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	service := cfg.App.Service
	log.Info("Starting service",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("context_path", cfg.App.ContextPath()),
		zap.String("database", cfg.Database.Driver),
	)

	// prices and fees are JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServerURL,
		ApplicationName: service,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		SpanProfiles:      profiler.IsEnabled(),
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	var meter metric.Meter
	if mp.IsEnabled() {
		meter = mp.Meter(telemetry.TracerName)
	}

	db, dbMetrics, err := openDatabase(cfg, log, meter)
	if err != nil {
		return err
	}
	var pinger handler.Pinger
	if db != nil {
		pinger = db
		defer func() {
			if err := dbMetrics.Stop(); err != nil {
				log.Warn("Error stopping database metrics", zap.Error(err))
			}
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
	}

	locator, registrar, closeRedis, err := newLocator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRedis()

	var lookupMetrics *telemetry.RemoteLookupMetrics
	if meter != nil {
		if lookupMetrics, err = telemetry.NewRemoteLookupMetrics(meter); err != nil {
			return err
		}
	}
	resolver := remote.NewResolver(locator, remote.Config{
		Timeout:        cfg.Remote.Timeout,
		MaxConcurrency: cfg.Remote.MaxConcurrency,
	}, remote.WithMetrics(lookupMetrics), remote.WithResolverLogger(log.Named("remote")))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return err
	}
	middleware.SetupValidator()

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{ServiceName: service, Enabled: tp.IsEnabled()}),
		middleware.SpanAttributes(service),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		middleware.CORS(corsConfig(cfg.HTTP)),
		middleware.HTTPMetrics(mp, service),
		middleware.Profiling(service, profiler.IsEnabled()),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(limiterCtx, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	health := handler.NewHealthHandler(service, pinger)
	r := router.NewRouter(engine,
		router.WithContextPath(cfg.App.ContextPath()),
		router.WithRoot(health.Root),
	)
	err = mountService(r, service, db, resolver,
		enrichment.WithConcurrency(cfg.Remote.MaxConcurrency),
		enrichment.WithLogger(log.Named("enrichment")),
	)
	if err != nil {
		return err
	}
	r.Register("/actuator", router.NewDomainGroup("actuator").GET("/health", health.Health))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if registrar != nil {
		if err := registrar.Register(ctx); err != nil {
			log.Warn("Service registration failed, siblings fall back to static addresses", zap.Error(err))
		}
	}

	quit, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-quit.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if registrar != nil {
		if err := registrar.Stop(shutdownCtx); err != nil {
			log.Warn("Service deregistration failed", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("Server exited gracefully")
	return nil
}

// openDatabase connects the configured SQL database, or returns nil for
// in-memory storage.
func openDatabase(cfg *config.Config, log *zap.Logger, meter metric.Meter) (*persistence.Database, *telemetry.DBMetrics, error) {
	if cfg.Database.Driver == "memory" {
		log.Info("Using in-memory storage")
		return nil, nil, nil
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return nil, nil, err
	}

	// sqlite has no migration files
	if cfg.Database.AutoMigrate || cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(persistence.Models(cfg.App.Service)...); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	dbMetrics, err := telemetry.InstrumentDB(db.DB, telemetry.DBConfig{
		Tracing:            cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:         cfg.Telemetry.DBLogFullSQL,
		DBSystem:           dbSystem,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, meter, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))
	return db, dbMetrics, nil
}

// newLocator builds service location: redis discovery first when enabled,
// then the static map. The registrar is nil in static mode.
func newLocator(ctx context.Context, cfg *config.Config, log *zap.Logger) (remote.Locator, *remote.Registrar, func(), error) {
	static := remote.NewStaticLocator(cfg.Remote.Services)
	if cfg.Discovery.Mode != "redis" {
		return static, nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	closeClient := func() {
		if err := client.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unreachable, discovery falls back to static addresses", zap.Error(err))
	}

	registrar, err := remote.NewRegistrar(client, remote.RegistrarConfig{
		Service:      cfg.App.Service,
		AdvertiseURL: cfg.Discovery.AdvertiseURL,
		TTL:          cfg.Discovery.TTL,
		Heartbeat:    cfg.Discovery.Heartbeat,
	}, log.Named("discovery"))
	if err != nil {
		closeClient()
		return nil, nil, nil, err
	}

	locator := remote.NewChainLocator(log.Named("discovery"), remote.NewRedisLocator(client), static)
	return locator, registrar, closeClient, nil
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSAllowOrigins
	}
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
