package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/bootstrap"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/cache"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/config"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/logger"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/scheduler"
	"github.com/benossaliha2/cloud-printer/internal/infrastructure/telemetry"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/dto"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/handler"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/middleware"
	"github.com/benossaliha2/cloud-printer/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const telemetryFlushTimeout = 5 * time.Second

//	@title			Cloud Printer API
//	@version		1.0
//	@description	Renders receipts and HTML documents to PDF and delivers receipts to local printers through SumatraPDF

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:3000
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry providers are no-ops unless telemetry.enabled is set
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	log := telemetry.BridgeLogger(baseLog, loggerProvider, level)
	defer func() {
		_ = logger.Sync(log)
	}()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}

	log.Info("Starting print server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("printing_enabled", cfg.Printing.Enabled),
	)

	// Prometheus registry for /metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipeline, err := bootstrap.NewPipeline(ctx, cfg, registry, log)
	if err != nil {
		log.Fatal("Failed to initialize print pipeline", zap.Error(err))
	}
	printService := pipeline.Service
	printService.LogReadiness(ctx)

	sweeper := scheduler.NewSweeper(scheduler.SweeperConfig{
		Interval: cfg.Printing.SweepInterval,
		MaxAge:   cfg.Printing.StaleFileAge,
	}, pipeline.Scratch, log.Named("sweeper"))
	if err := sweeper.Start(ctx); err != nil {
		log.Fatal("Failed to start scratch sweeper", zap.Error(err))
	}

	idempotencyStore := cache.NewIdempotencyStore(ctx, cache.RedisConfig{
		Addr:     cfg.Idempotency.RedisAddr,
		Password: cfg.Idempotency.RedisPassword,
		DB:       cfg.Idempotency.RedisDB,
	}, log)

	// Initialize Gin engine
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins

	tracingCfg := middleware.DefaultTracingConfig()
	if cfg.Telemetry.ServiceName != "" {
		tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	}
	tracingCfg.Enabled = tracerProvider.IsEnabled()

	// Middleware order: request ID first so every later stage can log it
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(tracingCfg))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.HTTPMetrics(meterProvider))

	// Routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	systemHandler := handler.NewSystemHandler(handler.ServiceInfo{
		Name:            cfg.App.Name,
		Version:         cfg.App.Version,
		PrintingEnabled: printService.PrintingEnabled(),
	}, r.Endpoints)
	printHandler := handler.NewPrintHandler(printService)

	r.RegisterRoot(handler.SystemRoutes(systemHandler)).
		Register(handler.PrintRoutes(printHandler,
			middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL)))
	r.Setup()

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", c.Request.Method+" "+c.Request.URL.Path,
			middleware.GetRequestID(c)))
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := sweeper.Stop(shutdownCtx); err != nil {
		log.Warn("Scratch sweeper did not stop in time", zap.Error(err))
	}
	if err := idempotencyStore.Close(); err != nil {
		log.Warn("Failed to close idempotency store", zap.Error(err))
	}

	// Pending job file deletions run on schedule until the shutdown deadline,
	// then whatever is left is deleted at once
	if pending := pipeline.Scratch.Pending(); pending > 0 {
		log.Info("Waiting for pending job file deletions", zap.Int("count", pending))
		pipeline.Scratch.Flush(shutdownCtx)
	}

	// Telemetry gets its own deadline, independent of the shutdown timeout
	telemetryCtx, cancelTelemetry := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancelTelemetry()
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracerProvider.Shutdown,
		"meter":  meterProvider.Shutdown,
		"logger": loggerProvider.Shutdown,
	} {
		if err := shutdown(telemetryCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully", zap.Duration("shutdown_timeout", cfg.HTTP.ShutdownTimeout))
}
