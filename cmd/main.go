package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2/middleware/compress"
	zapLog "go.uber.org/zap"

	"github.com/rtcchoir/choirdesk/internal/config"
	httpmiddleware "github.com/rtcchoir/choirdesk/internal/delivery/http/middleware"
	"github.com/rtcchoir/choirdesk/internal/exception"
	"github.com/rtcchoir/choirdesk/internal/middleware"
	"github.com/rtcchoir/choirdesk/internal/observability"
	"github.com/rtcchoir/choirdesk/internal/usecase"
)

func main() {
	time.Local = time.UTC
	// Flush zap buffered log first then cancel the context for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fiber := config.NewFiber()
	zap := config.NewZap()
	koanf := config.NewKoanf(zap)
	rds := config.NewRedisClient(koanf, zap)
	postgresql := config.NewPostgresqlPool(koanf, zap)
	minio := config.NewMinIO(koanf, zap)

	var shutdownTracing func(context.Context) error
	if koanf.String("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		var err error
		shutdownTracing, err = observability.Init(context.Background(), config.LoadObservabilityConfig(koanf), zap)
		if err != nil {
			zap.Fatal("failed to initialize tracing", zapLog.Error(err))
		}
	}

	// Custom recovery middleware to handle panics with JSON response
	fiber.Use(exception.Recovery(zap))

	fiber.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	fiber.Use(otelfiber.Middleware())
	fiber.Use(middleware.TraceLoggerMiddleware(zap))
	fiber.Use(httpmiddleware.SetupCORS())
	fiber.Use(httpmiddleware.SetupRateLimiter(zap))
	fiber.Use("/api/members", httpmiddleware.SetupRegistrationRateLimiter(zap))

	reconciler := config.Server(&config.ServerConfig{
		Router:  fiber,
		DB:      postgresql,
		DBCache: rds,
		Log:     zap,
		Config:  koanf,
		MinIO:   minio,
	})

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()

	warmup := koanf.Duration("RECONCILER_WARMUP")
	if warmup <= 0 {
		warmup = usecase.DefaultReconcilerWarmup
	}
	interval := koanf.Duration("RECONCILER_INTERVAL")
	if interval <= 0 {
		interval = usecase.DefaultReconcilerInterval
	}
	go reconciler.Run(sweepCtx, warmup, interval)

	GO_SERVER_PORT := koanf.String("GO_SERVER")

	zap.Info("Server is running on: " + GO_SERVER_PORT)

	var err error
	go func() {
		err = fiber.Listen(GO_SERVER_PORT)
		if err != nil {
			zap.Fatal("error starting server", zapLog.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	zap.Info("got one of stop signals")

	stopSweep()

	err = fiber.ShutdownWithContext(ctx)
	if err != nil {
		zap.Warn("timeout, forced kill!", zapLog.Error(err))
		_ = zap.Sync()
		os.Exit(1)
	}

	if shutdownTracing != nil {
		if err := shutdownTracing(ctx); err != nil {
			zap.Warn("failed to flush traces", zapLog.Error(err))
		}
	}

	postgresql.Close()
	_ = rds.Close()

	zap.Info("server has shut down gracefully")
	_ = zap.Sync()
}
