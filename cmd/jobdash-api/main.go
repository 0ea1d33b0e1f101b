package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"jobdash/internal/analytics"
	"jobdash/internal/api"
	"jobdash/internal/config"
	"jobdash/internal/dataset"
	"jobdash/internal/metrics"
	"jobdash/internal/metrics/datadog"
	"jobdash/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return zap.NewProduction()
}

func newRowSource(store *dataset.Store) analytics.RowSource {
	return store
}

func registerServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

func registerTelemetry(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) {
	if !cfg.TracesEnabled {
		return
	}

	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			fn, err := telemetry.InitTracer(ctx, "jobdash-api", cfg.OTLPEndpoint)
			if err != nil {
				return err
			}
			shutdown = fn
			logger.Info("tracing enabled", zap.String("collector", cfg.OTLPEndpoint))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

func registerMetrics(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) error {
	if cfg.MetricsBackend != "datadog" {
		return nil
	}

	backend, err := datadog.NewBackend(context.Background(), datadog.Options{
		JobName:    "jobdash",
		Tags:       datadog.ParseTagsCSV(cfg.MetricsTags),
		FlushEvery: cfg.MetricsFlushEvery,
	})
	if err != nil {
		return err
	}
	metrics.SetBackend(backend)
	logger.Info("datadog metrics enabled")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			metrics.SetBackend(nil)
			return backend.Close()
		},
	})
	return nil
}

func main() {
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			dataset.NewStore,
			newRowSource,
			analytics.NewService,
			api.NewHandler,
			api.NewRouter,
		),
		fx.Invoke(
			registerTelemetry,
			registerMetrics,
			registerServer,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
}
