package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/summary-service/internal/bootstrap"
	"github.com/kirillkom/summary-service/internal/config"
	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/observability/logging"
	"github.com/kirillkom/summary-service/internal/observability/metrics"
)

const serviceName = "summary-worker"

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(serviceName, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.NATSURL == "" {
		logger.Error("worker_requires_nats", "env", "NATS_URL")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	feedback, err := app.FeedbackUseCase()
	if err != nil {
		logger.Error("feedback_init_failed", "error", err)
		os.Exit(1)
	}

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribing", "subject", cfg.NATSSubject, "feedback_path", cfg.FeedbackPath)
	err = app.Events.SubscribeSummaryEvents(ctx, func(handlerCtx context.Context, event domain.SummaryEvent) error {
		eventCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		started := time.Now()
		workerMetrics.StartEvent()
		workerMetrics.ObserveEventLag(serviceName, started.Sub(event.OccurredAt))
		err := feedback.HandleEvent(eventCtx, event)
		workerMetrics.FinishEvent(serviceName, string(event.Type), time.Since(started), err)
		return err
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
