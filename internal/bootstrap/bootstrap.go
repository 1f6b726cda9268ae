package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/summary-service/internal/config"
	"github.com/kirillkom/summary-service/internal/core/ports"
	"github.com/kirillkom/summary-service/internal/core/usecase"
	"github.com/kirillkom/summary-service/internal/infrastructure/cache/valkeycache"
	"github.com/kirillkom/summary-service/internal/infrastructure/dataset"
	"github.com/kirillkom/summary-service/internal/infrastructure/extractor/filetext"
	"github.com/kirillkom/summary-service/internal/infrastructure/queue/nats"
	"github.com/kirillkom/summary-service/internal/infrastructure/repository/sqlstore"
	"github.com/kirillkom/summary-service/internal/infrastructure/resilience"
	"github.com/kirillkom/summary-service/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/summary-service/internal/observability/metrics"
)

const apiService = "summary-api"

type App struct {
	Config config.Config

	Repo ports.SummaryRepository
	// Events is nil when NATS_URL is unset.
	Events ports.EventSubscriber

	IngestUC ports.SummaryIngestor
	RateUC   ports.SummaryRater
	QueryUC  ports.SummaryReader

	HTTPMetrics *metrics.HTTPServerMetrics

	closers []func()
}

func New(ctx context.Context, cfg config.Config) (_ *App, err error) {
	app := &App{Config: cfg, HTTPMetrics: metrics.NewHTTPServerMetrics(apiService)}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, func() { _ = db.Close() })
	repo := sqlstore.NewSummaryRepository(db, cfg.DBDriver)
	app.Repo = repo

	storage, err := localfs.New(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	var events ports.EventPublisher
	if cfg.NATSURL != "" {
		bus, err := nats.Connect(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			Executor: resilience.NewExecutor(resilience.DefaultPolicy()),
		})
		if err != nil {
			return nil, fmt.Errorf("init message bus: %w", err)
		}
		app.closers = append(app.closers, bus.Close)
		events = bus
		app.Events = bus
	}

	var cache ports.SummaryCache
	if cfg.ValkeyAddr != "" {
		vc, err := valkeycache.New(ctx, cfg.ValkeyAddr, cfg.ValkeyPassword, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		if err != nil {
			return nil, fmt.Errorf("init summary cache: %w", err)
		}
		app.closers = append(app.closers, vc.Close)
		cache = &instrumentedCache{next: vc, metrics: app.HTTPMetrics, service: apiService}
	}

	app.IngestUC = usecase.NewIngestSummaryUseCase(repo, storage, filetext.NewExtractor(), events)
	app.RateUC = usecase.NewRateSummaryUseCase(repo, events)
	app.QueryUC = usecase.NewSummaryQueryUseCase(repo, cache)

	slog.Info("app_initialized",
		"db_driver", cfg.DBDriver,
		"events_enabled", events != nil,
		"cache_enabled", cache != nil,
	)
	return app, nil
}

func openStore(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sqlstore.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlstore.EnsureSchema(ctx, db, cfg.DBDriver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// FeedbackUseCase builds the worker-side consumer of rating events.
func (a *App) FeedbackUseCase() (*usecase.FeedbackUseCase, error) {
	feedbackLog, err := dataset.NewFeedbackLog(a.Config.FeedbackPath)
	if err != nil {
		return nil, fmt.Errorf("init feedback log: %w", err)
	}
	return usecase.NewFeedbackUseCase(a.Repo, feedbackLog), nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
