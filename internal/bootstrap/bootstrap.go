package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/vinbridge/order-intake/internal/config"
	"github.com/vinbridge/order-intake/internal/core/domain"
	"github.com/vinbridge/order-intake/internal/core/ports"
	"github.com/vinbridge/order-intake/internal/core/usecase"
	"github.com/vinbridge/order-intake/internal/infrastructure/calendar"
	"github.com/vinbridge/order-intake/internal/infrastructure/queue/nats"
	"github.com/vinbridge/order-intake/internal/infrastructure/repository/postgres"
	"github.com/vinbridge/order-intake/internal/infrastructure/resilience"
	"github.com/vinbridge/order-intake/internal/infrastructure/sku"
	"github.com/vinbridge/order-intake/internal/infrastructure/translation"
)

type App struct {
	Config config.Config

	Queue       *nats.Queue
	Events      *postgres.EventRepository
	Interpreter ports.OrderInterpreter

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	closures, err := loadClosures(cfg.HolidayFile)
	if err != nil {
		return nil, err
	}

	aliases := postgres.NewAliasRepository(db)
	clients := postgres.NewClientRepository(db)
	products := postgres.NewProductRepository(db)
	matcher := sku.NewMatcher(products)
	translator := translation.New(cfg.TranslationURL, executor)
	holidays := calendar.NewKorean(closures...)

	interpreter := usecase.NewInterpreter(
		aliases,
		clients,
		matcher,
		translator,
		holidays,
		queue,
		domain.ResolveItemsOptions{
			MinScore: cfg.SKUMinScore,
			MinGap:   cfg.SKUMinGap,
			TopN:     cfg.SKUTopN,
		},
	)

	return &App{
		Config:      cfg,
		Queue:       queue,
		Events:      postgres.NewEventRepository(db),
		Interpreter: interpreter,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func loadClosures(path string) ([]time.Time, error) {
	if path == "" {
		return nil, nil
	}
	closures, err := calendar.LoadExtraClosures(path)
	if err != nil {
		return nil, fmt.Errorf("load holiday closures: %w", err)
	}
	return closures, nil
}
