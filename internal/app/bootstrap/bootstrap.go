package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	relationshipservice "rookery/contexts/social-graph/relationship-service"
	relationshippostgres "rookery/contexts/social-graph/relationship-service/adapters/postgres"
	relationshipworkers "rookery/contexts/social-graph/relationship-service/application/workers"
	votingengine "rookery/contexts/social-graph/voting-engine"
	votingpostgres "rookery/contexts/social-graph/voting-engine/adapters/postgres"
	"rookery/internal/platform/config"
	"rookery/internal/platform/db"
	"rookery/internal/platform/httpserver"
	"rookery/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	bus          *messaging.NATS
	outboxRelay  relationshipworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	relationshipRepo := relationshippostgres.NewRepository(pg.DB, logger)
	relationshipModule := relationshipservice.NewModule(relationshipservice.Dependencies{
		Relationships: relationshipRepo,
		Notifications: relationshipRepo,
		Outbox:        relationshipRepo,
		Clock:         relationshippostgres.SystemClock{},
		IDGen:         relationshippostgres.UUIDGenerator{},
		Logger:        logger,
	})

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)
	votingModule := votingengine.NewModule(votingengine.Dependencies{
		Votes:  votingRepo,
		Clock:  votingpostgres.SystemClock{},
		IDGen:  votingpostgres.UUIDGenerator{},
		Logger: logger,
	})

	server := httpserver.New(relationshipModule, votingModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewNATS(cfg.NATSServers, cfg.ServiceName+"-worker", logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	relationshipRepo := relationshippostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		outboxRelay: relationshipworkers.OutboxRelay{
			Outbox:    relationshipRepo,
			Publisher: bus,
			Clock:     relationshippostgres.SystemClock{},
			BatchSize: cfg.OutboxRelayBatchSize,
			Logger:    logger,
		},
		pollInterval: cfg.OutboxRelayInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	var errs []error
	if w.bus != nil {
		errs = append(errs, w.bus.Close())
	}
	if w.postgres != nil {
		errs = append(errs, w.postgres.Close())
	}
	return errors.Join(errs...)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
