package commands

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/workshop-financial-engine/internal/api_gateway/service"
	"github.com/workshop-financial-engine/internal/config"
	"github.com/workshop-financial-engine/internal/data/mongo"
	"github.com/workshop-financial-engine/internal/data/postgres"
	"github.com/workshop-financial-engine/internal/data/redis"
	"github.com/workshop-financial-engine/internal/domain/report"
	"github.com/workshop-financial-engine/internal/ledgerstore"
	"github.com/workshop-financial-engine/internal/platform/persistence"
)

// LiveBackend connects to the configured databases on demand
type LiveBackend struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewLiveBackend creates a backend for the given configuration
func NewLiveBackend(cfg *config.Config, logger *slog.Logger) *LiveBackend {
	return &LiveBackend{cfg: cfg, logger: logger}
}

var _ Backend = (*LiveBackend)(nil)

// Migrator returns a migrator bound to the configured database and migrations path
func (b *LiveBackend) Migrator() Migrator {
	return postgresMigrator{url: b.cfg.Postgres.URL, path: b.cfg.Postgres.MigrationsPath}
}

type postgresMigrator struct {
	url  string
	path string
}

func (m postgresMigrator) Up() error {
	return persistence.RunMigrations(m.url, m.path)
}

func (m postgresMigrator) Down(steps int) error {
	return persistence.RollbackMigrations(m.url, m.path, steps)
}

func (m postgresMigrator) Version() (uint, bool, error) {
	return persistence.MigrationVersion(m.url, m.path)
}

// ledger opens Postgres without applying migrations; schema changes go through
// the migrate command.
func (b *LiveBackend) ledger(ctx context.Context) (*ledgerstore.Store, *persistence.PostgresDB, error) {
	registryOpts, err := ledgerstore.RegistryOptions(&b.cfg.Reporting)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid classification rules: %w", err)
	}

	pgCfg := b.cfg.Postgres
	pgCfg.AutoMigrate = false
	db, err := persistence.NewPostgresDB(ctx, b.logger, &pgCfg)
	if err != nil {
		return nil, nil, err
	}

	store := ledgerstore.NewStore(db,
		postgres.NewAccountRepository(b.logger, db),
		postgres.NewJournalRepository(b.logger, db),
		postgres.NewOutboxRepository(b.logger, db),
		b.logger,
		registryOpts...)
	return store, db, nil
}

// Reports opens the ledger and, when enabled and reachable, the snapshot cache
func (b *LiveBackend) Reports(ctx context.Context) (service.ReportService, func(), error) {
	store, db, err := b.ledger(ctx)
	if err != nil {
		return nil, nil, err
	}

	var (
		client *goredis.Client
		cache  report.SnapshotCache
	)
	if b.cfg.Redis.Enabled {
		client, err = persistence.NewRedisClient(ctx, b.logger, &b.cfg.Redis)
		if err != nil {
			b.logger.Warn("Redis unavailable, computing without cache", "error", err)
		} else {
			cache = redis.NewSnapshotCache(b.logger, client, b.cfg.Redis.KeyPrefix, b.cfg.Redis.SnapshotTTL)
		}
	}

	closeFn := func() {
		if client != nil {
			if err := client.Close(); err != nil {
				b.logger.Warn("Failed to close Redis client", "error", err)
			}
		}
		db.Close()
	}

	return service.NewReportService(b.logger, store, cache, b.cfg.Reporting.StrictClassification), closeFn, nil
}

// Analytics opens the ledger and the sales store
func (b *LiveBackend) Analytics(ctx context.Context) (service.AnalyticsService, func(), error) {
	store, db, err := b.ledger(ctx)
	if err != nil {
		return nil, nil, err
	}

	mongoDB, err := persistence.NewMongoDB(ctx, b.logger, &b.cfg.MongoDB)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := mongoDB.Close(context.Background()); err != nil {
			b.logger.Warn("Failed to close MongoDB client", "error", err)
		}
		db.Close()
	}

	sales := mongo.NewSaleRepository(b.logger, mongoDB.Database())
	return service.NewAnalyticsService(b.logger, sales, store, b.cfg.Analytics), closeFn, nil
}
