// Package app wires configuration, storage, messaging, and the scheduling
// pipeline into a ready-to-use dependency container.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/flowgenius/scheduler/internal/scheduling/application/commands"
	"github.com/flowgenius/scheduler/internal/scheduling/application/pipeline"
	"github.com/flowgenius/scheduler/internal/scheduling/application/queries"
	"github.com/flowgenius/scheduler/internal/scheduling/application/services"
	"github.com/flowgenius/scheduler/internal/scheduling/application/subscribers"
	"github.com/flowgenius/scheduler/internal/scheduling/domain"
	"github.com/flowgenius/scheduler/internal/scheduling/infrastructure/cache"
	"github.com/flowgenius/scheduler/internal/scheduling/infrastructure/classifier"
	"github.com/flowgenius/scheduler/internal/scheduling/infrastructure/persistence"
	"github.com/flowgenius/scheduler/internal/shared/infrastructure/database/postgres"
	"github.com/flowgenius/scheduler/internal/shared/infrastructure/database/sqlite"
	"github.com/flowgenius/scheduler/internal/shared/infrastructure/eventbus"
	"github.com/flowgenius/scheduler/internal/shared/infrastructure/migrations"
	"github.com/flowgenius/scheduler/pkg/config"
	"github.com/flowgenius/scheduler/pkg/observability"
)

const classificationCacheTTL = 24 * time.Hour

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics

	// Storage. Exactly one of SQLiteDB / PostgresPool is set.
	SQLiteDB     *sql.DB
	PostgresPool *pgxpool.Pool

	RedisClient *redis.Client

	EventRepo      domain.EventRepository
	EventPublisher eventbus.Publisher

	Classifier   services.Classifier
	Orchestrator *pipeline.Orchestrator

	SuggestSlotsHandler *commands.SuggestSlotsHandler
	AddEventHandler     *commands.AddEventHandler
	ListEventsHandler   *queries.ListEventsHandler

	Health *observability.HealthRegistry
}

// NewContainer builds the full dependency graph. PostgreSQL is used when
// DATABASE_URL is set, SQLite otherwise. Redis, RabbitMQ, and the remote
// classifier are each optional and degrade to local equivalents.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	if err := c.initStorage(ctx, cfg); err != nil {
		return nil, err
	}
	c.initEventBus(cfg)
	c.initRedis(cfg)
	c.initClassifier(cfg)

	defaults, err := preferencesFromConfig(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Orchestrator = pipeline.NewOrchestrator(c.Classifier, services.NewSlotGenerator(), logger)

	c.SuggestSlotsHandler = commands.NewSuggestSlotsHandler(
		c.EventRepo, c.Orchestrator, c.EventPublisher, defaults, logger, c.Metrics)
	c.AddEventHandler = commands.NewAddEventHandler(c.EventRepo, c.EventPublisher, logger, c.Metrics)
	c.ListEventsHandler = queries.NewListEventsHandler(c.EventRepo)

	return c, nil
}

func (c *Container) initStorage(ctx context.Context, cfg *config.Config) error {
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Open(ctx, cfg.DatabaseURL, 0)
		if err != nil {
			return fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("run migrations: %w", err)
		}
		c.PostgresPool = pool
		c.EventRepo = persistence.NewPostgresEventRepository(pool)
		c.Health.Register("database", observability.DatabaseHealthChecker(func(ctx context.Context) error {
			return pool.Ping(ctx)
		}))
		c.Logger.Debug("event store ready", "driver", "postgres")
		return nil
	}

	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open SQLite database: %w", err)
	}
	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("run migrations: %w", err)
	}
	c.SQLiteDB = db
	c.EventRepo = persistence.NewSQLiteEventRepository(db)
	c.Health.Register("database", observability.DatabaseHealthChecker(func(ctx context.Context) error {
		return db.PingContext(ctx)
	}))
	c.Logger.Debug("event store ready", "driver", "sqlite")
	return nil
}

func (c *Container) initEventBus(cfg *config.Config) {
	if cfg.RabbitMQURL == "" {
		bus := eventbus.NewInProcessEventBus(c.Logger)
		bus.RegisterConsumer(subscribers.NewActivityLogSubscriber(c.Logger))
		c.EventPublisher = bus
		return
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
	if err != nil {
		// Events are advisory; a missing broker must not block scheduling.
		c.Logger.Warn("rabbitmq unavailable, falling back to in-process bus", "error", err)
		bus := eventbus.NewInProcessEventBus(c.Logger)
		bus.RegisterConsumer(subscribers.NewActivityLogSubscriber(c.Logger))
		c.EventPublisher = bus
		return
	}
	c.EventPublisher = publisher
	c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(func(ctx context.Context) error {
		return publisher.Ping(ctx)
	}))
}

func (c *Container) initRedis(cfg *config.Config) {
	if cfg.RedisURL == "" {
		return
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid REDIS_URL, classification cache disabled", "error", err)
		return
	}
	c.RedisClient = redis.NewClient(opts)
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return c.RedisClient.Ping(ctx).Err()
	}))
}

func (c *Container) initClassifier(cfg *config.Config) {
	local := services.NewLocalClassifier()
	c.Classifier = local

	if cfg.RemoteClassifierEnabled() {
		opts := []classifier.Option{classifier.WithTimeout(cfg.OpenAITimeout)}
		if cfg.OpenAIModel != "" {
			opts = append(opts, classifier.WithModel(cfg.OpenAIModel))
		}
		remote := classifier.NewOpenAIClassifier(cfg.OpenAIAPIKey, opts...)
		c.Classifier = classifier.NewFallbackClassifier(remote, local, classifier.DefaultBreakerConfig(), c.Logger)
	}

	if c.RedisClient != nil {
		c.Classifier = cache.NewClassificationCache(c.Classifier, c.RedisClient, classificationCacheTTL, c.Logger, c.Metrics)
	}
}

// preferencesFromConfig overlays the configured defaults onto the built-in
// scheduling preferences.
func preferencesFromConfig(cfg *config.Config) (domain.SchedulingPreferences, error) {
	startMin, err := parseClock(cfg.BusinessHoursStart)
	if err != nil {
		return domain.SchedulingPreferences{}, fmt.Errorf("invalid FLOWGENIUS_BUSINESS_START: %w", err)
	}
	endMin, err := parseClock(cfg.BusinessHoursEnd)
	if err != nil {
		return domain.SchedulingPreferences{}, fmt.Errorf("invalid FLOWGENIUS_BUSINESS_END: %w", err)
	}

	override := &domain.PreferenceOverride{
		BusinessStartMinute:  &startMin,
		BusinessEndMinute:    &endMin,
		BusinessDuration:     &cfg.BusinessDurationMin,
		HobbyDuration:        &cfg.HobbyDurationMin,
		BufferMinutes:        &cfg.BufferMinutes,
		MaxSuggestionsPerDay: &cfg.MaxSuggestionsPerDay,
	}
	return domain.Merge(domain.DefaultPreferences(), override), nil
}

// parseClock converts an HH:MM string to minutes from midnight.
func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Close releases all held resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
	if c.PostgresPool != nil {
		c.PostgresPool.Close()
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("failed to close database", "error", err)
		}
	}
}
