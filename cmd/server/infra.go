package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"locreg/internal/admin"
	jwttoken "locreg/internal/jwt_token"
	"locreg/internal/loc/service"
	collectionstore "locreg/internal/loc/store/collection"
	locstore "locreg/internal/loc/store/loc"
	"locreg/internal/platform/chain"
	"locreg/internal/platform/config"
	"locreg/internal/platform/database"
	"locreg/internal/platform/health"
	"locreg/internal/platform/kafka/producer"
	"locreg/internal/platform/redis"
	ratelimitmw "locreg/internal/ratelimit/middleware"
	ratelimit "locreg/internal/ratelimit/models"
	"locreg/internal/ratelimit/store/bucket"
	"locreg/migrations"
	"locreg/pkg/platform/circuit"
	"locreg/pkg/platform/outbox"
	"locreg/pkg/platform/outbox/publishers"
	outboxmemory "locreg/pkg/platform/outbox/store/memory"
	outboxpg "locreg/pkg/platform/outbox/store/postgres"
	"locreg/pkg/platform/outbox/worker"
)

// infra holds the optional backing services. A nil field means the server
// runs without that dependency.
type infra struct {
	db       *database.Pool
	redis    *redis.Client
	producer *producer.Producer

	// publisher is set when the configured clock accepts operator heights.
	publisher admin.BlockPublisher
}

type locStore interface {
	service.LocStore
	admin.LocCounter
}

// storeSet bundles the LOC stores with the outbox they commit events to.
type storeSet struct {
	locs        locStore
	collections service.CollectionStore
	outbox      outbox.Store
}

func openInfra(ctx context.Context, cfg config.Server, reg prometheus.Registerer, log *slog.Logger) (*infra, error) {
	in := &infra{}

	if cfg.DatabaseURL != "" {
		version, err := database.Migrate(cfg.DatabaseURL, migrations.FS)
		if err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info("database migrated", "version", version)

		pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := pool.RegisterMetrics(reg, "locreg"); err != nil {
			pool.Close() //nolint:errcheck // best-effort cleanup on init failure
			return nil, fmt.Errorf("register database metrics: %w", err)
		}
		in.db = pool
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	client, err := redis.New(ctx, cfg.Redis, redis.NewPoolMetrics(reg))
	if err != nil {
		in.close(log)
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	in.redis = client

	if cfg.Kafka.Brokers != "" {
		p, err := producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Acks:            cfg.Kafka.Acks,
			Retries:         cfg.Kafka.Retries,
			DeliveryTimeout: 30 * time.Second,
		}, log)
		if err != nil {
			in.close(log)
			return nil, fmt.Errorf("create kafka producer: %w", err)
		}
		in.producer = p

		topicCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = p.EnsureTopic(topicCtx, cfg.Kafka.Topic, int32(cfg.Kafka.Partitions), int16(cfg.Kafka.ReplicationFactor))
		cancel()
		if err != nil {
			log.Warn("kafka topic not provisioned, relying on auto-creation", "topic", cfg.Kafka.Topic, "error", err)
		}
	}

	return in, nil
}

func (in *infra) registerHealthChecks(h *health.Handler) {
	if in.db != nil {
		h.RegisterCheck("database", in.db.Health)
	}
	if in.redis != nil {
		h.RegisterCheck("redis", in.redis.Health)
	}
	if in.producer != nil {
		h.RegisterCheck("kafka", in.producer.Health)
	}
}

func (in *infra) stores() storeSet {
	if in.db != nil {
		return storeSet{
			locs:        locstore.NewPostgres(in.db.DB()),
			collections: collectionstore.NewPostgres(in.db.DB()),
			outbox:      outboxpg.New(in.db.DB()),
		}
	}
	return storeSet{
		locs:        locstore.NewInMemory(),
		collections: collectionstore.NewInMemory(),
		outbox:      outboxmemory.New(),
	}
}

// blockClock picks the height source. The Redis clock falls back to the
// interval clock while its breaker is open.
func (in *infra) blockClock(cfg config.Server, log *slog.Logger) chain.Clock {
	switch cfg.Chain.Source {
	case config.ChainSourceRedis:
		primary := chain.NewRedisClock(in.redis, cfg.Chain.RedisKey)
		in.publisher = primary
		return chain.NewBreakerClock(
			primary,
			chain.NewIntervalClock(cfg.Chain.Genesis, time.Now(), cfg.Chain.Interval),
			circuit.New("chain-clock"),
			log,
		)
	case config.ChainSourceManual:
		manual := chain.NewManualClock(cfg.Chain.Genesis)
		in.publisher = manual
		return manual
	default:
		return chain.NewIntervalClock(cfg.Chain.Genesis, time.Now(), cfg.Chain.Interval)
	}
}

// outboxPublisher fans out to every configured broker and always logs.
func (in *infra) outboxPublisher(cfg config.Server, log *slog.Logger) (worker.Publisher, func(), error) {
	targets := publishers.Fanout{publishers.NewLog(log)}
	closeFn := func() {}

	if in.producer != nil {
		targets = append(targets, publishers.NewKafka(in.producer, cfg.Kafka.Topic))
	}
	if cfg.NATS.URL != "" {
		js, drain, err := publishers.ConnectJetStream(cfg.NATS.URL, cfg.NATS.Stream, cfg.NATS.Subject)
		if err != nil {
			return nil, nil, err
		}
		targets = append(targets, publishers.NewNATS(js, cfg.NATS.Subject))
		closeFn = drain
	}
	return targets, closeFn, nil
}

type revocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

func (in *infra) revocationList() revocationList {
	if in.redis != nil {
		return jwttoken.NewRedisRevocationList(in.redis)
	}
	return jwttoken.NewInMemoryRevocationList()
}

// rateLimiter shares counters through Redis when it is configured.
func (in *infra) rateLimiter(cfg config.RateLimitConfig, reg prometheus.Registerer, log *slog.Logger) *ratelimitmw.Middleware {
	if !cfg.Enabled {
		return nil
	}
	limits := ratelimit.Limits{
		ratelimit.ClassRead:  {Requests: cfg.ReadRequests, Window: cfg.Window},
		ratelimit.ClassWrite: {Requests: cfg.WriteRequests, Window: cfg.Window},
	}
	var store ratelimitmw.BucketStore = bucket.NewMemory(0)
	if in.redis != nil {
		store = bucket.NewRedis(in.redis)
	}
	return ratelimitmw.New(store, limits, log, ratelimitmw.NewMetricsWithRegisterer(reg))
}

func (in *infra) close(log *slog.Logger) {
	if in.producer != nil {
		if err := in.producer.Close(); err != nil {
			log.Error("failed to close kafka producer", "error", err)
		}
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			log.Error("failed to close redis", "error", err)
		}
	}
	if in.db != nil {
		if err := in.db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}
}
