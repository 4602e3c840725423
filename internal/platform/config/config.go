// Package config builds the server configuration from environment variables.
// .env and .env.local are loaded when present; variables already set in the
// process environment take precedence.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"locreg/internal/loc/models"
	id "locreg/pkg/domain"
	platformstrings "locreg/pkg/platform/strings"
)

// Block clock sources.
const (
	ChainSourceInterval = "interval"
	ChainSourceRedis    = "redis"
	ChainSourceManual   = "manual"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	Environment   string
	LogLevel      string
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration
	TxTimeout     time.Duration

	// AdminTokenHash is the bcrypt hash of the X-Admin-Token value. Empty
	// disables the /admin routes.
	AdminTokenHash string
	// TrustedProxies are CIDRs whose X-Forwarded-For header is honoured.
	TrustedProxies []string

	// LegalOfficers may create LOCs. Empty accepts any authenticated caller.
	LegalOfficers []id.AccountID
	Limits        models.Limits

	DatabaseURL   string
	Redis         RedisConfig
	Kafka         KafkaConfig
	NATS          NATSConfig
	Chain         ChainConfig
	Outbox        OutboxConfig
	IdentityCache CacheConfig
	RateLimit     RateLimitConfig

	// SeedDemo loads a small set of demo LOCs at startup. Refused in production.
	SeedDemo bool
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers           string
	Topic             string
	Acks              string
	Retries           int
	Partitions        int
	ReplicationFactor int
}

type NATSConfig struct {
	URL     string
	Stream  string
	Subject string
}

// ChainConfig selects where the current block height comes from.
type ChainConfig struct {
	Source   string
	Genesis  id.BlockNumber
	Interval time.Duration
	RedisKey string
}

type OutboxConfig struct {
	PollInterval    time.Duration
	BatchSize       int
	Retention       time.Duration
	CleanupInterval time.Duration
}

// RateLimitConfig is the per-caller budget for LOC reads and writes.
type RateLimitConfig struct {
	Enabled       bool
	ReadRequests  int
	WriteRequests int
	Window        time.Duration
}

type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// IsProduction reports whether dev-only defaults must be rejected.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

const devSigningKey = "dev-secret-key-change-in-production"

// LoadDotEnv loads .env and .env.local if they exist without overriding
// variables already set in the environment.
func LoadDotEnv() {
	for _, file := range []string{".env", ".env.local"} {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", file, err)
		}
	}
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []string
	env := envReader{errs: &errs}

	cfg := Server{
		Addr:           env.str("LOCREG_ADDR", ":8080"),
		Environment:    env.str("LOCREG_ENV", "development"),
		LogLevel:       env.str("LOCREG_LOG_LEVEL", "info"),
		JWTSigningKey:  env.str("JWT_SIGNING_KEY", devSigningKey),
		JWTIssuer:      env.str("JWT_ISSUER", "locreg"),
		TokenTTL:       env.duration("TOKEN_TTL", 15*time.Minute),
		TxTimeout:      env.duration("LOCREG_TX_TIMEOUT", 5*time.Second),
		DatabaseURL:    env.str("DATABASE_URL", ""),
		AdminTokenHash: env.str("LOCREG_ADMIN_TOKEN_HASH", ""),
		TrustedProxies: platformstrings.SplitList(os.Getenv("LOCREG_TRUSTED_PROXIES")),
		Redis: RedisConfig{
			URL:          env.str("REDIS_URL", ""),
			PoolSize:     env.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: env.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  env.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  env.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: env.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           env.str("KAFKA_BROKERS", ""),
			Topic:             env.str("KAFKA_LOC_TOPIC", "locreg.loc.events"),
			Acks:              env.str("KAFKA_ACKS", "all"),
			Retries:           env.int("KAFKA_RETRIES", 3),
			Partitions:        env.int("KAFKA_LOC_PARTITIONS", 6),
			ReplicationFactor: env.int("KAFKA_REPLICATION_FACTOR", 1),
		},
		NATS: NATSConfig{
			URL:     env.str("NATS_URL", ""),
			Stream:  env.str("NATS_LOC_STREAM", "LOCREG"),
			Subject: env.str("NATS_LOC_SUBJECT", "locreg.loc.events"),
		},
		Chain: ChainConfig{
			Source:   env.str("CHAIN_SOURCE", ChainSourceInterval),
			Genesis:  id.BlockNumber(env.int("CHAIN_GENESIS_BLOCK", 0)), // #nosec G115
			Interval: env.duration("CHAIN_BLOCK_INTERVAL", 6*time.Second),
			RedisKey: env.str("CHAIN_REDIS_KEY", "locreg:chain:current_block"),
		},
		Outbox: OutboxConfig{
			PollInterval:    env.duration("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
			BatchSize:       env.int("OUTBOX_BATCH_SIZE", 100),
			Retention:       env.duration("OUTBOX_RETENTION", 7*24*time.Hour),
			CleanupInterval: env.duration("OUTBOX_CLEANUP_INTERVAL", time.Hour),
		},
		IdentityCache: CacheConfig{
			Size: env.int("IDENTITY_CACHE_SIZE", 10000),
			TTL:  env.duration("IDENTITY_CACHE_TTL", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Enabled:       env.bool("RATE_LIMIT_ENABLED", true),
			ReadRequests:  env.int("RATE_LIMIT_READ_REQUESTS", 300),
			WriteRequests: env.int("RATE_LIMIT_WRITE_REQUESTS", 60),
			Window:        env.duration("RATE_LIMIT_WINDOW", time.Minute),
		},
		SeedDemo: env.bool("LOCREG_SEED_DEMO", false),
	}

	limits := models.DefaultLimits()
	limits.MaxMetadataItemNameSize = env.int("LOC_MAX_METADATA_NAME_SIZE", limits.MaxMetadataItemNameSize)
	limits.MaxMetadataItemValueSize = env.int("LOC_MAX_METADATA_VALUE_SIZE", limits.MaxMetadataItemValueSize)
	limits.MaxFileNatureSize = env.int("LOC_MAX_FILE_NATURE_SIZE", limits.MaxFileNatureSize)
	limits.MaxLinkNatureSize = env.int("LOC_MAX_LINK_NATURE_SIZE", limits.MaxLinkNatureSize)
	limits.MaxCollectionItemDescriptionSize = env.int("LOC_MAX_ITEM_DESCRIPTION_SIZE", limits.MaxCollectionItemDescriptionSize)
	limits.MaxCollectionItemTokenTypeSize = env.int("LOC_MAX_TOKEN_TYPE_SIZE", limits.MaxCollectionItemTokenTypeSize)
	limits.MaxCollectionItemTokenIDSize = env.int("LOC_MAX_TOKEN_ID_SIZE", limits.MaxCollectionItemTokenIDSize)
	cfg.Limits = limits

	officers, err := parseAccounts(os.Getenv("LOCREG_LEGAL_OFFICERS"))
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.LegalOfficers = officers

	if len(errs) > 0 {
		return Server{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (s Server) Validate() error {
	if err := s.Limits.Validate(); err != nil {
		return fmt.Errorf("invalid limits: %w", err)
	}
	switch s.Chain.Source {
	case ChainSourceInterval:
		if s.Chain.Interval <= 0 {
			return fmt.Errorf("CHAIN_BLOCK_INTERVAL must be positive")
		}
	case ChainSourceRedis:
		if s.Redis.URL == "" {
			return fmt.Errorf("CHAIN_SOURCE=redis requires REDIS_URL")
		}
	case ChainSourceManual:
	default:
		return fmt.Errorf("unknown CHAIN_SOURCE %q", s.Chain.Source)
	}
	if s.Kafka.Brokers != "" && (s.Kafka.Partitions < 1 || s.Kafka.ReplicationFactor < 1 || s.Kafka.Partitions > math.MaxInt32 || s.Kafka.ReplicationFactor > math.MaxInt16) {
		return fmt.Errorf("KAFKA_LOC_PARTITIONS and KAFKA_REPLICATION_FACTOR must be positive")
	}
	if s.Outbox.BatchSize <= 0 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive")
	}
	if s.RateLimit.Enabled && (s.RateLimit.ReadRequests <= 0 || s.RateLimit.WriteRequests <= 0 || s.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit budgets and window must be positive")
	}
	if s.IsProduction() && s.SeedDemo {
		return fmt.Errorf("LOCREG_SEED_DEMO is not allowed in production")
	}
	if s.IsProduction() && s.JWTSigningKey == devSigningKey {
		return fmt.Errorf("JWT_SIGNING_KEY must be set in production")
	}
	return nil
}

func parseAccounts(raw string) ([]id.AccountID, error) {
	var accounts []id.AccountID
	for _, part := range platformstrings.SplitList(raw) {
		account, err := id.ParseAccountID(part)
		if err != nil {
			return nil, fmt.Errorf("LOCREG_LEGAL_OFFICERS: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// envReader collects parse failures instead of silently using defaults.
type envReader struct {
	errs *[]string
}

func (r envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (r envReader) int(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Sprintf("%s: not an integer", key))
		return fallback
	}
	return v
}

func (r envReader) bool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Sprintf("%s: not a boolean", key))
		return fallback
	}
	return v
}

func (r envReader) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*r.errs = append(*r.errs, fmt.Sprintf("%s: not a duration", key))
		return fallback
	}
	return v
}
