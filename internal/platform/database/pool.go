package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config sizes the pgx pool behind the stores.
type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	PingTimeout     time.Duration
}

func DefaultConfig(url string) Config {
	return Config{
		URL:             url,
		MaxConns:        25,
		MinConns:        2,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

// Pool is a pgxpool exposed to the stores as *sql.DB.
type Pool struct {
	pgx *pgxpool.Pool
	db  *sql.DB
}

// New connects and pings.
func New(ctx context.Context, cfg Config) (*Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pcfg.MaxConns = cfg.MaxConns
	pcfg.MinConns = cfg.MinConns
	pcfg.MaxConnLifetime = cfg.MaxConnLifetime
	pcfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{pgx: pool, db: stdlib.OpenDBFromPool(pool)}, nil
}

func (p *Pool) DB() *sql.DB { return p.db }

// RegisterMetrics exports database/sql pool statistics labelled dbName.
func (p *Pool) RegisterMetrics(reg prometheus.Registerer, dbName string) error {
	return reg.Register(collectors.NewDBStatsCollector(p.db, dbName))
}

// Health pings through the pool.
func (p *Pool) Health(ctx context.Context) error {
	return p.pgx.Ping(ctx)
}

// Close releases the sql.DB wrapper and then the pool.
func (p *Pool) Close() error {
	err := p.db.Close()
	p.pgx.Close()
	return err
}
