//go:build integration

// Package containers starts the backing services integration tests run
// against. Each container starts once per test binary and is reaped by Ryuk
// when the process exits.
package containers

import (
	"sync"
	"testing"
)

// lazy starts a container on first use and hands the same instance to every
// later caller. A failed start is reported to every caller.
type lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (l *lazy[T]) get(t *testing.T, start func() (T, error)) T {
	t.Helper()
	l.once.Do(func() { l.val, l.err = start() })
	if l.err != nil {
		t.Fatalf("start container: %v", l.err)
	}
	return l.val
}

type Manager struct {
	postgres lazy[*PostgresContainer]
	redis    lazy[*RedisContainer]
	kafka    lazy[*KafkaContainer]
}

var shared Manager

// GetManager returns the process-wide manager.
func GetManager() *Manager { return &shared }

func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	return m.postgres.get(t, startPostgres)
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	return m.redis.get(t, startRedis)
}

func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	return m.kafka.get(t, startKafka)
}
