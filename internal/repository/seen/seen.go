// Package seen keeps the set of advert ids the monitor has already
// observed.
package seen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Store records advert ids. Add reports whether id was new.
type Store interface {
	Add(ctx context.Context, id string) (bool, error)
}

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendLRU      Backend = "lru"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

type Config struct {
	Backend  string
	Capacity int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
	RedisTTL      time.Duration

	PostgresDSN string
}

// Open builds the configured store. The returned func releases its
// resources and is never nil.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (Store, func() error, error) {
	if log == nil {
		log = slog.Default()
	}
	noop := func() error { return nil }

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = string(BackendMemory)
	}

	switch Backend(backend) {
	case BackendMemory:
		log.Info("seen store", "backend", backend)
		return NewMemory(), noop, nil

	case BackendLRU:
		s, err := NewLRU(cfg.Capacity)
		if err != nil {
			return nil, noop, err
		}
		log.Info("seen store", "backend", backend, "capacity", cfg.Capacity)
		return s, noop, nil

	case BackendRedis:
		s, err := DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKey, cfg.RedisTTL)
		if err != nil {
			return nil, noop, err
		}
		log.Info("seen store", "backend", backend, "addr", cfg.RedisAddr, "key", s.key, "ttl", cfg.RedisTTL.String())
		return s, s.Close, nil

	case BackendPostgres:
		s, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		log.Info("seen store", "backend", backend)
		return s, s.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown seen.backend=%q (expected memory|lru|redis|postgres)", cfg.Backend)
	}
}
