package seen

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "finnparser:seen"

// Redis keeps the set under one key so it survives restarts and can be
// shared between monitor processes.
type Redis struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, key string, ttl time.Duration) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{rdb: rdb, key: key, ttl: ttl}
}

func DialRedis(ctx context.Context, addr, password string, db int, key string, ttl time.Duration) (*Redis, error) {
	if addr == "" {
		return nil, fmt.Errorf("seen redis: empty addr")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(rdb, key, ttl), nil
}

func (r *Redis) Add(ctx context.Context, id string) (bool, error) {
	pipe := r.rdb.TxPipeline()
	added := pipe.SAdd(ctx, r.key, id)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("seen redis add %s: %w", id, err)
	}
	return added.Val() == 1, nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
