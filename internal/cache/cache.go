// Package cache is a best-effort JSON view cache on Redis. Every operation is
// bounded by a short timeout and guarded by a circuit breaker, so a slow or
// absent Redis only ever costs a cache miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/baharkarakas/bank-ledger/internal/metrics"
)

const (
	keyPrefix = "ledger:"
	opTimeout = 250 * time.Millisecond

	loadTimeout = 10 * time.Second
)

type Cache struct {
	client *goredis.Client
	cb     *gobreaker.CircuitBreaker
	log    *zap.Logger
}

// New wraps client. A nil client yields a disabled cache.
func New(client *goredis.Client, log *zap.Logger) *Cache {
	if client == nil {
		return Disabled()
	}
	log = log.Named("cache")
	return &Cache{
		client: client,
		log:    log,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "redis",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 5 },
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
	}
}

// Disabled returns a cache where every Get misses and writes are dropped.
func Disabled() *Cache { return &Cache{log: zap.NewNop()} }

func (c *Cache) Enabled() bool { return c.client != nil }

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

var errMiss = errors.New("cache miss")

func (c *Cache) get(ctx context.Context, key string) ([]byte, error) {
	if !c.Enabled() {
		return nil, errMiss
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var miss bool
	v, err := c.cb.Execute(func() (interface{}, error) {
		b, err := c.client.Get(ctx, keyPrefix+key).Bytes()
		if errors.Is(err, goredis.Nil) {
			miss = true
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return nil, err
	}
	if miss {
		return nil, errMiss
	}
	return v.([]byte), nil
}

func (c *Cache) set(ctx context.Context, key string, b []byte, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, keyPrefix+key, b, ttl).Err()
	})
	return err
}

// View is a typed namespace inside a Cache.
type View[T any] struct {
	c    *Cache
	name string
	ttl  time.Duration
	sf   singleflight.Group
}

func NewView[T any](c *Cache, name string, ttl time.Duration) *View[T] {
	return &View[T]{c: c, name: name, ttl: ttl}
}

func (v *View[T]) key(k string) string { return v.name + ":" + k }

// Get reports a miss on any lookup or decode failure.
func (v *View[T]) Get(ctx context.Context, key string) (T, bool) {
	var out T
	b, err := v.c.get(ctx, v.key(key))
	switch {
	case errors.Is(err, errMiss):
		v.record("miss")
		return out, false
	case err != nil:
		v.record("error")
		v.c.log.Debug("cache get failed", zap.String("key", v.key(key)), zap.Error(err))
		return out, false
	}
	if err := json.Unmarshal(b, &out); err != nil {
		v.record("error")
		v.c.log.Warn("cache decode failed", zap.String("key", v.key(key)), zap.Error(err))
		return out, false
	}
	v.record("hit")
	return out, true
}

// Set logs and swallows write failures.
func (v *View[T]) Set(ctx context.Context, key string, value T) {
	if !v.c.Enabled() {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		v.c.log.Warn("cache encode failed", zap.String("key", v.key(key)), zap.Error(err))
		return
	}
	if err := v.c.set(ctx, v.key(key), b, v.ttl); err != nil {
		v.c.log.Debug("cache set failed", zap.String("key", v.key(key)), zap.Error(err))
	}
}

// Load returns the cached value for key or, on a miss, calls load and caches
// the result. Concurrent misses on one key share a single load call. The
// shared load is detached from any one caller's cancellation and bounded by
// loadTimeout; each caller still stops waiting when its own ctx is done.
func (v *View[T]) Load(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if out, ok := v.Get(ctx, key); ok {
		return out, nil
	}
	ch := v.sf.DoChan(key, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		val, err := load(lctx)
		if err != nil {
			return nil, err
		}
		v.Set(lctx, key, val)
		return val, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (v *View[T]) record(result string) {
	if v.c.Enabled() {
		metrics.CacheRequests.WithLabelValues(v.name, result).Inc()
	}
}
