package redis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lumalingo/lumalingo-backend/internal/pkg/logger"
)

// RunLock guards a scheduled job so that only one replica executes a given
// run on a given day. Acquire returns false when another holder already owns
// the (name, day) slot.
type RunLock interface {
	Acquire(ctx context.Context, name string, day time.Time) (bool, error)
	Close() error
}

type redisRunLock struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRunLock connects to REDIS_ADDR. Callers that tolerate running without
// redis should fall back to NewLocalRunLock when this fails.
func NewRunLock(log *logger.Logger, addr string) (RunLock, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisRunLock{
		log: log.With("service", "RedisRunLock"),
		rdb: rdb,
		ttl: 36 * time.Hour,
	}, nil
}

func (l *redisRunLock) Acquire(ctx context.Context, name string, day time.Time) (bool, error) {
	key := runKey(name, day)
	ok, err := l.rdb.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		l.log.Info("run already claimed elsewhere", "key", key)
	}
	return ok, nil
}

func (l *redisRunLock) Close() error {
	return l.rdb.Close()
}

func runKey(name string, day time.Time) string {
	return fmt.Sprintf("runlock:%s:%s", name, day.Format("2006-01-02"))
}

// localRunLock is the in-process fallback for single-instance deployments
// without redis. Same day-scoped semantics, process-local only.
type localRunLock struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewLocalRunLock() RunLock {
	return &localRunLock{seen: make(map[string]struct{})}
}

func (l *localRunLock) Acquire(_ context.Context, name string, day time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := runKey(name, day)
	if _, ok := l.seen[key]; ok {
		return false, nil
	}
	l.seen[key] = struct{}{}
	return true, nil
}

func (l *localRunLock) Close() error { return nil }
