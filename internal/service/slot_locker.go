package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when another writer holds the slot lock.
var ErrLockNotAcquired = errors.New("slot lock not acquired")

// SlotLocker serializes booking writes per (provider, date) so the conflict
// check and the insert run as one critical section.
type SlotLocker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// SlotLockKey builds the lock key for a provider's calendar day.
func SlotLockKey(providerID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("lock:slot:%s:%s", providerID, date.Format("2006-01-02"))
}

type redisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotLocker returns a locker backed by a per-key Redis SETNX lease.
func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) SlotLocker {
	return &redisSlotLocker{
		client: client,
		ttl:    ttl,
	}
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSlotLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

func (l *redisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}

// localSlotLocker is the single-node fallback: a mutex per key, usable when
// Redis is absent (and in tests).
type localSlotLocker struct {
	mu sync.Map // map[string]*sync.Mutex
}

func NewLocalSlotLocker() SlotLocker {
	return &localSlotLocker{}
}

func (l *localSlotLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	value, _ := l.mu.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn(ctx)
}
