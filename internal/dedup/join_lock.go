// Package dedup guards check-then-insert sequences with short-lived Redis locks.
package dedup

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock re-acquired by another request is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// JoinLock serializes concurrent submissions sharing the same key.
type JoinLock struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewJoinLock returns a lock whose keys expire after ttl. prefix namespaces
// the keys, e.g. "waitlist".
func NewJoinLock(rdb *redis.Client, prefix string, ttl time.Duration) *JoinLock {
	return &JoinLock{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (l *JoinLock) key(id string) string {
	return "lock:" + l.prefix + ":" + id
}

// Acquire tries to take the lock for id.
// returns (release, true) if this caller holds the lock
// returns (no-op, false) if another caller holds it
// When Redis is unavailable the caller is let through; the store's unique
// index remains the final guard.
func (l *JoinLock) Acquire(ctx context.Context, id string) (release func(), acquired bool) {
	key := l.key(id)
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		slog.Warn("join lock unavailable, allowing request",
			"key", key,
			"error", err,
		)
		return func() {}, true
	}
	if !ok {
		slog.Info("join lock held by concurrent request", "key", key)
		return func() {}, false
	}

	return func() {
		// Use a fresh context: the request context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
			slog.Warn("join lock release failed", "key", key, "error", err)
		}
	}, true
}

// NewRedisClient creates a go-redis client for addr.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
