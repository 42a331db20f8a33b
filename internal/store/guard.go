package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// InFlightGuard blocks duplicate submission of the same operation against the
// same target while a previous attempt is still running. Keys expire on their
// own, so a crashed caller cannot wedge an operation forever.
type InFlightGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewInFlightGuard constructs the guard.
func NewInFlightGuard(client *redis.Client, ttlSeconds int) *InFlightGuard {
	if ttlSeconds <= 0 {
		ttlSeconds = 30
	}
	return &InFlightGuard{client: client, ttl: time.Duration(ttlSeconds) * time.Second}
}

// Acquire claims (operation, target). Returns false when an attempt is
// already in flight. Without Redis the guard degrades to always allowing,
// leaving serialization to the per-subject mutex.
func (g *InFlightGuard) Acquire(ctx context.Context, operation, targetID string) bool {
	if g == nil || g.client == nil {
		return true
	}
	ok, err := g.client.SetNX(ctx, g.key(operation, targetID), 1, g.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

// Release frees the claim once the operation completes.
func (g *InFlightGuard) Release(ctx context.Context, operation, targetID string) {
	if g == nil || g.client == nil {
		return
	}
	_ = g.client.Del(ctx, g.key(operation, targetID)).Err()
}

func (g *InFlightGuard) key(operation, targetID string) string {
	return "inflight:" + operation + ":" + targetID
}
