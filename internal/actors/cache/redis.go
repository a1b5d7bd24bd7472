package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vigil/internal/actors"
)

// keyPrefix namespaces actor cache entries within the shared Redis instance.
const keyPrefix = "vigil:actors:"

// Redis backs the actor cache with a shared Redis instance so resolution
// survives across server replicas. Values are JSON with a TTL.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedis creates a Redis-backed actor cache.
func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get returns the cached actor for the key, if present.
func (r *Redis) Get(ctx context.Context, key string) (actors.ResolvedActor, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return actors.ResolvedActor{}, false, nil
	}
	if err != nil {
		return actors.ResolvedActor{}, false, fmt.Errorf("redis get: %w", err)
	}

	var actor actors.ResolvedActor
	if err := json.Unmarshal(raw, &actor); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return actors.ResolvedActor{}, false, nil
	}
	return actor, true, nil
}

// Set stores the actor under the key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, actor actors.ResolvedActor) error {
	raw, err := json.Marshal(actor)
	if err != nil {
		return fmt.Errorf("marshal actor: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

var _ actors.Cache = (*Redis)(nil)
