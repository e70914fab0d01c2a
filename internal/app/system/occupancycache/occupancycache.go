// internal/app/system/occupancycache/occupancycache.go
package occupancycache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/plantdesk/plantdesk/internal/app/system/occupancy"
)

const keyPrefix = "plantdesk:occupancy:"

// Cache holds per-room occupancy snapshots in Redis so dashboard reads do
// not scan the assignment collection. Entries expire on their own; a
// missing entry means the caller computes from MongoDB.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a Cache over the given Redis client. rdb may be nil, in
// which case every Get misses and every Set is a no-op.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot for a room, or ok=false on a miss.
func (c *Cache) Get(ctx context.Context, room string) (occupancy.Stats, bool, error) {
	if c == nil || c.rdb == nil {
		return occupancy.Stats{}, false, nil
	}
	raw, err := c.rdb.Get(ctx, keyPrefix+room).Bytes()
	if err == redis.Nil {
		return occupancy.Stats{}, false, nil
	}
	if err != nil {
		return occupancy.Stats{}, false, fmt.Errorf("occupancy cache get %q: %w", room, err)
	}
	var stats occupancy.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return occupancy.Stats{}, false, fmt.Errorf("occupancy cache decode %q: %w", room, err)
	}
	return stats, true, nil
}

// Set stores one room snapshot with the configured TTL.
func (c *Cache) Set(ctx context.Context, stats occupancy.Stats) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("occupancy cache encode %q: %w", stats.Room, err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+stats.Room, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("occupancy cache set %q: %w", stats.Room, err)
	}
	return nil
}

// SetAll stores a batch of snapshots in one pipeline round trip.
func (c *Cache) SetAll(ctx context.Context, all []occupancy.Stats) error {
	if c == nil || c.rdb == nil || len(all) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for _, stats := range all {
		raw, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("occupancy cache encode %q: %w", stats.Room, err)
		}
		pipe.Set(ctx, keyPrefix+stats.Room, raw, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("occupancy cache pipeline: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot for a room after a write.
func (c *Cache) Invalidate(ctx context.Context, room string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, keyPrefix+room).Err()
}
