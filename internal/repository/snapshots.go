package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"gamebank/internal/model"
)

const (
	DefaultSnapshotTTL = 24 * time.Hour
	FeedLength         = 50
)

var ErrSnapshotNotFound = errors.New("snapshot not found in cache")

// redisStore is the subset of *redis.Client the cache uses.
type redisStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// SnapshotCache keeps the latest session snapshot and a capped notification
// feed in Redis. It is a read model only; nothing is loaded back into the engine.
type SnapshotCache struct {
	rdb redisStore
	ttl time.Duration
}

func NewSnapshotCache(rdb redisStore, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotCache{rdb: rdb, ttl: ttl}
}

func snapshotKey(sessionID string) string { return fmt.Sprintf("gamebank:snapshot:%s", sessionID) }
func feedKey(sessionID string) string     { return fmt.Sprintf("gamebank:notifications:%s", sessionID) }

// SaveSnapshot overwrites the cached snapshot of the session.
func (c *SnapshotCache) SaveSnapshot(ctx context.Context, s model.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, snapshotKey(s.SessionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot to Redis: %w", err)
	}
	return nil
}

// LatestSnapshot returns the last cached snapshot of the session.
func (c *SnapshotCache) LatestSnapshot(ctx context.Context, sessionID string) (*model.Snapshot, error) {
	raw, err := c.rdb.Get(ctx, snapshotKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot from Redis: %w", err)
	}
	var s model.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// PushNotification prepends n to the session feed and trims it to FeedLength.
func (c *SnapshotCache) PushNotification(ctx context.Context, sessionID string, n model.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	key := feedKey(sessionID)
	if err := c.rdb.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	if err := c.rdb.LTrim(ctx, key, 0, FeedLength-1).Err(); err != nil {
		return fmt.Errorf("trim notification feed: %w", err)
	}
	return c.rdb.Expire(ctx, key, c.ttl).Err()
}

// Notifications returns up to limit feed entries, newest first.
func (c *SnapshotCache) Notifications(ctx context.Context, sessionID string, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > FeedLength {
		limit = FeedLength
	}
	raw, err := c.rdb.LRange(ctx, feedKey(sessionID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read notification feed: %w", err)
	}
	out := make([]model.Notification, 0, len(raw))
	for _, item := range raw {
		var n model.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			slog.Warn("cache: skipping malformed notification", "error", err)
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// CacheObserver adapts the cache to the engine's observer interface. Cache
// failures are logged and never reach the engine.
type CacheObserver struct {
	cache     *SnapshotCache
	sessionID string
}

func NewCacheObserver(cache *SnapshotCache, sessionID string) *CacheObserver {
	return &CacheObserver{cache: cache, sessionID: sessionID}
}

func (o *CacheObserver) Notify(ctx context.Context, n model.Notification) {
	if err := o.cache.PushNotification(ctx, o.sessionID, n); err != nil {
		slog.Error("cache: failed to push notification", "session_id", o.sessionID, "error", err)
	}
}

func (o *CacheObserver) StateChanged(ctx context.Context, s model.Snapshot) {
	if err := o.cache.SaveSnapshot(ctx, s); err != nil {
		slog.Error("cache: failed to save snapshot", "session_id", s.SessionID, "error", err)
	}
}

func (o *CacheObserver) TransactionRecorded(ctx context.Context, ev model.TransactionEvent) {}
