package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	unreadCountKeyPrefix = "notifications:unread:%d"
	approvedFeedKey      = "posts:approved"
)

const (
	// UnreadCountTTL is short: the count is cheap to recompute and staleness
	// after a missed invalidation should heal quickly.
	UnreadCountTTL  = 1 * time.Minute
	ApprovedFeedTTL = 5 * time.Minute
)

// UnreadCountKey returns the cache key for a user's unread notification count.
func UnreadCountKey(userID uint) string {
	return fmt.Sprintf(unreadCountKeyPrefix, userID)
}

// ApprovedFeedKey returns the cache key for the public approved-posts feed.
func ApprovedFeedKey() string {
	return approvedFeedKey
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first; on miss it calls fetch (which must populate dest),
// then stores the result with ttl. A cache read error falls through to fetch
// rather than failing the request.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// Invalidate removes the key. Best-effort; a nil client no-ops.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateUnreadCount drops the cached unread count for the user.
func InvalidateUnreadCount(ctx context.Context, userID uint) {
	Invalidate(ctx, UnreadCountKey(userID))
}

// InvalidateApprovedFeed drops the cached public feed.
func InvalidateApprovedFeed(ctx context.Context) {
	Invalidate(ctx, ApprovedFeedKey())
}
