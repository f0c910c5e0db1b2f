package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Version formatting
	"strings"       // Key building
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// SummaryKey builds the cache key of one aggregation request for a user at a cache version
func SummaryKey(userID string, version int64, op string, params ...string) string {
	return SummaryPrefix(userID) + "v" + strconv.FormatInt(version, 10) + ":" + op + ":" + strings.Join(params, ",")
}

func summaryVersionKey(userID string) string {
	return "summary:version:" + userID
}

// SummaryVersion returns the user's current cache version, 0 when never bumped
func SummaryVersion(ctx context.Context, rdb *redis.Client, userID string) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	v, err := rdb.Get(ctx, summaryVersionKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// BumpSummaryVersion moves the user to a new cache version. Entries written
// under an older version are never read again.
func BumpSummaryVersion(ctx context.Context, rdb *redis.Client, userID string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Incr(ctx, summaryVersionKey(userID)).Err()
}

// SummaryPrefix is shared by every cached aggregation of a user
func SummaryPrefix(userID string) string {
	return "summary:user:" + userID + ":"
}

// GetCache retrieves a value from Redis and unmarshals it into dest.
// A nil client behaves as a permanent miss.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil // Caching disabled
	}
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err // Stale or foreign payload
	}
	return true, nil
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// DeleteCachePrefix deletes every key starting with prefix, scanning in batches
func DeleteCachePrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
	if rdb == nil {
		return nil
	}
	iter := rdb.Scan(ctx, 0, globEscape(prefix)+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

// globEscape quotes the characters SCAN MATCH treats as pattern syntax
func globEscape(s string) string {
	return globEscaper.Replace(s)
}
