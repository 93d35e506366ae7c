package cache

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"
	"time" // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// TTL applied to dashboard and review-list entries
const TTL = 60 * time.Second

// KeyBankDashboard caches the bank-wide activity chart
const KeyBankDashboard = "dashboard:bank"

// DefaultReviewLimit is the list size the handlers use when ?n= is absent;
// invalidation targets this size (simple version, mirrors page invalidation
// elsewhere rather than scanning every cached size).
const DefaultReviewLimit = 5

// TopReviewsKey keys the highest-rated list of the given size
func TopReviewsKey(n int) string {
	return "reviews:top:" + strconv.Itoa(n)
}

// BottomReviewsKey keys the lowest-rated list of the given size
func BottomReviewsKey(n int) string {
	return "reviews:bottom:" + strconv.Itoa(n)
}

// CustomerDashboardKey keys a customer's spending chart by account number
func CustomerDashboardKey(accountNumber string) string {
	return "dashboard:customer:" + accountNumber
}

// ProductReviewsKey keys the review list of one product
func ProductReviewsKey(productID uint) string {
	return "reviews:product:" + strconv.Itoa(int(productID))
}

// Get retrieves a value from Redis and unmarshals it into dest
func Get(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest)
}

// Set stores a value in Redis with a TTL
func Set(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}

// Invalidate deletes keys from Redis, ignoring missing ones
func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) error {
	return rdb.Del(ctx, keys...).Err()
}
