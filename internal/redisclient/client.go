// Package redisclient provides per-product mutation locks. Checkout and
// cancel are read-modify-write sequences over product stock; when Redis is
// configured, both take the product lock so two simultaneous mutations of the
// same product cannot lose an update. Locking is optional hardening: with no
// Redis address configured the service runs unlocked.
package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultLockTTL bounds how long a crashed request can hold a product lock.
const DefaultLockTTL = 10 * time.Second

type Client struct {
	rdb *redis.Client
}

// NewClient creates a Redis client and pings it before returning.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// AcquireProductLock takes the mutation lock for a product. Returns false if
// another request currently holds it.
func (c *Client) AcquireProductLock(ctx context.Context, productID int, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, productLockKey(productID), "1", ttl).Result()
}

// ReleaseProductLock releases the mutation lock for a product.
func (c *Client) ReleaseProductLock(ctx context.Context, productID int) error {
	return c.rdb.Del(ctx, productLockKey(productID)).Err()
}

// WithProductLock runs fn while holding the product lock, polling briefly if
// the lock is contended. If the lock cannot be acquired before ctx expires,
// the lock attempt error is returned and fn never runs.
func (c *Client) WithProductLock(ctx context.Context, productID int, fn func() error) error {
	for {
		ok, err := c.AcquireProductLock(ctx, productID, DefaultLockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire product lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for product %d lock: %w", productID, ctx.Err())
		case <-time.After(20 * time.Millisecond):
		}
	}
	defer func() {
		_ = c.ReleaseProductLock(context.Background(), productID)
	}()

	return fn()
}

func productLockKey(productID int) string {
	return fmt.Sprintf("lock:product:%d", productID)
}
