package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/reserve_stock.lua
var reserveStockScript string

//go:embed scripts/release_stock.lua
var releaseStockScript string

//go:embed scripts/commit_stock.lua
var commitStockScript string

// Cart state has no expiry; abandoned carts survive until an explicit clear.
// Locks are short-lived by design.
const (
	cartKeyPrefix     = "cart:"
	currencyKeyPrefix = "currency:"
	stockKeyPrefix    = "stock:"
	lockKeyPrefix     = "lock:"
)

type Client struct {
	rdb           *redis.Client
	reserveScript *redis.Script
	releaseScript *redis.Script
	commitScript  *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
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

	return &Client{
		rdb:           rdb,
		reserveScript: redis.NewScript(reserveStockScript),
		releaseScript: redis.NewScript(releaseStockScript),
		commitScript:  redis.NewScript(commitStockScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// LoadCart returns the serialized line-item list for a session, or nil when
// no cart has been persisted yet.
func (c *Client) LoadCart(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart failed: %w", err)
	}
	return data, nil
}

// SaveCart overwrites the session's serialized cart.
func (c *Client) SaveCart(ctx context.Context, sessionID string, data []byte) error {
	if err := c.rdb.Set(ctx, cartKeyPrefix+sessionID, data, 0).Err(); err != nil {
		return fmt.Errorf("save cart failed: %w", err)
	}
	return nil
}

// DeleteCart removes the session's persisted cart.
func (c *Client) DeleteCart(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, cartKeyPrefix+sessionID).Err()
}

// GetCurrency returns the session's stored currency code, "" when unset.
// The currency preference is persisted independently of the cart.
func (c *Client) GetCurrency(ctx context.Context, sessionID string) (string, error) {
	code, err := c.rdb.Get(ctx, currencyKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get currency failed: %w", err)
	}
	return code, nil
}

// SetCurrency stores the session's currency preference.
func (c *Client) SetCurrency(ctx context.Context, sessionID, code string) error {
	return c.rdb.Set(ctx, currencyKeyPrefix+sessionID, code, 0).Err()
}

// InitStock seeds the available count for a product. Called on every catalog
// load; a reload replaces the counts wholesale.
func (c *Client) InitStock(ctx context.Context, productID string, available int) error {
	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, stockKeyPrefix+productID, "available", available)
	pipe.HSet(ctx, stockKeyPrefix+productID, "reserved", 0)

	_, err := pipe.Exec(ctx)
	return err
}

// ReserveStock atomically reserves stock using a Lua script.
// Returns true if the reservation succeeded, false on insufficient stock.
func (c *Client) ReserveStock(ctx context.Context, productID string, quantity int) (bool, error) {
	key := stockKeyPrefix + productID

	result, err := c.reserveScript.Run(ctx, c.rdb, []string{key}, quantity).Result()
	if err != nil {
		return false, fmt.Errorf("reserve stock script failed: %w", err)
	}

	success, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected script result type")
	}

	return success == 1, nil
}

// ReleaseStock atomically returns a reservation to the available pool.
func (c *Client) ReleaseStock(ctx context.Context, productID string, quantity int) error {
	key := stockKeyPrefix + productID

	_, err := c.releaseScript.Run(ctx, c.rdb, []string{key}, quantity).Result()
	if err != nil {
		return fmt.Errorf("release stock script failed: %w", err)
	}

	return nil
}

// CommitStock atomically turns a reservation into a final deduction.
func (c *Client) CommitStock(ctx context.Context, productID string, quantity int) error {
	key := stockKeyPrefix + productID

	_, err := c.commitScript.Run(ctx, c.rdb, []string{key}, quantity).Result()
	if err != nil {
		return fmt.Errorf("commit stock script failed: %w", err)
	}

	return nil
}

// GetStock retrieves current stock counts for a product.
func (c *Client) GetStock(ctx context.Context, productID string) (available, reserved int, err error) {
	result, err := c.rdb.HGetAll(ctx, stockKeyPrefix+productID).Result()
	if err != nil {
		return 0, 0, err
	}

	if len(result) == 0 {
		return 0, 0, fmt.Errorf("stock not found for product %s", productID)
	}

	var availableInt, reservedInt int
	fmt.Sscanf(result["available"], "%d", &availableInt)
	fmt.Sscanf(result["reserved"], "%d", &reservedInt)

	return availableInt, reservedInt, nil
}

// AcquireLock acquires a per-session mutation lock. Cart transitions for one
// session are applied strictly in acquisition order.
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, lockKeyPrefix+lockKey, "1", ttl).Result()
}

// ReleaseLock releases a mutation lock.
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, lockKeyPrefix+lockKey).Err()
}
