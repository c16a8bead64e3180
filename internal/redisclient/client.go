package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos-bot/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	menuCacheKey = "menu:active"
	menuCacheTTL = 5 * time.Minute
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
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

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetMenu retrieves the cached active menu. Returns (nil, nil) on a cache
// miss so callers fall through to the database.
func (c *Client) GetMenu(ctx context.Context) ([]models.MenuItem, error) {
	data, err := c.rdb.Get(ctx, menuCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read menu cache: %w", err)
	}

	var items []models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu cache: %w", err)
	}
	return items, nil
}

// SetMenu stores the active menu with a TTL
func (c *Client) SetMenu(ctx context.Context, items []models.MenuItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode menu cache: %w", err)
	}
	return c.rdb.Set(ctx, menuCacheKey, data, menuCacheTTL).Err()
}

// InvalidateMenu drops the cached menu after a menu mutation
func (c *Client) InvalidateMenu(ctx context.Context) error {
	return c.rdb.Del(ctx, menuCacheKey).Err()
}
