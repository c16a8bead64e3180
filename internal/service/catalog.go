package service

import (
	"context"

	"pos-bot/internal/models"
	"pos-bot/internal/redisclient"
	"pos-bot/internal/store"
	"pos-bot/internal/util"

	"go.uber.org/zap"
)

// Catalog serves menu reads through the Redis cache and routes menu writes
// to the store, invalidating the cache on every mutation.
type Catalog struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewCatalog creates a new menu catalog
func NewCatalog(store *store.Store, redis *redisclient.Client) *Catalog {
	return &Catalog{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// SizeEntry is one pending size variant during multi-size item entry
type SizeEntry struct {
	Label string
	Price float64
}

// ListActive returns active menu items, cache first with DB fallback
func (c *Catalog) ListActive(ctx context.Context) ([]models.MenuItem, error) {
	items, err := c.redis.GetMenu(ctx)
	if err != nil {
		c.logger.Warn("Menu cache read failed, falling back to DB", zap.Error(err))
	} else if items != nil {
		return items, nil
	}

	items, err = c.store.ListMenuItems(ctx, true)
	if err != nil {
		return nil, err
	}

	if err := c.redis.SetMenu(ctx, items); err != nil {
		c.logger.Warn("Failed to populate menu cache", zap.Error(err))
	}
	return items, nil
}

// GetByID retrieves a single menu item, nil when not found
func (c *Catalog) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	return c.store.GetMenuItemByID(ctx, id)
}

// Add inserts one menu item and invalidates the cache
func (c *Catalog) Add(ctx context.Context, name, size string, price float64) (*models.MenuItem, error) {
	item, err := c.store.AddMenuItem(ctx, name, size, price)
	if err != nil {
		return nil, err
	}
	util.MenuItemsCreatedTotal.Inc()
	c.invalidate(ctx)
	return item, nil
}

// AddSizes inserts every accumulated size variant of an item as its own
// row. One failed insert does not abort the rest; the counts report the
// partial outcome.
func (c *Catalog) AddSizes(ctx context.Context, name string, sizes []SizeEntry) (added, failed int) {
	for _, size := range sizes {
		if _, err := c.store.AddMenuItem(ctx, name, size.Label, size.Price); err != nil {
			c.logger.Error("Failed to add menu item size",
				zap.String("name", name),
				zap.String("size", size.Label),
				zap.Error(err))
			failed++
			continue
		}
		util.MenuItemsCreatedTotal.Inc()
		added++
	}
	if added > 0 {
		c.invalidate(ctx)
	}
	return added, failed
}

// UpdateName renames a menu item
func (c *Catalog) UpdateName(ctx context.Context, id int64, name string) error {
	if err := c.store.UpdateMenuItemName(ctx, id, name); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// UpdateSize relabels a menu item's size
func (c *Catalog) UpdateSize(ctx context.Context, id int64, size string) error {
	if err := c.store.UpdateMenuItemSize(ctx, id, size); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// UpdatePrice reprices a menu item
func (c *Catalog) UpdatePrice(ctx context.Context, id int64, price float64) error {
	if err := c.store.UpdateMenuItemPrice(ctx, id, price); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// SoftDelete marks a menu item inactive
func (c *Catalog) SoftDelete(ctx context.Context, id int64) error {
	if err := c.store.SoftDeleteMenuItem(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *Catalog) invalidate(ctx context.Context) {
	if err := c.redis.InvalidateMenu(ctx); err != nil {
		c.logger.Warn("Failed to invalidate menu cache", zap.Error(err))
	}
}
