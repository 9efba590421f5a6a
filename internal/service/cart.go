package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dkhmelev/storefront/internal/logger"
	"github.com/dkhmelev/storefront/internal/model"
)

// Cart holds the active user's cart in memory and mirrors every
// mutation to the per-user snapshot key. Persistence is best-effort:
// a failed write never rolls back the in-memory change.
type Cart struct {
	mu     sync.Mutex
	userID string
	items  []model.CartItem

	kv        model.KV
	persister *Persister
	logger    *logger.Logger
}

// NewCart creates an empty, anonymous cart.
func NewCart(kv model.KV, persister *Persister, l *logger.Logger) *Cart {
	return &Cart{kv: kv, persister: persister, logger: l}
}

// SetUser rescopes the cart to userID and clears all entries. It does
// not load the new user's persisted snapshot; hydration is a separate
// explicit Load call. An empty userID means anonymous: mutations still
// apply in memory but nothing is persisted.
func (c *Cart) SetUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.userID = userID
	c.items = nil
}

// SetItems wholesale-replaces the cart contents. Used on hydration.
func (c *Cart) SetItems(items []model.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append([]model.CartItem(nil), items...)
}

// Load hydrates the cart from the persisted snapshot for userID. An
// absent snapshot means an empty cart. The decoded items are applied
// only if the cart is still scoped to userID, so a user switch racing
// the read cannot leak another user's entries.
func (c *Cart) Load(ctx context.Context, userID string) error {
	value, ok, err := c.kv.Get(ctx, model.CartKey(userID))
	if err != nil {
		return fmt.Errorf("failed to read cart snapshot: %w", err)
	}

	var items []model.CartItem
	if ok {
		if err := json.Unmarshal([]byte(value), &items); err != nil {
			return fmt.Errorf("failed to decode cart snapshot: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID != userID {
		c.logger.Warn("cart load discarded, user changed", "user_id", userID)
		return nil
	}
	c.items = items

	return nil
}

// Add puts product in the cart with the given quantity. If an entry
// already exists its quantity is overwritten, not summed. Quantities
// below 1 are treated as 1.
func (c *Cart) Add(product model.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity = quantity
			c.persist()
			return
		}
	}

	c.items = append(c.items, model.CartItem{Product: product, Quantity: quantity})
	c.persist()
}

// Increase bumps the entry's quantity by one. No-op when absent.
func (c *Cart) Increase(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity++
			c.persist()
			return
		}
	}
}

// Decrease lowers the entry's quantity by one, flooring at 1. Removal
// never happens through this path.
func (c *Cart) Decrease(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			if c.items[i].Quantity > 1 {
				c.items[i].Quantity--
				c.persist()
			}
			return
		}
	}
}

// Remove deletes the entry for productID. No-op when absent.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist()
			return
		}
	}
}

// Toggle removes the product when present and inserts it with
// quantity 1 otherwise. It reports whether the product ended up in the
// cart. This is the grid shortcut, distinct from Add.
func (c *Cart) Toggle(product model.Product) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist()
			return false
		}
	}

	c.items = append(c.items, model.CartItem{Product: product, Quantity: 1})
	c.persist()
	return true
}

// Contains reports whether the cart holds an entry for productID.
func (c *Cart) Contains(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the cart entries in insertion order.
func (c *Cart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]model.CartItem(nil), c.items...)
}

// Total derives the cart total. It is never stored.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, item := range c.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// persist enqueues a snapshot of the current entries under the active
// user's key. Callers must hold c.mu so the snapshot captures the
// state produced by their mutation.
func (c *Cart) persist() {
	if c.userID == "" {
		return
	}
	c.persister.Enqueue(model.CartKey(c.userID), c.items)
}
