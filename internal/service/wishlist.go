package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dkhmelev/storefront/internal/logger"
	"github.com/dkhmelev/storefront/internal/model"
)

// Wishlist holds the active user's wishlist in memory, unique by
// product ID, and mirrors mutations to the per-user snapshot key with
// the same best-effort policy as Cart.
type Wishlist struct {
	mu     sync.Mutex
	userID string
	items  []model.Product

	kv        model.KV
	persister *Persister
	logger    *logger.Logger
}

// NewWishlist creates an empty, anonymous wishlist.
func NewWishlist(kv model.KV, persister *Persister, l *logger.Logger) *Wishlist {
	return &Wishlist{kv: kv, persister: persister, logger: l}
}

// SetUser rescopes the wishlist to userID and clears all entries.
// Hydration is a separate explicit Load call.
func (w *Wishlist) SetUser(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.userID = userID
	w.items = nil
}

// SetItems wholesale-replaces the wishlist contents. Used on hydration.
func (w *Wishlist) SetItems(items []model.Product) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.items = append([]model.Product(nil), items...)
}

// Load hydrates the wishlist from the persisted snapshot for userID.
// An absent snapshot means an empty wishlist.
func (w *Wishlist) Load(ctx context.Context, userID string) error {
	value, ok, err := w.kv.Get(ctx, model.WishlistKey(userID))
	if err != nil {
		return fmt.Errorf("failed to read wishlist snapshot: %w", err)
	}

	var items []model.Product
	if ok {
		if err := json.Unmarshal([]byte(value), &items); err != nil {
			return fmt.Errorf("failed to decode wishlist snapshot: %w", err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.userID != userID {
		w.logger.Warn("wishlist load discarded, user changed", "user_id", userID)
		return nil
	}
	w.items = items

	return nil
}

// Toggle removes the product when present and appends it otherwise,
// reporting whether it ended up on the list. With no active user the
// in-memory change still applies but nothing is persisted.
func (w *Wishlist) Toggle(product model.Product) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.items {
		if w.items[i].ID == product.ID {
			w.items = append(w.items[:i], w.items[i+1:]...)
			w.persist()
			return false
		}
	}

	w.items = append(w.items, product)
	w.persist()
	return true
}

// Contains reports whether productID is on the wishlist.
func (w *Wishlist) Contains(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range w.items {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the wishlist in insertion order.
func (w *Wishlist) Items() []model.Product {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]model.Product(nil), w.items...)
}

func (w *Wishlist) persist() {
	if w.userID == "" {
		return
	}
	w.persister.Enqueue(model.WishlistKey(w.userID), w.items)
}
