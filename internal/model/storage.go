package model

import "context"

// KV defines persistence operations against the device-local
// string-keyed store. Absence of a key is a valid state, reported via
// the ok return, not an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Persisted key layout. Cart and wishlist keys are scoped per user,
// so a write racing a user switch still lands under the correct owner.
const (
	KeyLoggedIn     = "is_logged_in"
	KeyLoggedInUser = "logged_in_user"
	KeyUsers        = "users"

	// LoggedInMarker is the only value of KeyLoggedIn that counts as a
	// live session; anything else reads as logged out.
	LoggedInMarker = "true"
)

// CartKey returns the persisted-snapshot key for a user's cart.
func CartKey(userID string) string {
	return "cart_" + userID
}

// WishlistKey returns the persisted-snapshot key for a user's wishlist.
func WishlistKey(userID string) string {
	return "wishlist_" + userID
}
