package catalog

import (
	"strings"

	"github.com/dkhmelev/storefront/internal/model"
)

// Filter describes a product view: a case-insensitive name query plus
// optional price and rating constraints. The zero value matches
// everything.
type Filter struct {
	Query string

	PriceEnabled bool
	MinPrice     float64
	MaxPrice     float64

	RatingEnabled bool
	MinRating     float64
}

// Apply returns the ordered subsequence of products matching f.
// Catalog order is preserved; nothing is re-sorted. An inverted price
// range is rejected with a validation error so the caller can keep the
// previously displayed view unchanged.
func Apply(products []model.Product, f Filter) ([]model.Product, error) {
	if f.PriceEnabled && f.MaxPrice < f.MinPrice {
		return nil, model.NewValidationError("price range", "max price is below min price")
	}

	query := strings.ToLower(f.Query)

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if f.PriceEnabled && (p.Price < f.MinPrice || p.Price > f.MaxPrice) {
			continue
		}
		if f.RatingEnabled && p.Rating < f.MinRating {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}
