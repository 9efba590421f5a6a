// Package catalog holds the static product set shipped with the
// application and the filter engine that derives product views from it.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dkhmelev/storefront/internal/model"
)

//go:embed products.yaml
var embedded []byte

type document struct {
	Products []model.Product `yaml:"products"`
}

// Catalog is a read-only, ordered product set.
type Catalog struct {
	products []model.Product
	byID     map[string]model.Product
}

// Load builds the catalog from the YAML document at path, or from the
// embedded document when path is empty.
func Load(path string) (*Catalog, error) {
	data := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		data = b
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	byID := make(map[string]model.Product, len(doc.Products))
	for _, p := range doc.Products {
		if _, exists := byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %q in catalog", p.ID)
		}
		byID[p.ID] = p
	}

	return &Catalog{products: doc.Products, byID: byID}, nil
}

// List returns all products in catalog order. The returned slice is a
// copy; the catalog itself is never mutated.
func (c *Catalog) List() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// GetByID returns the product with the given id.
func (c *Catalog) GetByID(id string) (model.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return model.Product{}, model.ErrNotFound
	}
	return p, nil
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}
