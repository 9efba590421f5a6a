package model

// Product represents a catalog item. Products are read-only: the core
// references them but never mutates them.
type Product struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	Brand       string  `json:"brand" yaml:"brand"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	Rating      float64 `json:"rating" yaml:"rating"`
	Reviews     int     `json:"reviews" yaml:"reviews"`
	Image       string  `json:"image" yaml:"image"`
}

// CartItem is a product plus the quantity the user selected.
// Quantity is always at least 1; removal is a separate operation,
// never a decrement past the floor.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
