// Package store provides the data access layer for products.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product entity in the store.
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	CreatedAt time.Time
}

// String renders the product as a single console line.
func (p Product) String() string {
	return fmt.Sprintf("ID: %d, Name: %s, Price: $%s, Created: %s",
		p.ID, p.Name, p.Price.StringFixed(2), p.CreatedAt.Format(time.DateOnly))
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// Implementations apply no business rules.
type ProductStore interface {
	// FindAll returns all products in insertion order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns nil and no error if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// Create assigns a fresh ID and the creation time, stores the product and returns the stored copy.
	Create(ctx context.Context, name string, price decimal.Decimal) (*Product, error)

	// Update overwrites the name and price of an existing product. ID and CreatedAt are kept.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, product Product) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns false if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

type options struct {
	now  func() time.Time
	seed []Product
}

// Option configures the InMemory and Gorm stores.
type Option func(*options)

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithSeed preloads products into an empty store. Their IDs and CreatedAt are kept.
func WithSeed(products ...Product) Option {
	return func(o *options) {
		o.seed = append(o.seed, products...)
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DemoCatalog returns the demo products relative to now.
func DemoCatalog(now time.Time) []Product {
	day := 24 * time.Hour
	return []Product{
		{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99"), CreatedAt: now.Add(-5 * day)},
		{ID: 2, Name: "Mouse", Price: decimal.RequireFromString("25.50"), CreatedAt: now.Add(-3 * day)},
		{ID: 3, Name: "Keyboard", Price: decimal.RequireFromString("75.00"), CreatedAt: now.Add(-2 * day)},
	}
}
