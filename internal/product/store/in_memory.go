package store

import (
	"context"
	"sync"
	"time"

	perrors "github.com/fernando061/software-architecture-styles/internal/product/errors"
	"github.com/shopspring/decimal"
)

// InMemory implements ProductStore using a slice kept in insertion order.
// IDs come from a counter that is never rewound, so deleted IDs are not reused.
type InMemory struct {
	mu       sync.RWMutex
	products []Product
	nextID   int64
	now      func() time.Time
}

// NewInMemoryStore creates a new instance of the in-memory ProductStore.
func NewInMemoryStore(opts ...Option) *InMemory {
	o := newOptions(opts)
	s := &InMemory{
		products: make([]Product, 0, len(o.seed)),
		nextID:   1,
		now:      o.now,
	}
	for _, p := range o.seed {
		s.products = append(s.products, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

// FindAll returns a copy of all products.
func (s *InMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, len(s.products))
	copy(list, s.products)
	return list, nil
}

// FindByID retrieves a product by its ID.
func (s *InMemory) FindByID(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	p := s.products[i]
	return &p, nil
}

// Create creates a new product and returns it.
func (s *InMemory) Create(_ context.Context, name string, price decimal.Decimal) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:        s.nextID,
		Name:      name,
		Price:     price,
		CreatedAt: s.now(),
	}
	s.nextID++
	s.products = append(s.products, product)

	return &product, nil
}

// Update replaces the name and price of the product with the same ID.
func (s *InMemory) Update(_ context.Context, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(product.ID)
	if i < 0 {
		return nil, perrors.ErrProductNotFound
	}
	s.products[i].Name = product.Name
	s.products[i].Price = product.Price

	updated := s.products[i]
	return &updated, nil
}

// DeleteByID deletes a product by its ID.
func (s *InMemory) DeleteByID(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return true, nil
}

// indexOf must be called with the lock held.
func (s *InMemory) indexOf(id int64) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
