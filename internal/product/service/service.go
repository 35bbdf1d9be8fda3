// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	perrors "github.com/fernando061/software-architecture-styles/internal/product/errors"
	"github.com/fernando061/software-architecture-styles/internal/product/store"
	"github.com/fernando061/software-architecture-styles/pkg/messaging"
	"github.com/fernando061/software-architecture-styles/pkg/messaging/events"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// maxPrice is the highest price a product may have.
var maxPrice = decimal.NewFromInt(10000)

// MaxPrice returns the highest price a product may have.
func MaxPrice() decimal.Decimal {
	return maxPrice
}

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all products.
	// Returns ErrEmptyCatalog if the catalog holds no products.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrInvalidArgument if id is not positive, and nil without error if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// Create validates and adds a new product to the catalog.
	// Returns ErrInvalidArgument if the name is blank or the price is out of range.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update validates and replaces the name and price of an existing product.
	// Returns ErrInvalidArgument on invalid input and ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrInvalidArgument if id is not positive and ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	created    metric.Int64Counter
	updated    metric.Int64Counter
	deleted    metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository.
// A nil publisher drops events.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	meter := otel.Meter("product-service")
	return &Service{
		repository: repo,
		publisher:  publisher,
		created:    mustCounter(meter, "products_created", "Total number of created products"),
		updated:    mustCounter(meter, "products_updated", "Total number of updated products"),
		deleted:    mustCounter(meter, "products_deleted", "Total number of deleted products"),
	}
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// String renders the product as a single console line.
func (p ProductDto) String() string {
	return store.Product(p).String()
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name  string          `json:"name"  validate:"required,max=100"`
	Price decimal.Decimal `json:"price"`
}

// ProductUpdateDto represents the data transfer object for updating an existing product.
type ProductUpdateDto struct {
	Name  string          `json:"name"  validate:"required,max=100"`
	Price decimal.Decimal `json:"price"`
}

// FindAll retrieves all products and returns them as ProductDtos.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: No products available in the system.", perrors.ErrEmptyCatalog)
	}

	dtos := make([]ProductDto, len(products))
	for i, p := range products {
		dtos[i] = toDto(p)
	}
	return dtos, nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	product, err := s.repository.FindByID(ctx, id)
	if err != nil || product == nil {
		return nil, err
	}
	dto := toDto(*product)
	return &dto, nil
}

// Create creates a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	if err := validateProduct(product.Name, product.Price); err != nil {
		return nil, err
	}

	created, err := s.repository.Create(ctx, strings.TrimSpace(product.Name), product.Price)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ProductCreatedEvent{
		Carrier:   carrier(ctx),
		ProductID: created.ID,
		Name:      created.Name,
		Price:     created.Price,
		CreatedAt: created.CreatedAt,
	})
	s.created.Add(ctx, 1)

	dto := toDto(*created)
	return &dto, nil
}

// Update modifies an existing product and returns the updated product as a ProductDto.
func (s *Service) Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductDto, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := validateProduct(product.Name, product.Price); err != nil {
		return nil, err
	}
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.repository.Update(ctx, store.Product{
		ID:    id,
		Name:  strings.TrimSpace(product.Name),
		Price: product.Price,
	})
	if errors.Is(err, perrors.ErrProductNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ProductUpdatedEvent{
		Carrier:   carrier(ctx),
		ProductID: updated.ID,
		Name:      updated.Name,
		Price:     updated.Price,
		UpdatedAt: time.Now(),
	})
	s.updated.Add(ctx, 1)

	dto := toDto(*updated)
	return &dto, nil
}

// DeleteByID deletes a product by its ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) (bool, error) {
	if err := ValidateID(id); err != nil {
		return false, err
	}
	if err := s.ensureExists(ctx, id); err != nil {
		return false, err
	}

	deleted, err := s.repository.DeleteByID(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	s.publish(ctx, events.ProductDeletedEvent{
		Carrier:   carrier(ctx),
		ProductID: id,
		DeletedAt: time.Now(),
	})
	s.deleted.Add(ctx, 1)

	return true, nil
}

func (s *Service) ensureExists(ctx context.Context, id int64) error {
	existing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return notFound(id)
	}
	return nil
}

// publish never fails the caller: the mutation is already stored.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

// ValidateID rejects non-positive ids with ErrInvalidArgument.
func ValidateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: Product ID must be greater than 0.", perrors.ErrInvalidArgument)
	}
	return nil
}

func validateProduct(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: Product name cannot be empty.", perrors.ErrInvalidArgument)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: Product price must be greater than 0.", perrors.ErrInvalidArgument)
	}
	if price.GreaterThan(maxPrice) {
		return fmt.Errorf("%w: Product price cannot exceed $10,000.", perrors.ErrInvalidArgument)
	}
	return nil
}

func notFound(id int64) error {
	return fmt.Errorf("%w: Product with ID %d not found.", perrors.ErrProductNotFound, id)
}

func carrier(ctx context.Context) propagation.MapCarrier {
	c := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, c)
	return c
}

// toDto converts a store.Product to a ProductDto.
func toDto(product store.Product) ProductDto {
	return ProductDto(product)
}
