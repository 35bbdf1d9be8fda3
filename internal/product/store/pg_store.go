package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/fernando061/software-architecture-styles/internal/product/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// price is selected as text so it round-trips through decimal without float conversion.
const productColumns = "id, name, price::text, created_at"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindAll retrieves all products ordered by ID.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns nil if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	row := p.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// Create adds a new product. ID and created_at are assigned by the database.
func (p *PgStore) Create(ctx context.Context, name string, price decimal.Decimal) (*Product, error) {
	row := p.db.QueryRow(ctx,
		"INSERT INTO products (name, price) VALUES ($1, $2::numeric) RETURNING "+productColumns,
		name, price.String())
	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// Update modifies an existing product's name and price.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, product Product) (*Product, error) {
	row := p.db.QueryRow(ctx,
		"UPDATE products SET name = $2, price = $3::numeric WHERE id = $1 RETURNING "+productColumns,
		product.ID, product.Name, product.Price.String())
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &updated, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns false if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	tag, err := p.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product by ID: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		product Product
		price   string
	)
	if err := row.Scan(&product.ID, &product.Name, &price, &product.CreatedAt); err != nil {
		return Product{}, err
	}
	var err error
	product.Price, err = decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("invalid price %q: %w", price, err)
	}
	return product, nil
}
