package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	perrors "github.com/fernando061/software-architecture-styles/internal/product/errors"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// productRecord is the gorm model of the products table.
type productRecord struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	Name      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:text;not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (productRecord) TableName() string {
	return "products"
}

func (r productRecord) toProduct() Product {
	return Product{ID: r.ID, Name: r.Name, Price: r.Price, CreatedAt: r.CreatedAt}
}

// GormStore implements ProductStore on top of gorm.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenSqlite opens a sqlite database at path with a single connection.
func OpenSqlite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite connection: %w", err)
	}
	// sqlite has a single writer, and each :memory: connection is a separate database.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// NewGormStore migrates the products table and applies the seed if the table is empty.
func NewGormStore(ctx context.Context, db *gorm.DB, opts ...Option) (*GormStore, error) {
	o := newOptions(opts)
	s := &GormStore{db: db, now: o.now}

	if err := db.WithContext(ctx).AutoMigrate(&productRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	if len(o.seed) == 0 {
		return s, nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&productRecord{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return s, nil
	}
	records := make([]productRecord, len(o.seed))
	for i, p := range o.seed {
		records[i] = productRecord{ID: p.ID, Name: p.Name, Price: p.Price, CreatedAt: p.CreatedAt}
	}
	if err := db.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to seed products: %w", err)
	}
	return s, nil
}

// FindAll retrieves all products ordered by ID.
func (s *GormStore) FindAll(ctx context.Context) ([]Product, error) {
	var records []productRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products := make([]Product, len(records))
	for i, r := range records {
		products[i] = r.toProduct()
	}
	return products, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns nil if no product exists with the given ID.
func (s *GormStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	var record productRecord
	err := s.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	p := record.toProduct()
	return &p, nil
}

// Create adds a new product.
func (s *GormStore) Create(ctx context.Context, name string, price decimal.Decimal) (*Product, error) {
	record := productRecord{Name: name, Price: price, CreatedAt: s.now()}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	p := record.toProduct()
	return &p, nil
}

// Update modifies an existing product's name and price.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *GormStore) Update(ctx context.Context, product Product) (*Product, error) {
	var updated *Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&productRecord{}).Where("id = ?", product.ID).
			Updates(map[string]any{"name": product.Name, "price": product.Price})
		if res.Error != nil {
			return fmt.Errorf("failed to update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return perrors.ErrProductNotFound
		}
		var record productRecord
		if err := tx.First(&record, product.ID).Error; err != nil {
			return fmt.Errorf("failed to reload product: %w", err)
		}
		p := record.toProduct()
		updated = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns false if no product exists with the given ID.
func (s *GormStore) DeleteByID(ctx context.Context, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&productRecord{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete product by ID: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
