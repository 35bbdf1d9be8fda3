// Package events contains the domain events published by the product catalog.
package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/propagation"
)

const (
	ProductsSubjects      = "products.>"
	ProductCreatedSubject = "products.created"
	ProductUpdatedSubject = "products.updated"
	ProductDeletedSubject = "products.deleted"
)

type ProductCreatedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID int64                  `json:"product_id"`
	Name      string                 `json:"name"`
	Price     decimal.Decimal        `json:"price"`
	CreatedAt time.Time              `json:"created_at"`
}

func (e ProductCreatedEvent) Subject() string {
	return ProductCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductUpdatedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID int64                  `json:"product_id"`
	Name      string                 `json:"name"`
	Price     decimal.Decimal        `json:"price"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func (e ProductUpdatedEvent) Subject() string {
	return ProductUpdatedSubject
}

func (e ProductUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductDeletedEvent struct {
	Carrier   propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID int64                  `json:"product_id"`
	DeletedAt time.Time              `json:"deleted_at"`
}

func (e ProductDeletedEvent) Subject() string {
	return ProductDeletedSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
