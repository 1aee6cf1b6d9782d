// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package product manages the items a business sells.

Products belong to a business and carry the business owner's ID, so the
ownership check on updates never needs a second lookup.
*/
package product

import (
	"context"
	"time"

	"github.com/taibuivan/mercado/internal/platform/guard"
)

// Product is a sellable item.
type Product struct {
	ID          string    `json:"id"` // UUIDv7
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    *string   `json:"category,omitempty"`
	BusinessID  string    `json:"business_id"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows product listings.
type Filter struct {
	BusinessID string
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldStock       = "stock"
	FieldCategory    = "category"
	FieldBusinessID  = "business_id"
	FieldOwnerID     = "owner_id"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// # Limits

const (
	NameMinLength        = 3
	NameMaxLength        = 100
	DescriptionMaxLength = 500
	CategoryMaxLength    = 50
)

const resourceName = "Product"

// Repository persists products.
type Repository interface {
	guard.OwnerLookup

	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter Filter, skip, limit int) ([]*Product, int, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}
