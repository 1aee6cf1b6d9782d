// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package business manages the storefronts sellers operate.

# Core Responsibility

  - Catalog: Defines the [Business] entity and its public listing.
  - Ownership: Every business has exactly one owner; only that owner may
    change or remove it. The repository doubles as the [guard.OwnerLookup]
    used by the product domain.
  - Promotion: Opening a business turns a customer into a seller.
*/
package business

import (
	"context"
	"time"

	"github.com/taibuivan/mercado/internal/platform/guard"
)

// # Core Entities

// Business is a storefront owned by a single user.
type Business struct {
	ID          string    `json:"id"` // UUIDv7
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows business listings.
type Filter struct {
	OwnerID string
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldOwnerID     = "owner_id"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// # Limits

const (
	NameMaxLength        = 100
	DescriptionMaxLength = 500
	CategoryMaxLength    = 50
)

// resourceName is used in NotFound messages.
const resourceName = "Business"

// # Repository Contracts

// Repository persists businesses.
type Repository interface {
	guard.OwnerLookup

	FindByID(ctx context.Context, id string) (*Business, error)
	List(ctx context.Context, filter Filter, skip, limit int) ([]*Business, int, error)
	Create(ctx context.Context, business *Business) error
	Update(ctx context.Context, business *Business) error
	Delete(ctx context.Context, id string) error
}

// RolePromoter upgrades the owner of a newly created business.
type RolePromoter interface {
	PromoteToSeller(ctx context.Context, userID string) error
}
