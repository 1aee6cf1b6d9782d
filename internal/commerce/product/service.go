// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/ctxutil"
	"github.com/taibuivan/mercado/internal/platform/guard"
	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/internal/platform/validate"
	"github.com/taibuivan/mercado/pkg/pagination"
	"github.com/taibuivan/mercado/pkg/uuid"
)

// Service implements product use cases.
type Service struct {
	repo       Repository
	businesses guard.OwnerLookup
	now        func() time.Time
}

// NewService constructs a [Service]. businesses resolves the owner of the
// business a product is added to.
func NewService(repo Repository, businesses guard.OwnerLookup) *Service {
	return &Service{repo: repo, businesses: businesses, now: time.Now}
}

// List returns one page of products, optionally for a single business.
func (service *Service) List(ctx context.Context, filter Filter, params pagination.Params) ([]*Product, int, error) {
	products, total, err := service.repo.List(ctx, filter, params.Skip(), params.Limit)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return products, total, nil
}

// Get returns a single product.
func (service *Service) Get(ctx context.Context, id string) (*Product, error) {
	product, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap(err)
	}
	return product, nil
}

// CreateInput holds the data for a new product.
type CreateInput struct {
	BusinessID  string
	Name        string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
}

/*
Create adds a product to a business.

Description: The caller needs the product:manage permission and must own the
target business. Rules are checked in that order, before the input is
validated. A missing business_id skips the ownership rule and fails
validation.

Returns:
  - *Product: the stored product
  - error: Unauthorized, Forbidden, NotFound (business), ValidationError, or Internal
*/
func (service *Service) Create(ctx context.Context, actor *sec.Identity, input CreateInput) (*Product, error) {
	rules := []guard.Rule{guard.Permission(sec.PermProductManage)}
	if input.BusinessID != "" {
		rules = append(rules, guard.Owns(service.businesses, input.BusinessID))
	}
	if err := guard.Check(ctx, actor, rules...); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldBusinessID, input.BusinessID)
	validateName(validator, name)
	validator.Present(FieldPrice, input.Price != nil).Present(FieldStock, input.Stock != nil)
	if input.Price != nil {
		validator.Positive(FieldPrice, *input.Price)
	}
	if input.Stock != nil {
		validator.NonNegative(FieldStock, *input.Stock)
	}
	validateOptional(validator, input.Description, input.Category)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	product := &Product{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		Price:       *input.Price,
		Stock:       *input.Stock,
		Category:    input.Category,
		BusinessID:  input.BusinessID,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.repo.Create(ctx, product); err != nil {
		return nil, apperr.Internal(err)
	}

	ctxutil.GetLogger(ctx).Info("product_created",
		slog.String("product_id", product.ID),
		slog.String("business_id", product.BusinessID),
	)
	return product, nil
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
}

// Update applies input to a product owned by actor.
func (service *Service) Update(ctx context.Context, actor *sec.Identity, id string, input UpdateInput) (*Product, error) {
	if err := guard.Check(ctx, actor, guard.Owns(service.repo, id)); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
		validateName(validator, trimmed)
	}
	if input.Price != nil {
		validator.Positive(FieldPrice, *input.Price)
	}
	if input.Stock != nil {
		validator.NonNegative(FieldStock, *input.Stock)
	}
	validateOptional(validator, input.Description, input.Category)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	product, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap(err)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	product.UpdatedAt = service.now().UTC()

	if err := service.repo.Update(ctx, product); err != nil {
		return nil, wrap(err)
	}

	ctxutil.GetLogger(ctx).Info("product_updated", slog.String("product_id", id))
	return product, nil
}

// Delete removes a product owned by actor.
func (service *Service) Delete(ctx context.Context, actor *sec.Identity, id string) error {
	if err := guard.Check(ctx, actor, guard.Owns(service.repo, id)); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return wrap(err)
	}

	ctxutil.GetLogger(ctx).Info("product_deleted", slog.String("product_id", id))
	return nil
}

func validateName(validator *validate.Validator, name string) {
	validator.Required(FieldName, name).
		MinLen(FieldName, name, NameMinLength).
		MaxLen(FieldName, name, NameMaxLength)
}

func validateOptional(validator *validate.Validator, description, category *string) {
	if description != nil {
		validator.MaxLen(FieldDescription, *description, DescriptionMaxLength)
	}
	if category != nil {
		validator.MaxLen(FieldCategory, *category, CategoryMaxLength)
	}
}

func wrap(err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	return apperr.Internal(fmt.Errorf("product_service: %w", err))
}
