// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package business

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
	"github.com/taibuivan/mercado/pkg/slug"
	"github.com/taibuivan/mercado/pkg/uuid"
)

// # Service Layer

// Service implements business use cases.
type Service struct {
	repo     Repository
	promoter RolePromoter
	now      func() time.Time
}

// NewService constructs a [Service].
func NewService(repo Repository, promoter RolePromoter) *Service {
	return &Service{repo: repo, promoter: promoter, now: time.Now}
}

// # Queries

// List returns one page of businesses.
func (service *Service) List(ctx context.Context, filter Filter, params pagination.Params) ([]*Business, int, error) {
	businesses, total, err := service.repo.List(ctx, filter, params.Skip(), params.Limit)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return businesses, total, nil
}

// Get returns a single business.
func (service *Service) Get(ctx context.Context, id string) (*Business, error) {
	business, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap(err)
	}
	return business, nil
}

// # Commands

// CreateInput holds the data for a new business. The owner is always the caller.
type CreateInput struct {
	Name        string
	Description *string
	Category    *string
}

/*
Create opens a business owned by actor.

Description: After the insert, a customer opening their first business is
promoted to seller. Customers who already own businesses keep their role, so
an admin demotion sticks. A failed promotion is logged and does not undo the
business.

Returns:
  - *Business: the stored business
  - error: Unauthorized, Forbidden, ValidationError, or Internal
*/
func (service *Service) Create(ctx context.Context, actor *sec.Identity, input CreateInput) (*Business, error) {
	if err := guard.Check(ctx, actor, guard.Permission(sec.PermBusinessCreate)); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, NameMaxLength)
	validateOptional(validator, input.Description, input.Category)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	business := &Business{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		Category:    input.Category,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	business.Slug = slugFor(business)

	if err := service.repo.Create(ctx, business); err != nil {
		return nil, apperr.Internal(err)
	}

	logger := ctxutil.GetLogger(ctx)
	logger.Info("business_created",
		slog.String("business_id", business.ID),
		slog.String("owner_id", actor.ID),
	)

	if actor.Role == sec.RoleCustomer {
		service.promoteFirstOwner(ctx, actor.ID)
	}

	return business, nil
}

// promoteFirstOwner promotes ownerID only when the business just created is
// their only one.
func (service *Service) promoteFirstOwner(ctx context.Context, ownerID string) {
	logger := ctxutil.GetLogger(ctx)

	_, owned, err := service.repo.List(ctx, Filter{OwnerID: ownerID}, 0, 2)
	if err == nil && owned != 1 {
		logger.Info("business_owner_promotion_skipped",
			slog.String("owner_id", ownerID),
			slog.Int("owned", owned),
		)
		return
	}
	if err == nil {
		err = service.promoter.PromoteToSeller(ctx, ownerID)
	}
	if err != nil {
		logger.Error("business_owner_promotion_failed",
			slog.String("owner_id", ownerID),
			slog.Any("error", err),
		)
	}
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Category    *string
}

// Update applies input to a business owned by actor. The actor's role must
// grant business:manage.
func (service *Service) Update(ctx context.Context, actor *sec.Identity, id string, input UpdateInput) (*Business, error) {
	if err := guard.Check(ctx, actor, guard.Permission(sec.PermBusinessManage), guard.Owns(service.repo, id)); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
		validator.Required(FieldName, trimmed).MaxLen(FieldName, trimmed, NameMaxLength)
	}
	validateOptional(validator, input.Description, input.Category)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	business, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap(err)
	}

	if input.Name != nil {
		business.Name = *input.Name
		business.Slug = slugFor(business)
	}
	if input.Description != nil {
		business.Description = input.Description
	}
	if input.Category != nil {
		business.Category = input.Category
	}
	business.UpdatedAt = service.now().UTC()

	if err := service.repo.Update(ctx, business); err != nil {
		return nil, wrap(err)
	}

	ctxutil.GetLogger(ctx).Info("business_updated", slog.String("business_id", id))
	return business, nil
}

// Delete removes a business owned by actor. Its products are left in place.
func (service *Service) Delete(ctx context.Context, actor *sec.Identity, id string) error {
	if err := guard.Check(ctx, actor, guard.Permission(sec.PermBusinessManage), guard.Owns(service.repo, id)); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		return wrap(err)
	}

	ctxutil.GetLogger(ctx).Info("business_deleted", slog.String("business_id", id))
	return nil
}

// # Helpers

func validateOptional(validator *validate.Validator, description, category *string) {
	if description != nil {
		validator.MaxLen(FieldDescription, *description, DescriptionMaxLength)
	}
	if category != nil {
		validator.MaxLen(FieldCategory, *category, CategoryMaxLength)
	}
}

// slugFor falls back to the ID when the name has no ASCII letters or digits.
func slugFor(business *Business) string {
	if s := slug.From(business.Name); s != "" {
		return s
	}
	return business.ID
}

func wrap(err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	return apperr.Internal(fmt.Errorf("business_service: %w", err))
}
