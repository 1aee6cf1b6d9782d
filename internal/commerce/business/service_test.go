// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package business_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mercado/internal/commerce/business"
	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/constants"
	"github.com/taibuivan/mercado/internal/platform/docstore/memory"
	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/pkg/pagination"
	"github.com/taibuivan/mercado/pkg/pointer"
)

// recordingPromoter remembers which users were promoted.
type recordingPromoter struct {
	promoted []string
	err      error
}

func (p *recordingPromoter) PromoteToSeller(_ context.Context, userID string) error {
	p.promoted = append(p.promoted, userID)
	return p.err
}

var (
	ownerA    = &sec.Identity{ID: "user-a", Role: sec.RoleCustomer}
	// sellerA is ownerA after the promotion that follows their first business.
	sellerA   = &sec.Identity{ID: "user-a", Role: sec.RoleSeller}
	strangerC = &sec.Identity{ID: "user-c", Role: sec.RoleSeller}
	adminZ    = &sec.Identity{ID: "user-z", Role: sec.RoleAdmin}
)

func newService(t *testing.T) (*business.Service, *business.DocumentRepository, *recordingPromoter) {
	t.Helper()
	repo := business.NewRepository(memory.New().Collection(constants.CollectionBusinesses))
	promoter := &recordingPromoter{}
	return business.NewService(repo, promoter), repo, promoter
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected AppError, got %v", err)
	return ae.Code
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	service, _, promoter := newService(t)

	created, err := service.Create(ctx, ownerA, business.CreateInput{
		Name:     "  Panadería Ñandú ",
		Category: pointer.To("Bakery"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Panadería Ñandú", created.Name)
	assert.Equal(t, "panaderia-nandu", created.Slug)
	assert.Equal(t, "user-a", created.OwnerID)
	assert.Nil(t, created.Description)
	assert.Equal(t, []string{"user-a"}, promoter.promoted)

	stored, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bakery", pointer.Val(stored.Category))

	_, err = service.Create(ctx, strangerC, business.CreateInput{Name: "Second"})
	require.NoError(t, err)
	assert.Len(t, promoter.promoted, 1, "sellers are not promoted again")
}

func TestService_Create_Rejects(t *testing.T) {
	ctx := context.Background()
	service, _, promoter := newService(t)

	_, err := service.Create(ctx, nil, business.CreateInput{Name: "Shop"})
	assert.Equal(t, "UNAUTHORIZED", codeOf(t, err))

	_, err = service.Create(ctx, ownerA, business.CreateInput{Name: "   "})
	assert.Equal(t, "VALIDATION_ERROR", codeOf(t, err))

	_, err = service.Create(ctx, ownerA, business.CreateInput{Name: "Shop", Category: pointer.To(strings.Repeat("c", 51))})
	assert.Equal(t, "VALIDATION_ERROR", codeOf(t, err))

	assert.Empty(t, promoter.promoted)
}

func TestService_Create_PromotionFailureKeepsBusiness(t *testing.T) {
	ctx := context.Background()
	service, _, promoter := newService(t)
	promoter.err = errors.New("store down")

	created, err := service.Create(ctx, ownerA, business.CreateInput{Name: "Shop"})
	require.NoError(t, err)

	_, err = service.Get(ctx, created.ID)
	require.NoError(t, err)
}

func TestService_Create_SlugFallback(t *testing.T) {
	service, _, _ := newService(t)

	created, err := service.Create(context.Background(), ownerA, business.CreateInput{Name: "東京"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, created.Slug)
}

/*
TestService_Ownership checks that only the owner may update or delete.
*/
func TestService_Ownership(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService(t)

	created, err := service.Create(ctx, ownerA, business.CreateInput{Name: "Shop A"})
	require.NoError(t, err)

	_, err = service.Update(ctx, strangerC, created.ID, business.UpdateInput{Name: pointer.To("Hijacked")})
	assert.Equal(t, "FORBIDDEN", codeOf(t, err))

	_, err = service.Update(ctx, adminZ, created.ID, business.UpdateInput{Name: pointer.To("Hijacked")})
	assert.Equal(t, "FORBIDDEN", codeOf(t, err), "admins do not bypass ownership")

	assert.Equal(t, "FORBIDDEN", codeOf(t, service.Delete(ctx, strangerC, created.ID)))

	unchanged, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shop A", unchanged.Name)

	updated, err := service.Update(ctx, sellerA, created.ID, business.UpdateInput{
		Name:        pointer.To("Shop A Plus"),
		Description: pointer.To("Open late"),
	})
	require.NoError(t, err)
	assert.Equal(t, "shop-a-plus", updated.Slug)
	assert.Equal(t, "Open late", pointer.Val(updated.Description))
	assert.True(t, !updated.UpdatedAt.Before(created.UpdatedAt))

	require.NoError(t, service.Delete(ctx, sellerA, created.ID))

	_, err = service.Get(ctx, created.ID)
	assert.Equal(t, "NOT_FOUND", codeOf(t, err))

	assert.Equal(t, "NOT_FOUND", codeOf(t, service.Delete(ctx, sellerA, created.ID)))
}

/*
TestService_Manage_RequiresPermission checks that owning a business is not
enough: a customer owner, e.g. one demoted by an admin, may not change it.
*/
func TestService_Manage_RequiresPermission(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService(t)

	created, err := service.Create(ctx, ownerA, business.CreateInput{Name: "Shop A"})
	require.NoError(t, err)

	_, err = service.Update(ctx, ownerA, created.ID, business.UpdateInput{Name: pointer.To("Renamed")})
	assert.Equal(t, "FORBIDDEN", codeOf(t, err))
	assert.Equal(t, "FORBIDDEN", codeOf(t, service.Delete(ctx, ownerA, created.ID)))

	unchanged, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shop A", unchanged.Name)
}

/*
TestService_Create_PromotesOnlyFirstBusiness checks that a customer who already
owns a business, such as a demoted seller, is not promoted again.
*/
func TestService_Create_PromotesOnlyFirstBusiness(t *testing.T) {
	ctx := context.Background()
	service, _, promoter := newService(t)

	_, err := service.Create(ctx, ownerA, business.CreateInput{Name: "First"})
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a"}, promoter.promoted)

	_, err = service.Create(ctx, ownerA, business.CreateInput{Name: "Second"})
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a"}, promoter.promoted, "demotion sticks")
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService(t)

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := service.Create(ctx, ownerA, business.CreateInput{Name: name})
		require.NoError(t, err)
	}
	_, err := service.Create(ctx, strangerC, business.CreateInput{Name: "Other"})
	require.NoError(t, err)

	all, total, err := service.List(ctx, business.Filter{}, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, all, 2)

	mine, total, err := service.List(ctx, business.Filter{OwnerID: "user-a"}, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, mine, 1)
	assert.Equal(t, "Three", mine[0].Name)
}

func TestRepository_OwnerOf(t *testing.T) {
	ctx := context.Background()
	service, repo, _ := newService(t)

	created, err := service.Create(ctx, ownerA, business.CreateInput{Name: "Shop"})
	require.NoError(t, err)

	owner, err := repo.OwnerOf(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-a", owner)
	assert.Equal(t, "Business", repo.Resource())

	_, err = repo.OwnerOf(ctx, "missing")
	assert.Error(t, err)
}
