// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/docstore"
	"github.com/taibuivan/mercado/internal/platform/guard"
	"github.com/taibuivan/mercado/pkg/pointer"
	"github.com/taibuivan/mercado/pkg/slice"
)

// DocumentRepository implements [Repository] on the businesses collection.
type DocumentRepository struct {
	collection docstore.Collection
}

// NewRepository wraps a document collection.
func NewRepository(collection docstore.Collection) *DocumentRepository {
	return &DocumentRepository{collection: collection}
}

// Resource implements [guard.OwnerLookup].
func (repository *DocumentRepository) Resource() string { return resourceName }

// OwnerOf implements [guard.OwnerLookup].
func (repository *DocumentRepository) OwnerOf(ctx context.Context, id string) (string, error) {
	document, err := repository.collection.FindOne(ctx, docstore.ByID(id))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", guard.ErrResourceNotFound
		}
		return "", fmt.Errorf("business_owner_lookup_failed: %w", err)
	}
	return document.String(FieldOwnerID), nil
}

// FindByID returns a business or NotFound.
func (repository *DocumentRepository) FindByID(ctx context.Context, id string) (*Business, error) {
	document, err := repository.collection.FindOne(ctx, docstore.ByID(id))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperr.NotFound(resourceName)
		}
		return nil, fmt.Errorf("business_find_failed: %w", err)
	}
	return fromDocument(document), nil
}

// List returns a page of businesses and the total matching count.
func (repository *DocumentRepository) List(ctx context.Context, filter Filter, skip, limit int) ([]*Business, int, error) {
	query := docstore.Filter{}
	if filter.OwnerID != "" {
		query[FieldOwnerID] = filter.OwnerID
	}

	total, err := repository.collection.Count(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("business_count_failed: %w", err)
	}

	documents, err := repository.collection.Find(ctx, query, docstore.Page{Skip: skip, Limit: limit})
	if err != nil {
		return nil, 0, fmt.Errorf("business_list_failed: %w", err)
	}

	return slice.Map(documents, fromDocument), total, nil
}

// Create inserts a business.
func (repository *DocumentRepository) Create(ctx context.Context, business *Business) error {
	if err := repository.collection.InsertOne(ctx, toDocument(business)); err != nil {
		return fmt.Errorf("business_create_failed: %w", err)
	}
	return nil
}

// Update writes the mutable fields of business.
func (repository *DocumentRepository) Update(ctx context.Context, business *Business) error {
	set := docstore.Document{
		FieldName:        business.Name,
		FieldSlug:        business.Slug,
		FieldDescription: pointer.Value(business.Description),
		FieldCategory:    pointer.Value(business.Category),
		FieldUpdatedAt:   business.UpdatedAt,
	}

	if err := repository.collection.UpdateOne(ctx, docstore.ByID(business.ID), set); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound(resourceName)
		}
		return fmt.Errorf("business_update_failed: %w", err)
	}
	return nil
}

// Delete removes a business.
func (repository *DocumentRepository) Delete(ctx context.Context, id string) error {
	if err := repository.collection.DeleteOne(ctx, docstore.ByID(id)); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound(resourceName)
		}
		return fmt.Errorf("business_delete_failed: %w", err)
	}
	return nil
}

// # Document Mapping

func toDocument(business *Business) docstore.Document {
	return docstore.Document{
		docstore.FieldID: business.ID,
		FieldName:        business.Name,
		FieldSlug:        business.Slug,
		FieldDescription: pointer.Value(business.Description),
		FieldCategory:    pointer.Value(business.Category),
		FieldOwnerID:     business.OwnerID,
		FieldCreatedAt:   business.CreatedAt,
		FieldUpdatedAt:   business.UpdatedAt,
	}
}

func fromDocument(document docstore.Document) *Business {
	return &Business{
		ID:          document.ID(),
		Name:        document.String(FieldName),
		Slug:        document.String(FieldSlug),
		Description: pointer.NonZero(document.String(FieldDescription)),
		Category:    pointer.NonZero(document.String(FieldCategory)),
		OwnerID:     document.String(FieldOwnerID),
		CreatedAt:   document.Time(FieldCreatedAt),
		UpdatedAt:   document.Time(FieldUpdatedAt),
	}
}
