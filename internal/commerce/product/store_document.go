// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

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

// DocumentRepository implements [Repository] on the products collection.
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
		return "", fmt.Errorf("product_owner_lookup_failed: %w", err)
	}
	return document.String(FieldOwnerID), nil
}

// FindByID returns a product or NotFound.
func (repository *DocumentRepository) FindByID(ctx context.Context, id string) (*Product, error) {
	document, err := repository.collection.FindOne(ctx, docstore.ByID(id))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperr.NotFound(resourceName)
		}
		return nil, fmt.Errorf("product_find_failed: %w", err)
	}
	return fromDocument(document), nil
}

// List returns a page of products and the total matching count.
func (repository *DocumentRepository) List(ctx context.Context, filter Filter, skip, limit int) ([]*Product, int, error) {
	query := docstore.Filter{}
	if filter.BusinessID != "" {
		query[FieldBusinessID] = filter.BusinessID
	}

	total, err := repository.collection.Count(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("product_count_failed: %w", err)
	}

	documents, err := repository.collection.Find(ctx, query, docstore.Page{Skip: skip, Limit: limit})
	if err != nil {
		return nil, 0, fmt.Errorf("product_list_failed: %w", err)
	}

	return slice.Map(documents, fromDocument), total, nil
}

// Create inserts a product.
func (repository *DocumentRepository) Create(ctx context.Context, product *Product) error {
	if err := repository.collection.InsertOne(ctx, toDocument(product)); err != nil {
		return fmt.Errorf("product_create_failed: %w", err)
	}
	return nil
}

// Update writes the mutable fields. Business and owner never change.
func (repository *DocumentRepository) Update(ctx context.Context, product *Product) error {
	set := docstore.Document{
		FieldName:        product.Name,
		FieldDescription: pointer.Value(product.Description),
		FieldPrice:       product.Price,
		FieldStock:       product.Stock,
		FieldCategory:    pointer.Value(product.Category),
		FieldUpdatedAt:   product.UpdatedAt,
	}

	if err := repository.collection.UpdateOne(ctx, docstore.ByID(product.ID), set); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound(resourceName)
		}
		return fmt.Errorf("product_update_failed: %w", err)
	}
	return nil
}

// Delete removes a product.
func (repository *DocumentRepository) Delete(ctx context.Context, id string) error {
	if err := repository.collection.DeleteOne(ctx, docstore.ByID(id)); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound(resourceName)
		}
		return fmt.Errorf("product_delete_failed: %w", err)
	}
	return nil
}

func toDocument(product *Product) docstore.Document {
	return docstore.Document{
		docstore.FieldID: product.ID,
		FieldName:        product.Name,
		FieldDescription: pointer.Value(product.Description),
		FieldPrice:       product.Price,
		FieldStock:       product.Stock,
		FieldCategory:    pointer.Value(product.Category),
		FieldBusinessID:  product.BusinessID,
		FieldOwnerID:     product.OwnerID,
		FieldCreatedAt:   product.CreatedAt,
		FieldUpdatedAt:   product.UpdatedAt,
	}
}

func fromDocument(document docstore.Document) *Product {
	return &Product{
		ID:          document.ID(),
		Name:        document.String(FieldName),
		Price:       document.Float(FieldPrice),
		Stock:       document.Int(FieldStock),
		BusinessID:  document.String(FieldBusinessID),
		OwnerID:     document.String(FieldOwnerID),
		Description: pointer.NonZero(document.String(FieldDescription)),
		Category:    pointer.NonZero(document.String(FieldCategory)),
		CreatedAt:   document.Time(FieldCreatedAt),
		UpdatedAt:   document.Time(FieldUpdatedAt),
	}
}
