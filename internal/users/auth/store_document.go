// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/mercado/internal/platform/apperr"
	"github.com/taibuivan/mercado/internal/platform/docstore"
	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/pkg/slice"
)

// DocumentUserRepository implements [UserRepository] on a document collection.
type DocumentUserRepository struct {
	collection docstore.Collection
	now        func() time.Time
}

// NewUserRepository creates a repository over the users collection.
func NewUserRepository(collection docstore.Collection) *DocumentUserRepository {
	return &DocumentUserRepository{collection: collection, now: time.Now}
}

// FindByID returns the account with the given ID.
func (repository *DocumentUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.findOne(ctx, docstore.ByID(id))
}

// FindByEmail returns the account with the given email.
func (repository *DocumentUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findOne(ctx, docstore.Filter{FieldEmail: email})
}

// FindByUsername returns the account with the given username.
func (repository *DocumentUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findOne(ctx, docstore.Filter{FieldUsername: username})
}

func (repository *DocumentUserRepository) findOne(ctx context.Context, filter docstore.Filter) (*User, error) {
	document, err := repository.collection.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user_find_failed: %w", err)
	}
	return userFromDocument(document), nil
}

// Create inserts the account. A unique index violation becomes a Conflict.
func (repository *DocumentUserRepository) Create(ctx context.Context, user *User) error {
	if err := repository.collection.InsertOne(ctx, userToDocument(user)); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return apperr.Conflict(msgAlreadyExists)
		}
		return fmt.Errorf("user_create_failed: %w", err)
	}
	return nil
}

// SetRefreshToken stores token, or null when token is empty.
func (repository *DocumentUserRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	var value any
	if token != "" {
		value = token
	}
	return repository.update(ctx, userID, docstore.Document{FieldRefreshToken: value})
}

// UpdateRole changes the account role.
func (repository *DocumentUserRepository) UpdateRole(ctx context.Context, userID string, role sec.Role) error {
	return repository.update(ctx, userID, docstore.Document{FieldRole: string(role)})
}

func (repository *DocumentUserRepository) update(ctx context.Context, userID string, set docstore.Document) error {
	set[FieldUpdatedAt] = repository.now().UTC()

	if err := repository.collection.UpdateOne(ctx, docstore.ByID(userID), set); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("user_update_failed: %w", err)
	}
	return nil
}

// List returns a page of accounts and the total count.
func (repository *DocumentUserRepository) List(ctx context.Context, skip, limit int) ([]*User, int, error) {
	total, err := repository.collection.Count(ctx, docstore.Filter{})
	if err != nil {
		return nil, 0, fmt.Errorf("user_count_failed: %w", err)
	}

	documents, err := repository.collection.Find(ctx, docstore.Filter{}, docstore.Page{Skip: skip, Limit: limit})
	if err != nil {
		return nil, 0, fmt.Errorf("user_list_failed: %w", err)
	}

	return slice.Map(documents, userFromDocument), total, nil
}

// # Document Mapping

func userToDocument(user *User) docstore.Document {
	document := docstore.Document{
		docstore.FieldID: user.ID,
		FieldUsername:    user.Username,
		FieldEmail:       user.Email,
		FieldPassword:    user.PasswordHash,
		FieldRole:        string(user.Role),
		FieldCreatedAt:   user.CreatedAt,
		FieldUpdatedAt:   user.UpdatedAt,
	}
	if user.RefreshToken != "" {
		document[FieldRefreshToken] = user.RefreshToken
	}
	return document
}

// userFromDocument maps a stored account. Missing or unknown roles resolve to
// customer without being written back.
func userFromDocument(document docstore.Document) *User {
	return &User{
		ID:           document.ID(),
		Username:     document.String(FieldUsername),
		Email:        document.String(FieldEmail),
		PasswordHash: document.String(FieldPassword),
		Role:         sec.EffectiveRole(document.String(FieldRole)),
		RefreshToken: document.String(FieldRefreshToken),
		CreatedAt:    document.Time(FieldCreatedAt),
		UpdatedAt:    document.Time(FieldUpdatedAt),
	}
}
