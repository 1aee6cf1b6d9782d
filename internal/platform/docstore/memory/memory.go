// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package memory implements [docstore.Store] with process-local maps.
//
// It backs the test suites and STORE_DRIVER=memory for local development.
// Data is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/taibuivan/mercado/internal/platform/docstore"
)

// Store is a thread-safe in-memory document store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	unique      map[string][]string
}

// Option configures a [Store].
type Option func(*Store)

// WithUnique declares a unique field on a collection, mirroring the indexes
// created by the persistent backends.
func WithUnique(collection, field string) Option {
	return func(store *Store) {
		store.unique[collection] = append(store.unique[collection], field)
	}
}

// New creates an empty store.
func New(options ...Option) *Store {
	store := &Store{
		collections: make(map[string]*Collection),
		unique:      make(map[string][]string),
	}
	for _, option := range options {
		option(store)
	}
	return store
}

// Collection returns the named collection, creating it on first use.
func (store *Store) Collection(name string) docstore.Collection {
	store.mu.Lock()
	defer store.mu.Unlock()

	collection, found := store.collections[name]
	if !found {
		collection = &Collection{uniqueFields: store.unique[name]}
		store.collections[name] = collection
	}
	return collection
}

// Ping always succeeds.
func (store *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (store *Store) Close(context.Context) error { return nil }

// Collection holds documents in insertion order.
type Collection struct {
	mu           sync.RWMutex
	documents    []docstore.Document
	uniqueFields []string
}

// FindOne returns a copy of the first matching document.
func (collection *Collection) FindOne(_ context.Context, filter docstore.Filter) (docstore.Document, error) {
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	index := collection.indexOf(filter)
	if index < 0 {
		return nil, docstore.ErrNotFound
	}
	return collection.documents[index].Clone(), nil
}

// Find returns copies of the matching documents within the page.
func (collection *Collection) Find(_ context.Context, filter docstore.Filter, page docstore.Page) ([]docstore.Document, error) {
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	results := make([]docstore.Document, 0)
	skipped := 0
	for _, document := range collection.documents {
		if !matches(document, filter) {
			continue
		}
		if skipped < page.Skip {
			skipped++
			continue
		}
		if page.Limit > 0 && len(results) >= page.Limit {
			break
		}
		results = append(results, document.Clone())
	}
	return results, nil
}

// Count returns the number of matching documents.
func (collection *Collection) Count(_ context.Context, filter docstore.Filter) (int, error) {
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	total := 0
	for _, document := range collection.documents {
		if matches(document, filter) {
			total++
		}
	}
	return total, nil
}

// InsertOne appends a copy of the document.
func (collection *Collection) InsertOne(_ context.Context, document docstore.Document) error {
	if document.ID() == "" {
		return fmt.Errorf("memory: document is missing %s", docstore.FieldID)
	}

	collection.mu.Lock()
	defer collection.mu.Unlock()

	if collection.indexOf(docstore.ByID(document.ID())) >= 0 {
		return docstore.ErrDuplicate
	}
	for _, field := range collection.uniqueFields {
		value, present := document[field]
		if present && collection.indexOf(docstore.Filter{field: value}) >= 0 {
			return docstore.ErrDuplicate
		}
	}

	collection.documents = append(collection.documents, document.Clone())
	return nil
}

// UpdateOne merges set into the first matching document.
func (collection *Collection) UpdateOne(_ context.Context, filter docstore.Filter, set docstore.Document) error {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	index := collection.indexOf(filter)
	if index < 0 {
		return docstore.ErrNotFound
	}

	updated := collection.documents[index].Clone()
	for key, value := range set {
		updated[key] = value
	}
	collection.documents[index] = updated
	return nil
}

// DeleteOne removes the first matching document.
func (collection *Collection) DeleteOne(_ context.Context, filter docstore.Filter) error {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	index := collection.indexOf(filter)
	if index < 0 {
		return docstore.ErrNotFound
	}
	collection.documents = append(collection.documents[:index], collection.documents[index+1:]...)
	return nil
}

// indexOf must be called with the lock held.
func (collection *Collection) indexOf(filter docstore.Filter) int {
	for index, document := range collection.documents {
		if matches(document, filter) {
			return index
		}
	}
	return -1
}

func matches(document docstore.Document, filter docstore.Filter) bool {
	for key, want := range filter {
		got, present := document[key]
		if !present || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
