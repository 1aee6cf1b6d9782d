// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package docstore defines the document collection contract used by every
repository in Mercado.

The contract is intentionally small: equality filters, `$set`-style partial
updates, and single-document writes. Backends live in sub-packages:

  - mongo: MongoDB (default production backend).
  - postgres: a single JSONB table partitioned by collection name.
  - memory: process-local maps for tests and local development.

Repositories convert between their domain structs and [Document] values, so
storage field names (`_id`, `owner_id`, `refresh_token`) never leak into JSON
responses.
*/
package docstore

import (
	"context"
	"errors"
	"math"
	"time"
)

// # Errors

var (
	// ErrNotFound is returned when no document matches a filter.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("docstore: duplicate key")
)

// FieldID is the primary key field of every document.
const FieldID = "_id"

// # Contracts

// Filter matches documents whose fields equal every given value.
type Filter map[string]any

// ByID builds a filter on the primary key.
func ByID(id string) Filter {
	return Filter{FieldID: id}
}

// Page bounds a [Collection.Find] call.
type Page struct {
	Skip  int
	Limit int
}

// Collection is a named set of documents.
type Collection interface {
	// FindOne returns the first document matching filter, or [ErrNotFound].
	FindOne(ctx context.Context, filter Filter) (Document, error)

	// Find returns documents matching filter in insertion order.
	Find(ctx context.Context, filter Filter, page Page) ([]Document, error)

	// Count returns the number of documents matching filter.
	Count(ctx context.Context, filter Filter) (int, error)

	// InsertOne stores a new document. The document must carry [FieldID].
	InsertOne(ctx context.Context, document Document) error

	// UpdateOne merges set into the first document matching filter.
	// Returns [ErrNotFound] when nothing matched.
	UpdateOne(ctx context.Context, filter Filter, set Document) error

	// DeleteOne removes the first document matching filter.
	// Returns [ErrNotFound] when nothing matched.
	DeleteOne(ctx context.Context, filter Filter) error
}

// Store hands out collections and owns the backend connection.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// # Documents

// Document is a schemaless record. Values are strings, numbers, booleans and
// [time.Time]; backends normalize their native types to these on read.
type Document map[string]any

// ID returns the primary key.
func (d Document) ID() string {
	return d.String(FieldID)
}

// String returns the string value of key, or "" if absent or of another type.
func (d Document) String(key string) string {
	value, _ := d[key].(string)
	return value
}

// Float returns the numeric value of key as float64.
func (d Document) Float(key string) float64 {
	switch value := d[key].(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int32:
		return float64(value)
	case int64:
		return float64(value)
	default:
		return 0
	}
}

// Int returns the numeric value of key as int. Fractions are truncated.
func (d Document) Int(key string) int {
	switch value := d[key].(type) {
	case int:
		return value
	case int32:
		return int(value)
	case int64:
		return int(value)
	case float64:
		return int(math.Trunc(value))
	default:
		return 0
	}
}

// Time returns the timestamp at key. JSON-backed stores hand back RFC 3339
// strings; those are parsed here.
func (d Document) Time(key string) time.Time {
	switch value := d[key].(type) {
	case time.Time:
		return value
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return time.Time{}
		}
		return parsed
	default:
		return time.Time{}
	}
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	clone := make(Document, len(d))
	for key, value := range d {
		clone[key] = value
	}
	return clone
}
