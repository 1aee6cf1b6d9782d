// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package postgres implements [docstore.Store] on a single PostgreSQL table.

Every collection shares the `documents` table created by the migrations in
data/migrations. Bodies are JSONB; equality filters become `body @> $filter`
containment checks and partial updates use the `||` merge operator.

Timestamps round-trip as RFC 3339 strings and are parsed back by
[docstore.Document.Time].
*/
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mercado/internal/platform/docstore"
	pgpool "github.com/taibuivan/mercado/internal/platform/postgres"
)

// uniqueViolation is the SQLSTATE raised by unique indexes.
const uniqueViolation = "23505"

// Store is a [docstore.Store] over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an established pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Collection returns the named collection.
func (store *Store) Collection(name string) docstore.Collection {
	return &Collection{pool: store.pool, name: name}
}

// Ping checks pool health.
func (store *Store) Ping(ctx context.Context) error {
	return pgpool.Ping(ctx, store.pool)
}

// Close releases all pooled connections.
func (store *Store) Close(context.Context) error {
	store.pool.Close()
	return nil
}

// Collection scopes queries to one collection name.
type Collection struct {
	pool *pgxpool.Pool
	name string
}

// FindOne returns the oldest matching document.
func (c *Collection) FindOne(ctx context.Context, filter docstore.Filter) (docstore.Document, error) {
	containment, err := encode(filter)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, body FROM documents
		WHERE collection = $1 AND body @> $2::jsonb
		ORDER BY created_at, id
		LIMIT 1`

	var (
		id   string
		body []byte
	)
	err = c.pool.QueryRow(ctx, query, c.name, containment).Scan(&id, &body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("find_one_failed: %w", err)
	}

	return decode(id, body)
}

// Find returns a page of matching documents in creation order.
func (c *Collection) Find(ctx context.Context, filter docstore.Filter, page docstore.Page) ([]docstore.Document, error) {
	containment, err := encode(filter)
	if err != nil {
		return nil, err
	}

	// LIMIT NULL means no limit.
	var limit *int
	if page.Limit > 0 {
		limit = &page.Limit
	}

	query := `
		SELECT id, body FROM documents
		WHERE collection = $1 AND body @> $2::jsonb
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4`

	rows, err := c.pool.Query(ctx, query, c.name, containment, limit, page.Skip)
	if err != nil {
		return nil, fmt.Errorf("find_failed: %w", err)
	}
	defer rows.Close()

	documents := make([]docstore.Document, 0)
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("find_scan_failed: %w", err)
		}
		document, err := decode(id, body)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	return documents, rows.Err()
}

// Count returns the number of matching documents.
func (c *Collection) Count(ctx context.Context, filter docstore.Filter) (int, error) {
	containment, err := encode(filter)
	if err != nil {
		return 0, err
	}

	var total int
	query := `SELECT COUNT(*) FROM documents WHERE collection = $1 AND body @> $2::jsonb`
	if err := c.pool.QueryRow(ctx, query, c.name, containment).Scan(&total); err != nil {
		return 0, fmt.Errorf("count_failed: %w", err)
	}
	return total, nil
}

// InsertOne stores the document. The primary key is kept both as a column and
// inside the body so filters on `_id` work through containment.
func (c *Collection) InsertOne(ctx context.Context, document docstore.Document) error {
	id := document.ID()
	if id == "" {
		return fmt.Errorf("postgres: document is missing %s", docstore.FieldID)
	}

	body, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("postgres: encode document: %w", err)
	}

	query := `INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`
	if _, err := c.pool.Exec(ctx, query, c.name, id, body); err != nil {
		return mapWriteError("insert_one_failed", err)
	}
	return nil
}

// UpdateOne merges set into the oldest matching document.
func (c *Collection) UpdateOne(ctx context.Context, filter docstore.Filter, set docstore.Document) error {
	containment, err := encode(filter)
	if err != nil {
		return err
	}
	patch, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("postgres: encode update: %w", err)
	}

	query := `
		WITH target AS (
			SELECT id FROM documents
			WHERE collection = $1 AND body @> $2::jsonb
			ORDER BY created_at, id
			LIMIT 1
		)
		UPDATE documents d SET body = d.body || $3::jsonb
		FROM target
		WHERE d.collection = $1 AND d.id = target.id`

	tag, err := c.pool.Exec(ctx, query, c.name, containment, patch)
	if err != nil {
		return mapWriteError("update_one_failed", err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// DeleteOne removes the oldest matching document.
func (c *Collection) DeleteOne(ctx context.Context, filter docstore.Filter) error {
	containment, err := encode(filter)
	if err != nil {
		return err
	}

	query := `
		WITH target AS (
			SELECT id FROM documents
			WHERE collection = $1 AND body @> $2::jsonb
			ORDER BY created_at, id
			LIMIT 1
		)
		DELETE FROM documents d
		USING target
		WHERE d.collection = $1 AND d.id = target.id`

	tag, err := c.pool.Exec(ctx, query, c.name, containment)
	if err != nil {
		return fmt.Errorf("delete_one_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func encode(filter docstore.Filter) ([]byte, error) {
	if filter == nil {
		return []byte("{}"), nil
	}
	payload, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("postgres: encode filter: %w", err)
	}
	return payload, nil
}

func decode(id string, body []byte) (docstore.Document, error) {
	document := make(docstore.Document)
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, fmt.Errorf("postgres: decode document %s: %w", id, err)
	}
	document[docstore.FieldID] = id
	return document, nil
}

func mapWriteError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return docstore.ErrDuplicate
	}
	return fmt.Errorf("%s: %w", operation, err)
}
