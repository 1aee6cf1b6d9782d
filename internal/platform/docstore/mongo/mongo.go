// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mongo implements [docstore.Store] on MongoDB.

Core Responsibilities:

  - Connectivity: Connects and pings at startup so misconfiguration fails fast.
  - Indexes: Creates the unique indexes the domain relies on.
  - Normalization: Converts BSON-native values (DateTime, int32) into the plain
    Go types expected by [docstore.Document].
*/
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/taibuivan/mercado/internal/platform/docstore"
)

// Opinionated default timeouts for MongoDB operations.
const (
	connectTimeout = 5 * time.Second
	pingTimeout    = 2 * time.Second
	maxPoolSize    = 25
	minPoolSize    = 2
)

// Store wraps a connected client and a database handle.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect opens a client for mongoURL and validates connectivity.
//
// # Parameters
//   - ctx: Context for the initial ping.
//   - mongoURL: mongodb:// or mongodb+srv:// connection string.
//   - databaseName: Database holding the collections.
//   - logger: Structured logger for connection events.
func Connect(ctx context.Context, mongoURL, databaseName string, logger *slog.Logger) (*Store, error) {
	clientOptions := options.Client().
		ApplyURI(mongoURL).
		SetConnectTimeout(connectTimeout).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo: failed to create client: %w", err)
	}

	store := &Store{client: client, database: client.Database(databaseName)}

	// Validate connectivity immediately at startup.
	if err := store.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("mongo client connected",
		slog.String("database", databaseName),
		slog.Int("max_pool_size", maxPoolSize),
	)

	return store, nil
}

// EnsureUniqueIndex creates a unique ascending index on field. Idempotent.
func (store *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_unique"),
	}
	if _, err := store.database.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("mongo: failed to create unique index %s.%s: %w", collection, field, err)
	}
	return nil
}

// Collection returns the named collection.
func (store *Store) Collection(name string) docstore.Collection {
	return &Collection{collection: store.database.Collection(name)}
}

// Ping verifies that the MongoDB deployment is reachable.
func (store *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := store.client.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("mongo: ping failed: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (store *Store) Close(ctx context.Context) error {
	return store.client.Disconnect(ctx)
}

// Collection adapts a *mongo.Collection to [docstore.Collection].
type Collection struct {
	collection *mongo.Collection
}

// FindOne decodes the first match into a normalized document.
func (c *Collection) FindOne(ctx context.Context, filter docstore.Filter) (docstore.Document, error) {
	var raw bson.M
	err := c.collection.FindOne(ctx, bson.M(filter)).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("mongo_find_one_failed: %w", err)
	}
	return normalize(raw), nil
}

// Find returns matching documents ordered by _id (UUIDv7, so by creation time).
func (c *Collection) Find(ctx context.Context, filter docstore.Filter, page docstore.Page) ([]docstore.Document, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: docstore.FieldID, Value: 1}})
	if page.Skip > 0 {
		findOptions.SetSkip(int64(page.Skip))
	}
	if page.Limit > 0 {
		findOptions.SetLimit(int64(page.Limit))
	}

	cursor, err := c.collection.Find(ctx, bson.M(filter), findOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo_find_failed: %w", err)
	}

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("mongo_find_decode_failed: %w", err)
	}

	documents := make([]docstore.Document, 0, len(raws))
	for _, raw := range raws {
		documents = append(documents, normalize(raw))
	}
	return documents, nil
}

// Count returns the number of matching documents.
func (c *Collection) Count(ctx context.Context, filter docstore.Filter) (int, error) {
	total, err := c.collection.CountDocuments(ctx, bson.M(filter))
	if err != nil {
		return 0, fmt.Errorf("mongo_count_failed: %w", err)
	}
	return int(total), nil
}

// InsertOne stores the document, mapping unique violations to [docstore.ErrDuplicate].
func (c *Collection) InsertOne(ctx context.Context, document docstore.Document) error {
	if _, err := c.collection.InsertOne(ctx, bson.M(document)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return docstore.ErrDuplicate
		}
		return fmt.Errorf("mongo_insert_one_failed: %w", err)
	}
	return nil
}

// UpdateOne applies a $set with the given fields.
func (c *Collection) UpdateOne(ctx context.Context, filter docstore.Filter, set docstore.Document) error {
	result, err := c.collection.UpdateOne(ctx, bson.M(filter), bson.M{"$set": bson.M(set)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return docstore.ErrDuplicate
		}
		return fmt.Errorf("mongo_update_one_failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// DeleteOne removes the first matching document.
func (c *Collection) DeleteOne(ctx context.Context, filter docstore.Filter) error {
	result, err := c.collection.DeleteOne(ctx, bson.M(filter))
	if err != nil {
		return fmt.Errorf("mongo_delete_one_failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// normalize converts BSON-native scalar types into plain Go values.
func normalize(raw bson.M) docstore.Document {
	document := make(docstore.Document, len(raw))
	for key, value := range raw {
		switch typed := value.(type) {
		case bson.DateTime:
			document[key] = typed.Time().UTC()
		case int32:
			document[key] = int64(typed)
		default:
			document[key] = typed
		}
	}
	return document
}
