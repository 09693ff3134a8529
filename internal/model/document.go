package model

import (
	"context"
)

// Reserved document fields managed by the repositories.
const (
	FieldID        = "_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Document is a flat record as stored in a collection. Values are plain Go
// values (string, bool, int64, float64, time.Time, nil, nested maps/slices);
// FieldID holds the store-native identifier.
type Document map[string]any

// Filter selects documents by top-level field equality. A nil or empty
// filter matches every document.
type Filter map[string]any

// Repository is the generic document store accessor shared by every resource kind.
type Repository interface {
	// List returns the documents matching filter, newest first by identifier.
	List(ctx context.Context, collection string, filter Filter) ([]Document, error)

	// Get returns the document with the given identifier.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Create stamps created_at/updated_at when absent, inserts data and
	// returns the generated identifier.
	Create(ctx context.Context, collection string, data Document) (string, error)

	// Update refreshes updated_at and merges data into the matching document.
	Update(ctx context.Context, collection, id string, data Document) (bool, error)

	// Delete removes the document with the given identifier.
	Delete(ctx context.Context, collection, id string) error

	// FindOne returns the sole document of a singleton collection.
	FindOne(ctx context.Context, collection string) (Document, error)

	// Upsert merges data into the sole document of a singleton collection,
	// inserting it when the collection is empty.
	Upsert(ctx context.Context, collection string, data Document) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	// CollectionNames lists the collections present in the store.
	CollectionNames(ctx context.Context) ([]string, error)

	// Name identifies the backend in diagnostics.
	Name() string
}
