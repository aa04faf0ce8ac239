package storage

import (
	"context"

	"github.com/teselar/catsync/core"
)

// Repository provides common storage operations shared across backends.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds catalog entries similar to the given vector.
	// Returns entries with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first). When inStockOnly is true,
	// entries with zero stock are excluded.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int, inStockOnly bool) ([]*core.SearchResult, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// CatalogRepository provides operations for managing catalog entries.
type CatalogRepository interface {
	Repository

	// Upsert writes one fully-processed record in a single transaction.
	//
	// The row for the identity is re-read inside the transaction and
	// re-classified there, independently of whatever the caller decided from
	// an earlier read. If nothing changed and the embedding text matches the
	// stored one, only the raw audit payload is refreshed (UpdatedAt is left
	// alone) and OutcomeSkippedNoChange is returned. Otherwise all fields are
	// written: CreatedAt is set only on first insert, UpdatedAt on every
	// real write.
	//
	// Returns ErrIdentityCollision when the stored entry carries a different
	// item code than the incoming record, and ErrConflict when a concurrent
	// write to the same row beat this transaction's commit.
	Upsert(ctx context.Context, identity string, rec *core.NormalizedRecord, summary, embeddingText string, vector []float32) (core.Outcome, error)

	// GetByIdentity retrieves a single entry by its identity key.
	// Returns ErrNotFound if the entry doesn't exist.
	GetByIdentity(ctx context.Context, identity string) (*core.CatalogEntry, error)

	// GetByItemCode retrieves all entries sharing an item code, one per
	// location. Returns an empty slice when none exist.
	GetByItemCode(ctx context.Context, itemCode string) ([]*core.CatalogEntry, error)

	// GetEntries retrieves up to limit entries with identity keys strictly
	// greater than afterIdentity, in key order. Pass "" to start from the
	// beginning. Used for batched iteration over the whole catalog.
	GetEntries(ctx context.Context, afterIdentity string, limit int) ([]*core.CatalogEntry, error)

	// UpdateEmbeddings overwrites the embedding text and vector of existing
	// entries, refreshing UpdatedAt. Returns ErrNotFound if any entry
	// doesn't exist.
	UpdateEmbeddings(ctx context.Context, entries ...*core.CatalogEntry) error

	// Deactivate sets an entry's stock to zero. No-op (without touching
	// UpdatedAt) when stock is already zero. Returns ErrNotFound if the
	// entry doesn't exist.
	Deactivate(ctx context.Context, identity string) error
}
