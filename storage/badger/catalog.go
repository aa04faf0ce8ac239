package badger

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/teselar/catsync/core"
	"github.com/teselar/catsync/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) *CatalogRepository {
	return &CatalogRepository{backend: backend}
}

// Close releases repository resources. The backend is owned by the caller
// and stays open.
func (r *CatalogRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *CatalogRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int, inStockOnly bool) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit, inStockOnly)
}

// WithTransaction delegates to the backend.
func (r *CatalogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// Upsert writes one fully-processed record in a single read-write
// transaction. The stored row is re-read and re-classified here, inside the
// transaction, so a stale read taken before the call cannot cause a lost
// update: concurrent writers to the same key collide at commit and the
// loser gets ErrConflict.
func (r *CatalogRepository) Upsert(ctx context.Context, identity string, rec *core.NormalizedRecord, summary, embeddingText string, vector []float32) (core.Outcome, error) {
	var outcome core.Outcome

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCatalogKey(identity)
		current, err := readEntry(tx, key)
		if err != nil {
			return err
		}

		if current != nil && !sameItemCode(current.ItemCode, rec.ItemCode) {
			return fmt.Errorf("%w: identity %q holds item code %q, incoming %q",
				storage.ErrIdentityCollision, identity, current.ItemCode, rec.ItemCode)
		}

		// Final gate, independent of whatever the caller classified from an
		// earlier read. Even on skip the raw audit payload is refreshed;
		// UpdatedAt is not touched, so a skipped row still shows when its
		// fields last actually changed.
		if current != nil &&
			core.Classify(current, rec) == core.ChangeNone &&
			current.EmbeddingText == embeddingText {
			if !bytes.Equal(current.RawPayload, rec.RawPayload) {
				current.RawPayload = rec.RawPayload
				if err := tx.Set(key, storage.MarshalCatalogEntry(current)); err != nil {
					return err
				}
			}
			outcome = core.OutcomeSkippedNoChange
			return commitTx(tx)
		}

		now := time.Now().UTC()
		entry := &core.CatalogEntry{
			IdentityKey:   identity,
			ItemCode:      rec.ItemCode,
			ItemName:      rec.ItemName,
			Description:   rec.Description,
			Category:      rec.Category,
			SubCategory:   rec.SubCategory,
			Brand:         rec.Brand,
			Line:          rec.Line,
			GroupName:     rec.GroupName,
			WarehouseName: rec.WarehouseName,
			BranchName:    rec.BranchName,
			Price:         rec.Price,
			Stock:         rec.Stock,
			Summary:       summary,
			EmbeddingText: embeddingText,
			Vector:        vector,
			RawPayload:    rec.RawPayload,
			UpdatedAt:     now,
		}

		if current == nil {
			entry.CreatedAt = now
			outcome = core.OutcomeCreated
		} else {
			entry.CreatedAt = current.CreatedAt
			outcome = core.OutcomeUpdated
		}

		if err := tx.Set(key, storage.MarshalCatalogEntry(entry)); err != nil {
			return err
		}

		// Item-code index is keyed on (code, identity); re-setting it on
		// update is idempotent.
		codeKey := makeItemCodeKey(rec.ItemCode, identity)
		if err := tx.Set(codeKey, []byte(identity)); err != nil {
			return err
		}

		return commitTx(tx)
	}, true)

	if err != nil {
		return 0, err
	}
	return outcome, nil
}

// GetByIdentity retrieves a single entry by its identity key.
func (r *CatalogRepository) GetByIdentity(ctx context.Context, identity string) (*core.CatalogEntry, error) {
	var result *core.CatalogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEntry(tx, makeCatalogKey(identity))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetByItemCode retrieves all entries sharing an item code, one per
// location. Lookup is case-insensitive.
func (r *CatalogRepository) GetByItemCode(ctx context.Context, itemCode string) ([]*core.CatalogEntry, error) {
	var results []*core.CatalogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialItemCodeKey(itemCode)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			var identity string
			if err := iter.Item().Value(func(val []byte) error {
				identity = string(val)
				return nil
			}); err != nil {
				return err
			}

			entry, err := readEntry(tx, makeCatalogKey(identity))
			if err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetEntries retrieves up to limit entries with identity keys strictly
// greater than afterIdentity, in key order.
func (r *CatalogRepository) GetEntries(ctx context.Context, afterIdentity string, limit int) ([]*core.CatalogEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	var results []*core.CatalogEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(catalogEntryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		seekKey := makeCatalogKey(afterIdentity)
		for iter.Seek(seekKey); iter.Valid() && len(results) < limit; iter.Next() {
			// Seek lands on afterIdentity itself when it exists; skip it.
			if afterIdentity != "" && bytes.Equal(iter.Item().Key(), seekKey) {
				continue
			}

			var entry *core.CatalogEntry
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalCatalogEntry(val)
				return err
			}); err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)
	return results, err
}

// UpdateEmbeddings overwrites the embedding text and vector of existing
// entries, refreshing UpdatedAt.
func (r *CatalogRepository) UpdateEmbeddings(ctx context.Context, entries ...*core.CatalogEntry) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, entry := range entries {
			key := makeCatalogKey(entry.IdentityKey)
			current, err := readEntry(tx, key)
			if err != nil {
				return err
			}
			if current == nil {
				return fmt.Errorf("%w: %s", storage.ErrNotFound, entry.IdentityKey)
			}

			current.EmbeddingText = entry.EmbeddingText
			current.Vector = entry.Vector
			current.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalCatalogEntry(current)); err != nil {
				return err
			}
		}
		return commitTx(tx)
	}, true)
}

// Deactivate sets an entry's stock to zero, used when an item drops out of
// the source feed. Already-zero stock is a no-op.
func (r *CatalogRepository) Deactivate(ctx context.Context, identity string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCatalogKey(identity)
		current, err := readEntry(tx, key)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, identity)
		}
		if current.Stock == 0 {
			return nil
		}

		current.Stock = 0
		current.UpdatedAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalCatalogEntry(current)); err != nil {
			return err
		}
		return commitTx(tx)
	}, true)
}

// readEntry reads a catalog entry from the transaction.
// Returns nil (no error) when the key doesn't exist.
func readEntry(tx *badger.Txn, key []byte) (*core.CatalogEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.CatalogEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalCatalogEntry(val)
		return unmarshalErr
	})
	return entry, err
}

// sameItemCode compares item codes the way the feed means them: ignoring
// surrounding whitespace and letter case.
func sameItemCode(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
