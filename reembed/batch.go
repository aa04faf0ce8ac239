package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/teselar/catsync/ai"
	"github.com/teselar/catsync/core"
	"github.com/teselar/catsync/storage"
)

// BatchProcessor regenerates embeddings for batches of catalog entries from
// their stored embedding text.
type BatchProcessor struct {
	repo           storage.CatalogRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.CatalogRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates embeddings for a batch of entries and persists them.
// Entries without embedding text are skipped. Vectors are normalized after
// embedding so cosine similarity can be computed as a dot product.
func (bp *BatchProcessor) Process(ctx context.Context, entries []*core.CatalogEntry) (int, error) {
	targets := make([]*core.CatalogEntry, 0, len(entries))
	texts := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.EmbeddingText == "" {
			continue
		}
		targets = append(targets, entry)
		texts = append(texts, entry.EmbeddingText)
	}
	if len(targets) == 0 {
		return 0, nil
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return 0, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(targets) {
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(targets), len(embeddings))
	}

	for i := range targets {
		targets[i].Vector = NormalizeVector(embeddings[i])
	}

	if err := bp.repo.UpdateEmbeddings(ctx, targets...); err != nil {
		return 0, fmt.Errorf("failed to update entries: %w", err)
	}

	return len(targets), nil
}
