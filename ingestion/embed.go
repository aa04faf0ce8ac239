package ingestion

import (
	"context"
	"fmt"

	"github.com/teselar/catsync/core"
)

// resolveVector returns the vector for the given embedding text. When the
// text is byte-identical to the stored entry's and a vector is already
// present, it is reused without calling the embedder. A vector whose length
// does not match the configured dimension is fatal for the record.
func (rp *recordProcessor) resolveVector(ctx context.Context, text string, existing *core.CatalogEntry) ([]float32, error) {
	if existing != nil && existing.EmbeddingText == text && len(existing.Vector) > 0 {
		return existing.Vector, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, rp.embedTimeout)
	defer cancel()

	vector, err := rp.embedder.EmbedText(callCtx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingUnavailable, err)
	}
	if len(vector) != rp.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d",
			core.ErrEmbeddingDimensionMismatch, len(vector), rp.dimension)
	}

	return vector, nil
}
