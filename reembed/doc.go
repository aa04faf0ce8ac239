// Package reembed regenerates catalog entry embeddings with a new or
// updated embedding model.
//
// Entries are paged through in identity-key order and processed in batches,
// with progress tracking, retry with exponential backoff, and vector
// normalization so cosine similarity stays a dot product.
package reembed
