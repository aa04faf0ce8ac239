package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/teselar/catsync/ai"
	"github.com/teselar/catsync/core"
	"github.com/teselar/catsync/storage"
)

// defaultMinScore is the cosine similarity floor below which an entry is
// not considered a match.
const defaultMinScore = 0.60

// Searcher answers free-text queries over the catalog with semantic search.
type Searcher struct {
	repository storage.CatalogRepository
	embedder   ai.Embedder
	minScore   float32
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinScore sets the minimum similarity score for a hit.
func WithMinScore(score float32) Option {
	return func(s *Searcher) error {
		if score < 0 || score > 1 {
			return fmt.Errorf("min score must be in [0, 1], got %v", score)
		}
		s.minScore = score
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.CatalogRepository, provider ai.Provider, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		repository: repository,
		embedder:   provider.Embedder(),
		minScore:   defaultMinScore,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search embeds the query and returns up to maxHits catalog entries ranked
// by similarity. With inStockOnly set, entries without stock are excluded.
func (s *Searcher) Search(ctx context.Context, query string, maxHits int, inStockOnly bool) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingUnavailable, err)
	}

	matches, err := s.repository.FindSimilar(ctx, embedding, s.minScore, maxHits, inStockOnly)
	if err != nil {
		s.logger.Error("error querying for similar entries", "err", err)
		return nil, err
	}

	// Entries whose text carries every query word verbatim rank above
	// purely semantic neighbors.
	for _, match := range matches {
		if containsAllQueryWords(match.Entry.EmbeddingText, query) {
			match.Score += 0.3
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}
