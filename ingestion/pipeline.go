// Copyright 2025 Teselar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/teselar/catsync/ai"
	"github.com/teselar/catsync/storage"
)

const (
	defaultSummaryTimeout = 30 * time.Second
	defaultEmbedTimeout   = 30 * time.Second
)

// Pipeline ingests catalog feed records: each record is normalized,
// classified against its stored entry, enriched and embedded when needed,
// and upserted into the catalog repository. Records are processed
// concurrently on a worker pool.
type Pipeline struct {
	repository storage.CatalogRepository
	provider   ai.Provider

	pool      *ants.Pool
	poolSize  int
	processor *recordProcessor

	onResult func(Result)
	wg       sync.WaitGroup

	summaryTimeout time.Duration
	embedTimeout   time.Duration
	dimension      int

	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the number of concurrent record workers.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return fmt.Errorf("pool size must be positive, got %d", size)
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return fmt.Errorf("failed to create worker pool: %w", err)
		}
		p.pool = pool
		p.poolSize = size
		return nil
	}
}

// WithLogger sets the logger used by the pipeline and its processor.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// WithResultHandler registers a callback invoked with the Result of every
// processed record. The callback runs on worker goroutines and must be safe
// for concurrent use.
func WithResultHandler(handler func(Result)) Option {
	return func(p *Pipeline) error {
		p.onResult = handler
		return nil
	}
}

// WithSummaryTimeout bounds each summarization call.
func WithSummaryTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d <= 0 {
			return fmt.Errorf("summary timeout must be positive, got %v", d)
		}
		p.summaryTimeout = d
		return nil
	}
}

// WithEmbedTimeout bounds each embedding call.
func WithEmbedTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d <= 0 {
			return fmt.Errorf("embed timeout must be positive, got %v", d)
		}
		p.embedTimeout = d
		return nil
	}
}

// NewPipeline creates a Pipeline backed by the given repository and AI
// provider. The dimension is the expected length of every embedding vector;
// vectors of any other length fail the record.
func NewPipeline(repository storage.CatalogRepository, provider ai.Provider, dimension int, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if dimension <= 0 {
		return nil, ErrInvalidDimension
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	p := &Pipeline{
		repository:     repository,
		provider:       provider,
		pool:           pool,
		poolSize:       poolSize,
		summaryTimeout: defaultSummaryTimeout,
		embedTimeout:   defaultEmbedTimeout,
		dimension:      dimension,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	p.processor = &recordProcessor{
		repository:     repository,
		summarizer:     provider.Summarizer(),
		embedder:       provider.Embedder(),
		dimension:      dimension,
		summaryTimeout: p.summaryTimeout,
		embedTimeout:   p.embedTimeout,
		logger:         p.logger.With("component", "ingestion"),
	}

	return p, nil
}

// Ingest submits a single raw feed record for processing. It returns once
// the record is queued; the outcome is delivered to the result handler.
func (p *Pipeline) Ingest(ctx context.Context, raw map[string]any) error {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		result := p.processor.process(ctx, raw)
		if result.Err != nil {
			p.logger.Warn("record failed",
				"identity", result.Identity,
				"stage", result.Stage,
				"error", result.Err)
		}
		if p.onResult != nil {
			p.onResult(result)
		}
	})
	if err != nil {
		p.wg.Done()
		return fmt.Errorf("failed to submit record: %w", err)
	}
	return nil
}

// Process runs a single record synchronously, bypassing the worker pool.
func (p *Pipeline) Process(ctx context.Context, raw map[string]any) Result {
	return p.processor.process(ctx, raw)
}

// Wait blocks until every submitted record has been processed.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Release waits for in-flight records and frees the worker pool.
func (p *Pipeline) Release() {
	p.wg.Wait()
	if p.pool != nil {
		p.pool.Release()
	}
}
