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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/teselar/catsync"
	"github.com/teselar/catsync/ai"
	"github.com/teselar/catsync/ai/openai"
	"github.com/teselar/catsync/core"
	"github.com/teselar/catsync/ingestion"
	"github.com/teselar/catsync/reembed"
	"github.com/teselar/catsync/search"
	"github.com/teselar/catsync/storage"
	"github.com/teselar/catsync/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "catsync",
		Usage: "Catalog feed ingestion and semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "sync",
				Usage:     "Ingest a catalog feed file into the store",
				ArgsUsage: "FEED_FILE",
				Action:    syncCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent record workers (0 = auto)",
					},
					&cli.DurationFlag{
						Name:  "summary-timeout",
						Usage: "Timeout per summarization call",
						Value: 30 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "embed-timeout",
						Usage: "Timeout per embedding call",
						Value: 30 * time.Second,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the catalog with a free-text query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum similarity score",
						Value: 0.60,
					},
					&cli.BoolFlag{
						Name:  "in-stock",
						Usage: "Only return entries with stock",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all catalog entries with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entries",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "deactivate",
				Usage:  "Zero the stock of a catalog entry so searches skip it",
				Action: deactivateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "item-code",
						Usage: "Item code of the entry",
					},
					&cli.StringFlag{
						Name:  "warehouse",
						Usage: "Warehouse name of the entry",
					},
					&cli.StringFlag{
						Name:  "identity",
						Usage: "Identity key of the entry (instead of item-code/warehouse)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags are the flags shared by commands that talk to the AI services.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "chat-host",
			Usage: "Chat service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name used for summaries",
			Value: "qwen2.5:3b",
		},
		&cli.IntFlag{
			Name:  "embedding-dimension",
			Usage: "Expected embedding vector length",
			Value: 768,
		},
	}
}

func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	chatHost := c.String("chat-host")
	if chatHost == "" {
		chatHost = c.String("embedding-host")
	}

	config := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithChatHost(chatHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithEmbeddingDimension(c.Int("embedding-dimension")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

// syncStats aggregates per-record results across worker goroutines.
type syncStats struct {
	mu        sync.Mutex
	created   int
	updated   int
	skipped   int
	failed    int
	degraded  int
	conflicts map[string]bool
}

func (s *syncStats) apply(r ingestion.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Degraded {
		s.degraded++
	}
	if r.Err != nil {
		s.failed++
		if errors.Is(r.Err, storage.ErrConflict) && r.Identity != "" {
			s.conflicts[r.Identity] = true
		}
		return
	}
	switch r.Outcome {
	case core.OutcomeCreated:
		s.created++
	case core.OutcomeUpdated:
		s.updated++
	case core.OutcomeSkippedNoChange:
		s.skipped++
	}
}

func syncCommand(c *cli.Context) error {
	ctx := context.Background()

	feedPath := c.Args().First()
	if feedPath == "" {
		return fmt.Errorf("feed file argument is required")
	}

	data, err := os.ReadFile(feedPath)
	if err != nil {
		return fmt.Errorf("failed to read feed file: %w", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse feed file: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "Feed file contains no records")
		return nil
	}

	aiConfig, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	db, err := catsync.NewDatabase(c.String("db"), catsync.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	stats := &syncStats{conflicts: make(map[string]bool)}
	opts := []ingestion.Option{
		ingestion.WithResultHandler(stats.apply),
		ingestion.WithSummaryTimeout(c.Duration("summary-timeout")),
		ingestion.WithEmbedTimeout(c.Duration("embed-timeout")),
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}

	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Syncing %d records from %s\n", len(records), feedPath)

	for _, raw := range records {
		if err := pipeline.Ingest(ctx, raw); err != nil {
			return fmt.Errorf("failed to submit record: %w", err)
		}
	}
	pipeline.Wait()

	// Concurrent writes to the same identity lose the transaction race.
	// Retry them serially.
	if len(stats.conflicts) > 0 {
		retryConflicts(ctx, pipeline, records, stats)
	}

	fmt.Fprintf(os.Stderr,
		"Sync complete: %d created, %d updated, %d unchanged, %d failed (%d degraded summaries)\n",
		stats.created, stats.updated, stats.skipped, stats.failed, stats.degraded)

	if stats.failed > 0 {
		return fmt.Errorf("%d records failed", stats.failed)
	}
	return nil
}

func retryConflicts(ctx context.Context, pipeline *ingestion.Pipeline, records []map[string]any, stats *syncStats) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, raw := range records {
		rec, err := core.NormalizeRecord(raw, logger)
		if err != nil {
			continue
		}
		identity := core.ResolveIdentity(rec.ItemCode, rec.WarehouseName)
		if !stats.conflicts[identity] {
			continue
		}

		result := pipeline.Process(ctx, raw)
		stats.mu.Lock()
		stats.failed--
		delete(stats.conflicts, identity)
		stats.mu.Unlock()
		stats.apply(result)
	}
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query argument is required")
	}

	aiConfig, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	db, err := catsync.NewDatabase(c.String("db"), catsync.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	searcher, err := db.NewSearcher(search.WithMinScore(float32(c.Float64("min-score"))))
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(ctx, query, c.Int("max-hits"), c.Bool("in-stock"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		entry := hit.Entry
		fmt.Printf("%d: %s [%s @ %s] price=%s stock=%d score=%.3f\n",
			i+1, entry.ItemName, entry.ItemCode, entry.WarehouseName,
			entry.Price.StringFixed(2), entry.Stock, hit.Score)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewCatalogRepository(backend)
	defer repo.Close()

	// The chat side is unused here; point it at the embedding host so the
	// config validates.
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(c.String("embedding-host")),
		ai.WithChatModel("unused"),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

func deactivateCommand(c *cli.Context) error {
	ctx := context.Background()

	identity := c.String("identity")
	if identity == "" {
		itemCode := c.String("item-code")
		warehouse := c.String("warehouse")
		if itemCode == "" || warehouse == "" {
			return fmt.Errorf("either --identity or both --item-code and --warehouse are required")
		}
		identity = core.ResolveIdentity(itemCode, warehouse)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewCatalogRepository(backend)
	defer repo.Close()

	if err := repo.Deactivate(ctx, identity); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no entry with identity %q", identity)
		}
		return fmt.Errorf("failed to deactivate entry: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Deactivated %s\n", identity)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
