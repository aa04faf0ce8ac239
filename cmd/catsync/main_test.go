package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/teselar/catsync/ai/mock"
	"github.com/teselar/catsync/core"
	"github.com/teselar/catsync/ingestion"
	"github.com/teselar/catsync/storage"
	"github.com/teselar/catsync/storage/badger"
)

func flagByName[T cli.Flag](flags []cli.Flag, name string) T {
	var zero T
	for _, flag := range flags {
		if f, ok := flag.(T); ok {
			for _, n := range f.Names() {
				if n == name {
					return f
				}
			}
		}
	}
	return zero
}

func TestAIFlags(t *testing.T) {
	flags := aiFlags()

	t.Run("embedding-host has default value", func(t *testing.T) {
		f := flagByName[*cli.StringFlag](flags, "embedding-host")
		require.NotNil(t, f)
		assert.Equal(t, "http://localhost:11434/v1", f.Value)
	})

	t.Run("chat-host defaults to empty", func(t *testing.T) {
		f := flagByName[*cli.StringFlag](flags, "chat-host")
		require.NotNil(t, f)
		assert.Empty(t, f.Value)
	})

	t.Run("embedding-dimension has default value", func(t *testing.T) {
		f := flagByName[*cli.IntFlag](flags, "embedding-dimension")
		require.NotNil(t, f)
		assert.Equal(t, 768, f.Value)
	})
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"WARN", false},
		{"verbose", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level", Value: "info"},
				},
				Before: setupLogger,
				Action: func(c *cli.Context) error { return nil },
			}
			err := app.Run([]string{"catsync", "--log-level", tt.level})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	// restore default handler for other tests
	slog.SetDefault(slog.Default())
}

func TestSyncStats_Apply(t *testing.T) {
	stats := &syncStats{conflicts: make(map[string]bool)}

	stats.apply(ingestion.Result{Outcome: core.OutcomeCreated})
	stats.apply(ingestion.Result{Outcome: core.OutcomeUpdated, Degraded: true})
	stats.apply(ingestion.Result{Outcome: core.OutcomeSkippedNoChange})
	stats.apply(ingestion.Result{Outcome: core.OutcomeFailed, Err: assert.AnError})

	assert.Equal(t, 1, stats.created)
	assert.Equal(t, 1, stats.updated)
	assert.Equal(t, 1, stats.skipped)
	assert.Equal(t, 1, stats.failed)
	assert.Equal(t, 1, stats.degraded)
	assert.Empty(t, stats.conflicts)
}

func TestRetryConflicts_ReplaysSerially(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	pipeline, err := ingestion.NewPipeline(repo, mock.NewMockProvider(), mock.DefaultDimension)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	records := []map[string]any{
		{
			"ItemCode": "X1",
			"ItemName": "Brake Pad",
			"WhsName":  "Central",
			"Price":    "10.00",
			"Stock":    float64(5),
		},
		{
			"ItemCode": "X2",
			"ItemName": "Oil Filter",
			"WhsName":  "Central",
			"Price":    "4.00",
			"Stock":    float64(2),
		},
	}

	// Only X1 lost a transaction race; the retry must replay it and leave
	// X2 alone.
	stats := &syncStats{
		failed:    1,
		conflicts: map[string]bool{"x1_central": true},
	}

	retryConflicts(context.Background(), pipeline, records, stats)

	assert.Zero(t, stats.failed)
	assert.Equal(t, 1, stats.created)
	assert.Empty(t, stats.conflicts)

	entry, err := repo.GetByIdentity(context.Background(), "x1_central")
	require.NoError(t, err)
	assert.Equal(t, "X1", entry.ItemCode)

	_, err = repo.GetByIdentity(context.Background(), "x2_central")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
