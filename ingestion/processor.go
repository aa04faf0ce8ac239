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
	"errors"
	"log/slog"
	"time"

	"github.com/teselar/catsync/ai"
	"github.com/teselar/catsync/core"
	"github.com/teselar/catsync/storage"
)

// Stages at which a record can fail. Empty stage means success.
const (
	StageNormalize = "normalize"
	StageRead      = "read"
	StageEmbed     = "embed"
	StageUpsert    = "upsert"
)

// Result reports the outcome of processing a single feed record.
type Result struct {
	// Identity is the resolved identity key. Empty when normalization failed.
	Identity string

	// ItemCode is the normalized item code. Empty when normalization failed.
	ItemCode string

	// Change is the advisory classification computed before persistence.
	Change core.Change

	// Outcome is the persistence outcome.
	Outcome core.Outcome

	// Stage names the step that failed. Empty on success.
	Stage string

	// Degraded is true when summarization failed and the record was
	// persisted with its previous summary.
	Degraded bool

	// Err is the failure cause, nil on success.
	Err error
}

// recordProcessor runs the full per-record sequence: normalize, resolve
// identity, classify against the stored entry, summarize and embed when the
// change warrants it, and upsert.
type recordProcessor struct {
	repository     storage.CatalogRepository
	summarizer     ai.Summarizer
	embedder       ai.Embedder
	dimension      int
	summaryTimeout time.Duration
	embedTimeout   time.Duration
	logger         *slog.Logger
}

func (rp *recordProcessor) process(ctx context.Context, raw map[string]any) Result {
	rec, err := core.NormalizeRecord(raw, rp.logger)
	if err != nil {
		return Result{Outcome: core.OutcomeFailed, Stage: StageNormalize, Err: err}
	}

	identity := core.ResolveIdentity(rec.ItemCode, rec.WarehouseName)

	existing, err := rp.repository.GetByIdentity(ctx, identity)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return Result{
			Identity: identity,
			ItemCode: rec.ItemCode,
			Outcome:  core.OutcomeFailed,
			Stage:    StageRead,
			Err:      err,
		}
	}

	change := core.Classify(existing, rec)

	var (
		summary  string
		text     string
		vector   []float32
		degraded bool
	)
	if change == core.ChangeNone {
		// Nothing to recompute. The repository still refreshes the raw
		// payload inside the upsert transaction.
		summary = existing.Summary
		text = existing.EmbeddingText
		vector = existing.Vector
	} else {
		summary, degraded = rp.resolveSummary(ctx, change, rec, existing)
		text = core.ComposeEntryText(rec, summary)

		vector, err = rp.resolveVector(ctx, text, existing)
		if err != nil {
			return Result{
				Identity: identity,
				ItemCode: rec.ItemCode,
				Change:   change,
				Outcome:  core.OutcomeFailed,
				Stage:    StageEmbed,
				Degraded: degraded,
				Err:      err,
			}
		}
	}

	outcome, err := rp.repository.Upsert(ctx, identity, rec, summary, text, vector)
	if err != nil {
		return Result{
			Identity: identity,
			ItemCode: rec.ItemCode,
			Change:   change,
			Outcome:  core.OutcomeFailed,
			Stage:    StageUpsert,
			Degraded: degraded,
			Err:      err,
		}
	}

	return Result{
		Identity: identity,
		ItemCode: rec.ItemCode,
		Change:   change,
		Outcome:  outcome,
		Degraded: degraded,
	}
}
