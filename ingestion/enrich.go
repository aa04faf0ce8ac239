package ingestion

import (
	"context"
	"fmt"

	"github.com/teselar/catsync/core"
)

// resolveSummary decides whether this record needs a fresh summary and
// produces one. New entries with a description and entries whose description
// changed are always summarized; other changes only trigger a summary when
// the stored entry has none (backfill). A failed summarization is absorbed:
// the previous summary is kept and the result is marked degraded.
func (rp *recordProcessor) resolveSummary(ctx context.Context, change core.Change, rec *core.NormalizedRecord, existing *core.CatalogEntry) (string, bool) {
	var existingSummary string
	if existing != nil {
		existingSummary = existing.Summary
	}

	plain := core.StripHTML(rec.Description)
	if plain == "" {
		// Nothing to summarize from. Keeps whatever summary is stored.
		return existingSummary, false
	}

	switch change {
	case core.ChangeNew, core.ChangeDescription:
	default:
		if existingSummary != "" {
			return existingSummary, false
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, rp.summaryTimeout)
	defer cancel()

	summary, err := rp.summarizer.Summarize(callCtx, rec.ItemName, plain)
	if err != nil {
		rp.logger.Warn("summarization failed, keeping previous summary",
			"item_code", rec.ItemCode,
			"error", fmt.Errorf("%w: %w", core.ErrEnrichmentUnavailable, err))
		return existingSummary, true
	}
	if summary == "" {
		return existingSummary, false
	}

	return summary, false
}
