package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxIdentityLength bounds the sanitized identity key. Keys longer than
// this are truncated, never rejected.
const MaxIdentityLength = 512

// NormalizedRecord is the canonical form of one raw feed record after
// normalization. All string fields are trimmed, price is fixed to two
// decimals, stock is non-negative.
type NormalizedRecord struct {
	ItemCode      string
	ItemName      string
	Description   string // raw description, may contain markup
	Category      string
	SubCategory   string
	Brand         string
	Line          string
	GroupName     string
	WarehouseName string
	BranchName    string
	Price         decimal.Decimal
	Stock         int64
	RawPayload    []byte // original record as JSON, preserved for audit
}

// CatalogEntry is the persisted unit: one item at one location.
// Derived attributes (Summary, EmbeddingText, Vector) are populated by the
// pipeline; EmbeddingText and Vector are always written together.
type CatalogEntry struct {
	IdentityKey   string
	ItemCode      string
	ItemName      string
	Description   string
	Category      string
	SubCategory   string
	Brand         string
	Line          string
	GroupName     string
	WarehouseName string
	BranchName    string
	Price         decimal.Decimal
	Stock         int64
	Summary       string    // LLM-produced plain-text summary, optional
	EmbeddingText string    // exact string the vector was computed from
	Vector        []float32 // fixed-dimension embedding
	RawPayload    []byte    // latest raw source record, refreshed on every ingestion
	CreatedAt     time.Time // set on first insert, immutable
	UpdatedAt     time.Time // refreshed on real writes only
}

// Change classifies an incoming record against the stored entry.
type Change int

const (
	// ChangeNew means no entry exists for the identity.
	ChangeNew Change = iota + 1
	// ChangeDescription means the raw description differs; dominates all
	// other differences because it drives re-summarization.
	ChangeDescription
	// ChangeOtherFields means one or more non-description fields differ.
	ChangeOtherFields
	// ChangeNone means nothing semantically differs; the record is skipped.
	ChangeNone
)

func (c Change) String() string {
	switch c {
	case ChangeNew:
		return "new"
	case ChangeDescription:
		return "description_changed"
	case ChangeOtherFields:
		return "other_fields_changed"
	case ChangeNone:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Outcome is the terminal state of one record's pipeline run.
type Outcome int

const (
	OutcomeCreated Outcome = iota + 1
	OutcomeUpdated
	OutcomeSkippedNoChange
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkippedNoChange:
		return "skipped_no_change"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SearchResult pairs a catalog entry with its similarity score.
type SearchResult struct {
	Entry *CatalogEntry
	Score float32
}
