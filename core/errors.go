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


package core

import "errors"

// Pipeline errors
var (
	// ErrMalformedRecord indicates a raw record is missing required identity
	// fields. The record is skipped, not retried.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrEnrichmentUnavailable indicates the summarization collaborator
	// failed. Non-fatal: the pipeline falls back to the stored summary.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

	// ErrEmbeddingDimensionMismatch indicates the embedding collaborator
	// returned a vector of the wrong length. Fatal for the record; the
	// entry is never persisted with a corrupt vector.
	ErrEmbeddingDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding collaborator failed.
	// Fatal for the record.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)
