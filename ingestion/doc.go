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

// Package ingestion turns raw catalog feed records into searchable entries.
//
// Each record flows through a fixed sequence: normalization, identity
// resolution, change classification against the stored entry, conditional
// summarization and embedding, and a transactional upsert. Unchanged records
// short-circuit past the AI calls entirely; only their raw payload audit
// copy is refreshed. Summarization failures degrade gracefully to the
// previous summary, while embedding failures fail the record without
// persisting anything.
//
// Records are processed concurrently on a worker pool. Results, including
// failures, are delivered through an optional handler callback.
package ingestion
