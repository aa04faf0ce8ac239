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


// Package storage provides the storage abstraction layer for catsync.
//
// This package defines repository interfaces that decouple storage
// implementation from the ingestion pipeline. It allows different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - Repository: operations shared by all backends (vector search,
//     transactions, lifecycle)
//   - CatalogRepository: operations on catalog entries, including the
//     transactional Upsert that is the write path of the whole pipeline
//
// # Usage
//
// Create a repository instance:
//
//	backend, err := badger.OpenBackend(path, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	repo := badger.NewCatalogRepository(backend)
//
// Use in tests with in-memory storage:
//
//	backend, err := badger.OpenBackend("", true)
//
// # Concurrency
//
// All repository implementations must be thread-safe. Concurrent upserts
// targeting the same identity key are serialized at commit time: the loser
// receives ErrConflict and the record is retried by the ingestion boundary.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
