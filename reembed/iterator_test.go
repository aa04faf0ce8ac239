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

package reembed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teselar/catsync/core"
)

func TestEntryIterator_VisitsAllEntriesInOrder(t *testing.T) {
	repo := setupRepo(t)
	seedEntries(t, repo, 10)

	it := NewEntryIterator(repo, 3)

	var seen []string
	batches := 0
	err := it.ForEach(context.Background(), func(batch []*core.CatalogEntry) error {
		batches++
		for _, entry := range batch {
			seen = append(seen, entry.IdentityKey)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, seen, 10)
	assert.Equal(t, 4, batches)
	assert.IsIncreasing(t, seen)
}

func TestEntryIterator_EmptyDatabase(t *testing.T) {
	repo := setupRepo(t)

	it := NewEntryIterator(repo, 5)
	called := false
	err := it.ForEach(context.Background(), func(batch []*core.CatalogEntry) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestEntryIterator_StopsOnCallbackError(t *testing.T) {
	repo := setupRepo(t)
	seedEntries(t, repo, 6)

	it := NewEntryIterator(repo, 2)
	wantErr := errors.New("boom")
	calls := 0
	err := it.ForEach(context.Background(), func(batch []*core.CatalogEntry) error {
		calls++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestEntryIterator_DefaultBatchSize(t *testing.T) {
	repo := setupRepo(t)
	it := NewEntryIterator(repo, 0)
	assert.Equal(t, DefaultBatchSize, it.batchSize)
}

func TestEntryIterator_Count(t *testing.T) {
	repo := setupRepo(t)
	seedEntries(t, repo, 7)

	it := NewEntryIterator(repo, 3)
	total, err := it.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, total)
}
