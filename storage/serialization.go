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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/shopspring/decimal"
	"github.com/teselar/catsync/core"
)

// Wire format for CatalogEntry, MUS-encoded field by field in declaration
// order. Price travels as its exact decimal string, timestamps as Unix
// microseconds (0 = zero time), the raw payload as a byte string.

var vectorSer = ord.NewSliceSer[float32](raw.Float32)

// MarshalCatalogEntry serializes a CatalogEntry to bytes.
func MarshalCatalogEntry(entry *core.CatalogEntry) []byte {
	buf := make([]byte, sizeCatalogEntry(entry))
	n := ord.String.Marshal(entry.IdentityKey, buf)
	n += ord.String.Marshal(entry.ItemCode, buf[n:])
	n += ord.String.Marshal(entry.ItemName, buf[n:])
	n += ord.String.Marshal(entry.Description, buf[n:])
	n += ord.String.Marshal(entry.Category, buf[n:])
	n += ord.String.Marshal(entry.SubCategory, buf[n:])
	n += ord.String.Marshal(entry.Brand, buf[n:])
	n += ord.String.Marshal(entry.Line, buf[n:])
	n += ord.String.Marshal(entry.GroupName, buf[n:])
	n += ord.String.Marshal(entry.WarehouseName, buf[n:])
	n += ord.String.Marshal(entry.BranchName, buf[n:])
	n += ord.String.Marshal(entry.Price.String(), buf[n:])
	n += varint.Int64.Marshal(entry.Stock, buf[n:])
	n += ord.String.Marshal(entry.Summary, buf[n:])
	n += ord.String.Marshal(entry.EmbeddingText, buf[n:])
	n += vectorSer.Marshal(entry.Vector, buf[n:])
	n += ord.String.Marshal(string(entry.RawPayload), buf[n:])
	n += varint.Int64.Marshal(timeToMicros(entry.CreatedAt), buf[n:])
	varint.Int64.Marshal(timeToMicros(entry.UpdatedAt), buf[n:])
	return buf
}

// UnmarshalCatalogEntry deserializes a CatalogEntry from bytes.
func UnmarshalCatalogEntry(data []byte) (*core.CatalogEntry, error) {
	var (
		entry core.CatalogEntry
		n     int
		err   error
	)

	strs := []*string{
		&entry.IdentityKey, &entry.ItemCode, &entry.ItemName,
		&entry.Description, &entry.Category, &entry.SubCategory,
		&entry.Brand, &entry.Line, &entry.GroupName,
		&entry.WarehouseName, &entry.BranchName,
	}
	for _, dst := range strs {
		var m int
		*dst, m, err = ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		n += m
	}

	priceStr, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m
	entry.Price, err = decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q: %w", ErrSerializationFailed, priceStr, err)
	}

	entry.Stock, m, err = varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m

	entry.Summary, m, err = ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m
	entry.EmbeddingText, m, err = ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m

	entry.Vector, m, err = vectorSer.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m

	payload, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m
	if payload != "" {
		entry.RawPayload = []byte(payload)
	}

	createdAt, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	n += m
	updatedAt, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	entry.CreatedAt = microsToTime(createdAt)
	entry.UpdatedAt = microsToTime(updatedAt)

	return &entry, nil
}

func sizeCatalogEntry(entry *core.CatalogEntry) int {
	size := ord.String.Size(entry.IdentityKey)
	size += ord.String.Size(entry.ItemCode)
	size += ord.String.Size(entry.ItemName)
	size += ord.String.Size(entry.Description)
	size += ord.String.Size(entry.Category)
	size += ord.String.Size(entry.SubCategory)
	size += ord.String.Size(entry.Brand)
	size += ord.String.Size(entry.Line)
	size += ord.String.Size(entry.GroupName)
	size += ord.String.Size(entry.WarehouseName)
	size += ord.String.Size(entry.BranchName)
	size += ord.String.Size(entry.Price.String())
	size += varint.Int64.Size(entry.Stock)
	size += ord.String.Size(entry.Summary)
	size += ord.String.Size(entry.EmbeddingText)
	size += vectorSer.Size(entry.Vector)
	size += ord.String.Size(string(entry.RawPayload))
	size += varint.Int64.Size(timeToMicros(entry.CreatedAt))
	size += varint.Int64.Size(timeToMicros(entry.UpdatedAt))
	return size
}

func timeToMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microsToTime(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}
