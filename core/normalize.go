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

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeRecord canonicalizes a raw feed record into a NormalizedRecord.
//
// Rules:
//   - field names are matched case-insensitively, with common source aliases
//   - strings are trimmed; empty string and absent / null are equivalent
//   - price is parsed from string or number and rounded to 2 decimals
//     (half away from zero); unparseable price defaults to 0 and is logged
//   - stock is coerced to a non-negative integer; negative or unparseable
//     values floor at 0 and are logged, never fatal
//   - the original record is preserved verbatim as JSON in RawPayload
//
// Returns ErrMalformedRecord when item code or warehouse name is empty
// after trimming.
func NormalizeRecord(raw map[string]any, logger *slog.Logger) (*NormalizedRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: record is nil", ErrMalformedRecord)
	}

	fields := foldKeys(raw)

	rec := &NormalizedRecord{
		ItemCode:      stringField(fields, "itemcode", "item_code"),
		ItemName:      stringField(fields, "itemname", "item_name"),
		Description:   stringField(fields, "description", "item_description"),
		Category:      stringField(fields, "category"),
		SubCategory:   stringField(fields, "subcategory", "sub_category"),
		Brand:         stringField(fields, "brand"),
		Line:          stringField(fields, "line"),
		GroupName:     stringField(fields, "groupname", "group_name", "itemgroupname"),
		WarehouseName: stringField(fields, "whsname", "warehousename", "warehouse_name"),
		BranchName:    stringField(fields, "branchname", "branch_name"),
	}

	if rec.ItemCode == "" {
		return nil, fmt.Errorf("%w: item code is empty", ErrMalformedRecord)
	}
	if rec.WarehouseName == "" {
		return nil, fmt.Errorf("%w: warehouse name is empty", ErrMalformedRecord)
	}

	rec.Price = priceField(fields, rec.ItemCode, logger)
	rec.Stock = stockField(fields, rec.ItemCode, logger)

	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding raw payload: %w", ErrMalformedRecord, err)
	}
	rec.RawPayload = payload

	return rec, nil
}

// foldKeys lowercases map keys so field lookup tolerates source casing drift.
func foldKeys(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

func stringField(fields map[string]any, names ...string) string {
	for _, name := range names {
		v, ok := fields[name]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func priceField(fields map[string]any, itemCode string, logger *slog.Logger) decimal.Decimal {
	v, ok := fields["price"]
	if !ok || v == nil {
		return decimal.Zero
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch p := v.(type) {
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(p))
	case float64:
		d = decimal.NewFromFloat(p)
	case int:
		d = decimal.NewFromInt(int64(p))
	case int64:
		d = decimal.NewFromInt(p)
	case json.Number:
		d, err = decimal.NewFromString(p.String())
	default:
		err = fmt.Errorf("unsupported price type %T", v)
	}
	if err != nil {
		logger.Warn("unparseable price, defaulting to 0",
			"item_code", itemCode, "value", fmt.Sprint(v), "error", err)
		return decimal.Zero
	}
	return d.Round(2)
}

func stockField(fields map[string]any, itemCode string, logger *slog.Logger) int64 {
	v, ok := fields["stock"]
	if !ok || v == nil {
		return 0
	}

	var (
		n   int64
		err error
	)
	switch s := v.(type) {
	case string:
		n, err = strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	case float64:
		n = int64(s)
	case int:
		n = int64(s)
	case int64:
		n = s
	case json.Number:
		var f float64
		f, err = s.Float64()
		n = int64(f)
	default:
		err = fmt.Errorf("unsupported stock type %T", v)
	}
	if err != nil {
		logger.Warn("unparseable stock, flooring at 0",
			"item_code", itemCode, "value", fmt.Sprint(v), "error", err)
		return 0
	}
	if n < 0 {
		logger.Warn("negative stock, flooring at 0",
			"item_code", itemCode, "value", n)
		return 0
	}
	return n
}
