package core

import "strings"

// Classify compares a normalized incoming record against the stored entry
// for the same identity and reports what kind of change it represents.
//
// Description comparison happens first and dominates: a description change
// drives re-summarization, so it wins even when other fields also differ
// (the upsert persists every changed field regardless of classification).
// Text fields are compared after whitespace collapsing and case folding, so
// cosmetic re-sends classify as ChangeNone and cost nothing downstream.
//
// The result is advisory. Concurrent ingestions for the same identity are
// serialized by the storage layer at write time, not here.
func Classify(existing *CatalogEntry, incoming *NormalizedRecord) Change {
	if existing == nil {
		return ChangeNew
	}

	if !textEqual(existing.Description, incoming.Description) {
		return ChangeDescription
	}

	switch {
	case !textEqual(existing.ItemName, incoming.ItemName),
		!textEqual(existing.Category, incoming.Category),
		!textEqual(existing.SubCategory, incoming.SubCategory),
		!textEqual(existing.Brand, incoming.Brand),
		!textEqual(existing.Line, incoming.Line),
		!textEqual(existing.GroupName, incoming.GroupName),
		!textEqual(existing.WarehouseName, incoming.WarehouseName),
		!textEqual(existing.BranchName, incoming.BranchName),
		!existing.Price.Equal(incoming.Price),
		existing.Stock != incoming.Stock:
		return ChangeOtherFields
	}

	return ChangeNone
}

// textEqual reports whether two text fields match after whitespace
// collapsing and case folding.
func textEqual(a, b string) bool {
	return strings.EqualFold(CanonicalText(a), CanonicalText(b))
}

// CanonicalText collapses all whitespace runs in s to single spaces and
// trims the ends. It is the comparison form for text fields; stored values
// keep their original spacing.
func CanonicalText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
