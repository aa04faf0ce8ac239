package core

import "strings"

// ComposeEmbeddingText builds the canonical text fed to the embedding
// model. Pure and deterministic: identical inputs always produce identical
// output, which is what lets the embedding dispatcher skip the collaborator
// when nothing changed.
//
// The description component is the summary when present, otherwise the
// markup-stripped description. Parts are joined with single spaces in this
// fixed order, skipping empties:
//
//	description component, brand, item name, category, sub-category,
//	group, line
func ComposeEmbeddingText(summary, descriptionHTML, brand, name, category, subCategory, group, line string) string {
	descComponent := strings.TrimSpace(summary)
	if descComponent == "" {
		descComponent = StripHTML(descriptionHTML)
	}

	parts := make([]string, 0, 7)
	for _, p := range []string{descComponent, brand, name, category, subCategory, group, line} {
		if p = CanonicalText(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ComposeEntryText is ComposeEmbeddingText over a normalized record and its
// chosen summary.
func ComposeEntryText(rec *NormalizedRecord, summary string) string {
	return ComposeEmbeddingText(summary, rec.Description, rec.Brand, rec.ItemName,
		rec.Category, rec.SubCategory, rec.GroupName, rec.Line)
}
