package search

import "strings"

// Stop words ignored when checking for verbatim matches. Catalog feeds mix
// English and Spanish field text, so both sets are covered.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "and": true, "in": true,
	"for": true, "on": true, "with": true, "to": true, "at": true, "by": true,
	"from": true, "is": true, "it": true, "this": true, "that": true,
	"de": true, "la": true, "el": true, "los": true, "las": true, "un": true,
	"una": true, "y": true, "con": true, "para": true, "en": true, "del": true,
	"por": true, "que": true, "es": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// and removes stop words.
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// containsAllQueryWords reports whether every query word (after filtering)
// appears in the document.
func containsAllQueryWords(document, query string) bool {
	queryWords := tokenizeAndFilter(query)
	if len(queryWords) == 0 {
		return false
	}

	docWords := tokenizeAndFilter(document)
	docWordSet := make(map[string]bool, len(docWords))
	for _, word := range docWords {
		docWordSet[word] = true
	}

	for _, qWord := range queryWords {
		if !docWordSet[qWord] {
			return false
		}
	}

	return true
}
