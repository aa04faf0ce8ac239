package core

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptTag = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleTag  = regexp.MustCompile(`(?is)<style.*?</style>`)
	allTags   = regexp.MustCompile(`<[^>]*>`)
)

// StripHTML reduces markup-laden description text to plain text: script and
// style blocks are dropped with their contents, remaining tags become
// spaces, entities are decoded, and whitespace is collapsed.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsRune(s, '<') && !strings.ContainsRune(s, '&') {
		return CanonicalText(s)
	}
	s = scriptTag.ReplaceAllString(s, " ")
	s = styleTag.ReplaceAllString(s, " ")
	s = allTags.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return CanonicalText(s)
}
