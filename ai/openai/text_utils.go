package openai

import "strings"

// truncateAtSentence cuts s to at most max bytes, preferring to break after
// the last sentence-ending punctuation inside the window. Falls back to the
// last space, then to a hard cut.
func truncateAtSentence(s string, max int) string {
	if len(s) <= max {
		return s
	}

	window := s[:max]
	if idx := strings.LastIndexAny(window, ".!?"); idx > 0 {
		return strings.TrimSpace(window[:idx+1])
	}
	if idx := strings.LastIndex(window, " "); idx > 0 {
		return strings.TrimSpace(window[:idx])
	}
	return window
}
