package mock

import (
	"context"
	"strings"
	"sync/atomic"
)

// MockSummarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, uses default deterministic behavior.
	SummarizeFunc func(ctx context.Context, itemName, description string) (string, error)

	callCount atomic.Int64
}

// NewMockSummarizer creates a mock summarizer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize produces a deterministic mock summary.
// Default behavior: the first eight words of the description prefixed with
// the item name, so tests can tell which inputs produced a summary.
func (m *MockSummarizer) Summarize(ctx context.Context, itemName, description string) (string, error) {
	m.callCount.Add(1)

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, itemName, description)
	}

	words := strings.Fields(description)
	if len(words) > 8 {
		words = words[:8]
	}
	if len(words) == 0 {
		return itemName, nil
	}
	return itemName + ": " + strings.Join(words, " "), nil
}

// CallCount returns the number of times Summarize was called.
// Safe for concurrent use, the mocks are called from worker goroutines.
func (m *MockSummarizer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockSummarizer) Reset() {
	m.callCount.Store(0)
	m.SummarizeFunc = nil
}
