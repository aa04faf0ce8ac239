package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicVector_UnitLength(t *testing.T) {
	for _, text := range []string{"brake pad", "oil filter", "shock absorber"} {
		vector := DeterministicVector(text, DefaultDimension)
		require.Len(t, vector, DefaultDimension)

		var sumSquares float64
		for _, v := range vector {
			sumSquares += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, sumSquares, 0.001, "vector for %q should be unit length", text)
	}
}

func TestDeterministicVector_SameInputSameOutput(t *testing.T) {
	a := DeterministicVector("brake pad", DefaultDimension)
	b := DeterministicVector("brake pad", DefaultDimension)
	assert.Equal(t, a, b)
}

func TestMockEmbedder_ConcurrentCallCount(t *testing.T) {
	embedder := NewMockEmbedder()
	summarizer := NewMockSummarizer()

	const n = 64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = embedder.EmbedText(context.Background(), "brake pad")
			_, _ = summarizer.Summarize(context.Background(), "Brake Pad", "ceramic brake pad")
		}()
	}
	wg.Wait()

	assert.Equal(t, n, embedder.CallCount())
	assert.Equal(t, n, summarizer.CallCount())
}
