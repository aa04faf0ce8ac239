package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	sqrt2 := float32(math.Sqrt(2))

	tests := []struct {
		name     string
		input    []float32
		expected []float32
	}{
		{
			name:     "unit vector remains unchanged",
			input:    []float32{1.0, 0.0, 0.0},
			expected: []float32{1.0, 0.0, 0.0},
		},
		{
			name:     "scales a raw model output down",
			input:    []float32{3.0, 4.0},
			expected: []float32{0.6, 0.8},
		},
		{
			name:     "mixed-sign components",
			input:    []float32{-1.0, 1.0},
			expected: []float32{-1.0 / sqrt2, 1.0 / sqrt2},
		},
		{
			name:     "scales tiny components up",
			input:    []float32{0.0, 0.003, 0.004},
			expected: []float32{0.0, 0.6, 0.8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeVector(tt.input)
			require.Equal(t, len(tt.expected), len(result), "vector length mismatch")

			for i := range result {
				assert.InDelta(t, tt.expected[i], result[i], 1e-6, "element %d", i)
			}
		})
	}
}

// Similarity search relies on normalized vectors so cosine similarity is a
// plain dot product. Self-similarity of any normalized vector must be 1.
func TestNormalizeVector_SelfSimilarityIsOne(t *testing.T) {
	inputs := [][]float32{
		{0.12, -0.48, 0.33, 0.71},
		{42.0, 7.5, -13.25},
		{0.0001, 0.0002},
	}

	for _, input := range inputs {
		normalized := NormalizeVector(input)

		var dot float64
		for _, v := range normalized {
			dot += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, dot, 1e-6)
	}
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	result := NormalizeVector([]float32{0.0, 0.0, 0.0})

	// Can't normalize a zero vector; it must come back zero, not NaN.
	for i, v := range result {
		assert.Equal(t, float32(0.0), v, "element %d should be 0", i)
	}
}

func TestNormalizeVector_EmptyVector(t *testing.T) {
	result := NormalizeVector([]float32{})
	assert.Empty(t, result)
}
