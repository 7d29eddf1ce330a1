package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMathSourceRanges(t *testing.T) {
	src := NewSeeded(42)

	for i := 0; i < 500; i++ {
		n := src.IntRange(1, 3)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 3)

		u := src.Uniform(-1.5, 1.5)
		assert.GreaterOrEqual(t, u, -1.5)
		assert.LessOrEqual(t, u, 1.5)

		f := src.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

func TestMathSourceDegenerateRange(t *testing.T) {
	src := NewSeeded(1)
	assert.Equal(t, 4, src.IntRange(4, 4))
	assert.Equal(t, 4, src.IntRange(4, 2))
}

func TestNeutral(t *testing.T) {
	var src Source = Neutral{}
	assert.Equal(t, 3, src.IntRange(1, 3))
	assert.Equal(t, 0.0, src.Uniform(-1.5, 1.5))
	assert.Greater(t, src.Float64(), 0.99)
}

func TestSequence(t *testing.T) {
	src := NewSequence(0.01, 0.4)
	assert.Equal(t, 0.01, src.Float64())
	assert.Equal(t, 0.4, src.Float64())
	assert.Greater(t, src.Float64(), 0.99)
	assert.Equal(t, 5, src.IntRange(1, 5))
}
