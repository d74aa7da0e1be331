package matte

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, float32(0), Smoothstep(0.4, 0.5, 0.1))
	assert.Equal(t, float32(0), Smoothstep(0.4, 0.5, 0.4))
	assert.Equal(t, float32(1), Smoothstep(0.4, 0.5, 0.5))
	assert.Equal(t, float32(1), Smoothstep(0.4, 0.5, 2))
	assert.InDelta(t, 0.5, Smoothstep(0.4, 0.5, 0.45), 1e-5)
	assert.InDelta(t, 0.15625, Smoothstep(0, 1, 0.25), 1e-6)
}

func TestSmoothstep_ZeroWidthIsStep(t *testing.T) {
	assert.Equal(t, float32(0), Smoothstep(0.4, 0.4, 0.4))
	assert.Equal(t, float32(1), Smoothstep(0.4, 0.4, 0.40001))
}

func TestSmoothstep_Monotonic(t *testing.T) {
	prev := float32(0)
	for i := 0; i <= 1000; i++ {
		x := float32(i) / 1000
		got := Smoothstep(0.4, 0.5, x)
		assert.GreaterOrEqual(t, got, prev, "x=%v", x)
		assert.GreaterOrEqual(t, got, float32(0))
		assert.LessOrEqual(t, got, float32(1))
		prev = got
	}
}
