package matte

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToYCbCr(t *testing.T) {
	g := ToYCbCr(DefaultKey)
	assert.InDelta(t, 0.587, g.Y, 1e-6)
	assert.InDelta(t, -0.587, g.Cb, 1e-6)
	assert.InDelta(t, -0.587, g.Cr, 1e-6)

	white := ToYCbCr(ColorRGBA{R: 1, G: 1, B: 1, A: 1})
	assert.InDelta(t, 1, white.Y, 1e-6)
	assert.InDelta(t, 0, white.Cb, 1e-6)
	assert.InDelta(t, 0, white.Cr, 1e-6)
}

func TestChromaDistance_IgnoresLuma(t *testing.T) {
	gray := ColorRGBA{R: 0.2, G: 0.2, B: 0.2, A: 1}
	light := ColorRGBA{R: 0.9, G: 0.9, B: 0.9, A: 1}
	assert.InDelta(t, 0, ChromaDistance(gray, light), 1e-6)
	assert.Equal(t, float32(0), ChromaDistance(DefaultKey, DefaultKey))
}

func TestChromaDistance_RedFromGreen(t *testing.T) {
	d := ChromaDistance(ColorRGBA{R: 1, A: 1}, DefaultKey)
	assert.InDelta(t, 1.3198, d, 1e-3)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected ColorRGBA
	}{
		{input: "green", expected: ColorRGBA{G: 1, A: 1}},
		{input: " Blue ", expected: ColorRGBA{B: 1, A: 1}},
		{input: "#00FF00", expected: ColorRGBA{G: 1, A: 1}},
		{input: "0x0000ff", expected: ColorRGBA{B: 1, A: 1}},
		{input: "#FF000000", expected: ColorRGBA{R: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseColor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, input := range []string{"", "chartreuse", "#12345", "#GGGGGG"} {
		_, err := ParseColor(input)
		assert.Error(t, err, input)
	}
}

func TestColorRGBA_String(t *testing.T) {
	assert.Equal(t, "#00FF00FF", DefaultKey.String())
}
