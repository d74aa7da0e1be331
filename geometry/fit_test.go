package geometry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name           string
		surfaceW       int
		surfaceH       int
		videoW         int
		videoH         int
		expectedScaleX float32
		expectedScaleY float32
	}{
		{
			name:           "matching aspect is full bleed",
			surfaceW:       1920,
			surfaceH:       1080,
			videoW:         1280,
			videoH:         720,
			expectedScaleX: 1,
			expectedScaleY: 1,
		},
		{
			name:           "wide video on square surface is letterboxed",
			surfaceW:       1000,
			surfaceH:       1000,
			videoW:         1920,
			videoH:         1080,
			expectedScaleX: 1,
			expectedScaleY: 0.5625,
		},
		{
			name:           "tall video on wide surface is pillarboxed",
			surfaceW:       1600,
			surfaceH:       900,
			videoW:         1080,
			videoH:         1920,
			expectedScaleX: 0.31640625,
			expectedScaleY: 1,
		},
		{
			name:           "neutral video size before metadata",
			surfaceW:       800,
			surfaceH:       600,
			videoW:         1,
			videoH:         1,
			expectedScaleX: 0.75,
			expectedScaleY: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Fit(tt.surfaceW, tt.surfaceH, tt.videoW, tt.videoH)
			require.NoError(t, err)
			assert.InDelta(t, tt.expectedScaleX, q.ScaleX, 1e-5)
			assert.InDelta(t, tt.expectedScaleY, q.ScaleY, 1e-5)
		})
	}
}

func TestFit_EqualAspectIsExactlyOne(t *testing.T) {
	for _, size := range [][4]int{{1920, 1080, 1280, 720}, {640, 480, 320, 240}, {500, 500, 7, 7}} {
		q, err := Fit(size[0], size[1], size[2], size[3])
		require.NoError(t, err)
		assert.Equal(t, float32(1), q.ScaleX)
		assert.Equal(t, float32(1), q.ScaleY)
	}
}

func TestFit_InvalidDimensions(t *testing.T) {
	for _, size := range [][4]int{
		{0, 1080, 1280, 720},
		{1920, 0, 1280, 720},
		{1920, 1080, -1, 720},
		{1920, 1080, 1280, 0},
	} {
		_, err := Fit(size[0], size[1], size[2], size[3])
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidDimensions))
	}
}

func TestFit_Idempotent(t *testing.T) {
	a, err := Fit(1366, 768, 1920, 1080)
	require.NoError(t, err)
	b, err := Fit(1366, 768, 1920, 1080)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFit_PreservesVideoAspectInPixels(t *testing.T) {
	sizes := [][4]int{
		{1920, 1080, 640, 480},
		{1000, 1000, 1920, 1080},
		{300, 900, 1280, 720},
		{2560, 1080, 720, 1280},
		{1024, 768, 1024, 768},
	}
	for _, s := range sizes {
		q, err := Fit(s[0], s[1], s[2], s[3])
		require.NoError(t, err)

		quadW := 2 * q.ScaleX * float32(s[0])
		quadH := 2 * q.ScaleY * float32(s[1])
		assert.InDelta(t, float64(s[2])/float64(s[3]), float64(quadW/quadH), 1e-4)
		assert.LessOrEqual(t, q.ScaleX, float32(1))
		assert.LessOrEqual(t, q.ScaleY, float32(1))
	}
}

func TestQuad_VerticesAndFlip(t *testing.T) {
	q, err := Fit(1000, 1000, 1920, 1080)
	require.NoError(t, err)

	positions := q.Positions()
	texCoords := q.TexCoords()
	require.Len(t, positions, 12)
	require.Len(t, texCoords, 12)

	for _, v := range q.Vertices {
		assert.InDelta(t, q.ScaleX, abs32(v.X), 1e-6)
		assert.InDelta(t, q.ScaleY, abs32(v.Y), 1e-6)
		// bottom of the quad maps to the last frame row
		if v.Y < 0 {
			assert.Equal(t, float32(1), v.V)
		} else {
			assert.Equal(t, float32(0), v.V)
		}
		if v.X < 0 {
			assert.Equal(t, float32(0), v.U)
		} else {
			assert.Equal(t, float32(1), v.U)
		}
	}
}

func TestQuad_ConsistentWinding(t *testing.T) {
	q, err := Fit(640, 480, 640, 480)
	require.NoError(t, err)
	for i := 0; i < 6; i += 3 {
		a, b, c := q.Vertices[i], q.Vertices[i+1], q.Vertices[i+2]
		cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		assert.Greater(t, cross, float32(0), "triangle %d is not counter-clockwise", i/3)
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
