package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang_chromakey/matte"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chromakey.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, matte.DefaultKey, s.Key())
	assert.Equal(t, matte.DefaultParams(), s.MatteParams())
	assert.Equal(t, time.Second/60, s.TickInterval())
	assert.Equal(t, logrus.InfoLevel, s.Level())

	// no input yet
	assert.True(t, errors.Is(s.Validate(), ErrInvalidConfig))
	s.Input = "clip.mp4"
	assert.NoError(t, s.Validate())
}

func TestParse_Flags(t *testing.T) {
	s, err := Parse("chromakey", []string{
		"--input", "clip.mp4",
		"--key", "blue",
		"--similarity", "0.3",
		"--blur", "2",
		"--still-every", "10",
		"--log-level", "debug",
	})
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", s.Input)
	assert.Equal(t, matte.ColorRGBA{B: 1, A: 1}, s.Key())
	assert.Equal(t, matte.Params{Similarity: 0.3, Smoothness: 0.1, BlurRadius: 2}, s.MatteParams())
	assert.Equal(t, 10, s.StillEvery)
	assert.Equal(t, logrus.DebugLevel, s.Level())
}

func TestParse_FileThenFlags(t *testing.T) {
	path := writeConfig(t, `
device: 2
key_color: "#0000FF"
smoothness: 0.2
blur_radius: 1
refresh_rate: 30
record: true
`)
	s, err := Parse("chromakey", []string{"--config", path, "--blur", "3"})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Device)
	assert.Equal(t, matte.ColorRGBA{B: 1, A: 1}, s.Key())
	assert.Equal(t, float32(0.4), s.Similarity, "missing keys keep defaults")
	assert.Equal(t, float32(0.2), s.Smoothness)
	assert.Equal(t, 3, s.BlurRadius, "flags win over the file")
	assert.Equal(t, 30, s.RefreshRate)
	assert.True(t, s.Record)
	assert.Equal(t, "./output", s.OutputDir)
}

func TestParse_ListDevicesNeedsNoInput(t *testing.T) {
	s, err := Parse("chromakey", []string{"--list-devices"})
	require.NoError(t, err)
	assert.True(t, s.ListDevices)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no source", args: nil},
		{name: "both sources", args: []string{"-i", "clip.mp4", "-d", "0"}},
		{name: "bad key", args: []string{"-i", "clip.mp4", "--key", "mauve"}},
		{name: "negative blur", args: []string{"-i", "clip.mp4", "--blur", "-1"}},
		{name: "negative similarity", args: []string{"-i", "clip.mp4", "--similarity", "-0.5"}},
		{name: "zero refresh", args: []string{"-i", "clip.mp4", "--refresh", "0"}},
		{name: "bad window", args: []string{"-i", "clip.mp4", "--width", "0"}},
		{name: "bad log level", args: []string{"-i", "clip.mp4", "--log-level", "loud"}},
		{name: "record without output", args: []string{"-i", "clip.mp4", "--record", "-o", ""}},
		{name: "stray argument", args: []string{"-i", "clip.mp4", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("chromakey", tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), Default())
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "similarity: [not a number"), Default())
	assert.Error(t, err)
}
