package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"golang_chromakey/matte"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Settings are read once at startup and never change afterwards.
type Settings struct {
	Input      string `yaml:"input"`      // video file, looped on EOF
	Device     int    `yaml:"device"`     // capture device index, -1 when Input is used
	Background string `yaml:"background"` // optional backdrop image

	KeyColor   string  `yaml:"key_color"`
	Similarity float32 `yaml:"similarity"`
	Smoothness float32 `yaml:"smoothness"`
	BlurRadius int     `yaml:"blur_radius"`

	RefreshRate  int `yaml:"refresh_rate"` // render ticks per second
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`

	Record     bool   `yaml:"record"`
	OutputDir  string `yaml:"output_dir"`
	StillEvery int    `yaml:"still_every"` // save every Nth matted frame, 0 disables

	LogLevel string `yaml:"log_level"`

	ListDevices bool `yaml:"-"`
}

func Default() Settings {
	params := matte.DefaultParams()
	return Settings{
		Device:       -1,
		KeyColor:     matte.DefaultKey.String(),
		Similarity:   params.Similarity,
		Smoothness:   params.Smoothness,
		BlurRadius:   params.BlurRadius,
		RefreshRate:  60,
		WindowWidth:  1280,
		WindowHeight: 720,
		OutputDir:    "./output",
		LogLevel:     "info",
	}
}

// Load overlays the YAML file at path onto base. Keys missing from the
// file keep their base value.
func Load(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	s := base
	if err := yaml.Unmarshal(data, &s); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return s, nil
}

func (s Settings) Validate() error {
	if _, err := matte.ParseColor(s.KeyColor); err != nil {
		return fmt.Errorf("%w: key color: %v", ErrInvalidConfig, err)
	}
	if err := s.MatteParams().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !s.ListDevices && s.Input == "" && s.Device < 0 {
		return fmt.Errorf("%w: either an input file or a capture device is required", ErrInvalidConfig)
	}
	if s.Input != "" && s.Device >= 0 {
		return fmt.Errorf("%w: input file and capture device are mutually exclusive", ErrInvalidConfig)
	}
	if s.RefreshRate <= 0 {
		return fmt.Errorf("%w: refresh rate %d must be positive", ErrInvalidConfig, s.RefreshRate)
	}
	if s.WindowWidth <= 0 || s.WindowHeight <= 0 {
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalidConfig, s.WindowWidth, s.WindowHeight)
	}
	if s.StillEvery < 0 {
		return fmt.Errorf("%w: still interval %d is negative", ErrInvalidConfig, s.StillEvery)
	}
	if (s.Record || s.StillEvery > 0) && s.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required for recording", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Key returns the parsed key color. Call Validate first.
func (s Settings) Key() matte.ColorRGBA {
	c, err := matte.ParseColor(s.KeyColor)
	if err != nil {
		return matte.DefaultKey
	}
	return c
}

func (s Settings) MatteParams() matte.Params {
	return matte.Params{
		Similarity: s.Similarity,
		Smoothness: s.Smoothness,
		BlurRadius: s.BlurRadius,
	}
}

func (s Settings) TickInterval() time.Duration {
	return time.Second / time.Duration(s.RefreshRate)
}

func (s Settings) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
