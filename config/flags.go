package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Parse builds Settings from defaults, the optional --config file and the
// command line, in increasing priority.
func Parse(name string, args []string) (Settings, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fv := Default()

	configPath := fs.String("config", "", "YAML settings file")
	fs.StringVarP(&fv.Input, "input", "i", fv.Input, "video file to key (looped)")
	fs.IntVarP(&fv.Device, "device", "d", fv.Device, "capture device index")
	fs.StringVarP(&fv.Background, "background", "b", fv.Background, "backdrop image shown behind keyed pixels")
	fs.StringVar(&fv.KeyColor, "key", fv.KeyColor, "key color (name, #RRGGBB or #RRGGBBAA)")
	fs.Float32Var(&fv.Similarity, "similarity", fv.Similarity, "chroma distance keyed out completely")
	fs.Float32Var(&fv.Smoothness, "smoothness", fv.Smoothness, "width of the transparent-to-opaque ramp")
	fs.IntVar(&fv.BlurRadius, "blur", fv.BlurRadius, "matte blur radius in texels, 0 disables")
	fs.IntVar(&fv.RefreshRate, "refresh", fv.RefreshRate, "render ticks per second")
	fs.IntVar(&fv.WindowWidth, "width", fv.WindowWidth, "initial window width")
	fs.IntVar(&fv.WindowHeight, "height", fv.WindowHeight, "initial window height")
	fs.BoolVar(&fv.Record, "record", fv.Record, "record raw and composited video")
	fs.StringVarP(&fv.OutputDir, "output", "o", fv.OutputDir, "output directory")
	fs.IntVar(&fv.StillEvery, "still-every", fv.StillEvery, "save every Nth matted frame as transparent WebP, 0 disables")
	fs.StringVar(&fv.LogLevel, "log-level", fv.LogLevel, "log level")
	fs.BoolVar(&fv.ListDevices, "list-devices", false, "list capture devices and exit")

	if err := fs.Parse(args); err != nil {
		return Settings{}, err
	}
	if fs.NArg() > 0 {
		return Settings{}, fmt.Errorf("%w: unexpected arguments %v", ErrInvalidConfig, fs.Args())
	}

	s := Default()
	if *configPath != "" {
		var err error
		if s, err = Load(*configPath, s); err != nil {
			return Settings{}, err
		}
	}

	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply(&s, &fv)
		}
	})
	s.ListDevices = fv.ListDevices

	return s, s.Validate()
}

var overrides = map[string]func(dst, src *Settings){
	"input":       func(dst, src *Settings) { dst.Input = src.Input },
	"device":      func(dst, src *Settings) { dst.Device = src.Device },
	"background":  func(dst, src *Settings) { dst.Background = src.Background },
	"key":         func(dst, src *Settings) { dst.KeyColor = src.KeyColor },
	"similarity":  func(dst, src *Settings) { dst.Similarity = src.Similarity },
	"smoothness":  func(dst, src *Settings) { dst.Smoothness = src.Smoothness },
	"blur":        func(dst, src *Settings) { dst.BlurRadius = src.BlurRadius },
	"refresh":     func(dst, src *Settings) { dst.RefreshRate = src.RefreshRate },
	"width":       func(dst, src *Settings) { dst.WindowWidth = src.WindowWidth },
	"height":      func(dst, src *Settings) { dst.WindowHeight = src.WindowHeight },
	"record":      func(dst, src *Settings) { dst.Record = src.Record },
	"output":      func(dst, src *Settings) { dst.OutputDir = src.OutputDir },
	"still-every": func(dst, src *Settings) { dst.StillEvery = src.StillEvery },
	"log-level":   func(dst, src *Settings) { dst.LogLevel = src.LogLevel },
}
