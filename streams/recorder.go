package streams

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/chai2010/webp"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
	"golang.org/x/image/draw"

	"golang_chromakey/matte"
)

const codec = "mp4v"

// RawWriter records the unprocessed input stream. The writer is opened on
// the first frame, when the native size is known.
type RawWriter struct {
	path   string
	fps    float64
	writer *gocv.VideoWriter
	size   image.Point
}

func NewRawWriter(dir string, fps float64) *RawWriter {
	return &RawWriter{
		path: filepath.Join(dir, "stream_raw_output.mp4"),
		fps:  sanitizeRate(fps),
	}
}

func (w *RawWriter) Write(frame *gocv.Mat) error {
	size := image.Pt(frame.Cols(), frame.Rows())
	if w.writer == nil {
		vw, err := gocv.VideoWriterFile(w.path, codec, w.fps, size.X, size.Y, true)
		if err != nil {
			return fmt.Errorf("open raw writer %s: %w", w.path, err)
		}
		w.writer, w.size = vw, size
		logrus.WithFields(logrus.Fields{
			"function": "RawWriter.Write",
			"file":     w.path,
			"width":    size.X,
			"height":   size.Y,
		}).Info("Recording raw stream")
	}
	if size != w.size {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(*frame, &resized, w.size, 0, 0, gocv.InterpolationDefault)
		return w.writer.Write(resized)
	}
	return w.writer.Write(*frame)
}

func (w *RawWriter) Close() error {
	if w.writer == nil {
		return nil
	}
	return w.writer.Close()
}

// Recorder is a render-loop sink. It writes the composited stream (keyed
// output over the backdrop) as video and saves every Nth matted frame as
// a transparent WebP still.
type Recorder struct {
	dir        string
	fps        float64
	backdrop   *matte.Backdrop
	record     bool
	stillEvery int

	mu       sync.Mutex
	fxWriter *gocv.VideoWriter
	fxSize   image.Point
	flat     *image.RGBA
	scaled   *image.RGBA
	frames   int
	stills   int
}

func NewRecorder(dir string, fps float64, backdrop *matte.Backdrop, record bool, stillEvery int) (*Recorder, error) {
	if err := InitOutputDir(dir); err != nil {
		return nil, err
	}
	return &Recorder{
		dir:        dir,
		fps:        sanitizeRate(fps),
		backdrop:   backdrop,
		record:     record,
		stillEvery: stillEvery,
	}, nil
}

func (r *Recorder) Present(surface *image.RGBA) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames++
	if r.stillEvery > 0 && r.frames%r.stillEvery == 0 {
		if err := r.saveStill(surface); err != nil {
			return err
		}
	}
	if !r.record {
		return nil
	}
	return r.writeFx(surface)
}

func (r *Recorder) writeFx(surface *image.RGBA) error {
	size := surface.Rect.Size()
	if r.fxWriter == nil {
		path := filepath.Join(r.dir, "stream_fx_output.mp4")
		vw, err := gocv.VideoWriterFile(path, codec, r.fps, size.X, size.Y, true)
		if err != nil {
			return fmt.Errorf("open fx writer %s: %w", path, err)
		}
		r.fxWriter, r.fxSize = vw, size
		r.flat = image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
		logrus.WithFields(logrus.Fields{
			"function": "Recorder.Present",
			"file":     path,
			"width":    size.X,
			"height":   size.Y,
		}).Info("Recording fx stream")
	}

	// the writer size is fixed; later surface sizes are scaled to it
	src := surface
	if size != r.fxSize {
		if r.scaled == nil {
			r.scaled = image.NewRGBA(image.Rect(0, 0, r.fxSize.X, r.fxSize.Y))
		}
		draw.ApproxBiLinear.Scale(r.scaled, r.scaled.Rect, surface, surface.Rect, draw.Src, nil)
		src = r.scaled
	}
	r.backdrop.Flatten(r.flat, src)

	mat, err := gocv.ImageToMatRGB(r.flat)
	if err != nil {
		return fmt.Errorf("convert fx frame: %w", err)
	}
	defer mat.Close()
	return r.fxWriter.Write(mat)
}

func (r *Recorder) saveStill(surface *image.RGBA) error {
	data, err := EncodeStill(surface)
	if err != nil {
		return err
	}
	path := stillPath(r.dir, r.stills)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save still %s: %w", path, err)
	}
	r.stills++

	logrus.WithFields(logrus.Fields{
		"function": "Recorder.saveStill",
		"file":     path,
		"size":     humanize.Bytes(uint64(len(data))),
	}).Debug("Saved matted still")
	return nil
}

// EncodeStill converts the premultiplied surface to straight alpha and
// encodes it as lossless WebP.
func EncodeStill(surface *image.RGBA) ([]byte, error) {
	straight := image.NewNRGBA(image.Rect(0, 0, surface.Rect.Dx(), surface.Rect.Dy()))
	draw.Draw(straight, straight.Rect, surface, surface.Rect.Min, draw.Src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, straight, &webp.Options{Lossless: true}); err != nil {
		return nil, fmt.Errorf("encode still: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Recorder) Stills() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stills
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fxWriter == nil {
		return nil
	}
	err := r.fxWriter.Close()
	r.fxWriter = nil
	return err
}

func sanitizeRate(fps float64) float64 {
	if fps <= 0 || fps > 240 {
		return defaultFrameRate
	}
	return fps
}
