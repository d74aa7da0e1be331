package streams

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"golang_chromakey/pipeline"
)

const (
	defaultFrameRate = 30.0
	maxReadFailures  = 5
)

// Stream is a gocv-backed frame producer.
type Stream interface {
	NextFrame() bool
	Frame() *gocv.Mat
	Rate() float64
	Close() error
}

// InputVideo reads a video file and rewinds on EOF.
type InputVideo struct {
	SourceFile  string
	FrameBuffer *gocv.Mat
	VideoReader *gocv.VideoCapture
	FrameSize   image.Point
	FrameRate   float64
}

func OpenInputVideo(path string) (*InputVideo, error) {
	vr, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video file %s: %w", path, err)
	}
	img := gocv.NewMat()
	in := &InputVideo{
		SourceFile:  path,
		FrameBuffer: &img,
		VideoReader: vr,
		FrameSize: image.Pt(
			int(vr.Get(gocv.VideoCaptureFrameWidth)),
			int(vr.Get(gocv.VideoCaptureFrameHeight)),
		),
		FrameRate: vr.Get(gocv.VideoCaptureFPS),
	}

	logrus.WithFields(logrus.Fields{
		"function":   "OpenInputVideo",
		"file":       path,
		"width":      in.FrameSize.X,
		"height":     in.FrameSize.Y,
		"frame_rate": in.FrameRate,
	}).Info("Video file opened")
	return in, nil
}

func (in *InputVideo) NextFrame() bool {
	if ok := in.VideoReader.Read(in.FrameBuffer); !ok {
		// rewind for the EOF case and read again
		in.VideoReader.Set(gocv.VideoCapturePosFrames, 0)
		if ok := in.VideoReader.Read(in.FrameBuffer); !ok {
			return false
		}
	}
	if in.FrameBuffer.Empty() {
		logrus.WithFields(logrus.Fields{
			"function": "NextFrame",
			"file":     in.SourceFile,
		}).Debug("Empty frame buffer read from video file")
		return false
	}
	return true
}

func (in *InputVideo) Frame() *gocv.Mat { return in.FrameBuffer }

func (in *InputVideo) Rate() float64 { return in.FrameRate }

func (in *InputVideo) Close() error {
	in.FrameBuffer.Close()
	return in.VideoReader.Close()
}

// Decoder pulls frames from a Stream at its own rate and publishes them to
// the render loop's mailbox. Raw frames go to the raw writer, if any.
type Decoder struct {
	stream  Stream
	mailbox *pipeline.Mailbox
	raw     *RawWriter
}

func NewDecoder(stream Stream, mailbox *pipeline.Mailbox, raw *RawWriter) *Decoder {
	return &Decoder{stream: stream, mailbox: mailbox, raw: raw}
}

// Run decodes until ctx is done or the stream fails repeatedly. The
// mailbox is closed on return so the render loop can finish.
func (d *Decoder) Run(ctx context.Context) error {
	defer d.mailbox.Close()

	ticker := time.NewTicker(frameInterval(d.stream.Rate()))
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if !d.stream.NextFrame() {
			failures++
			if failures >= maxReadFailures {
				return fmt.Errorf("read frame after %d attempts: %w", failures, pipeline.ErrSourceClosed)
			}
			continue
		}
		failures = 0

		mat := d.stream.Frame()
		if d.raw != nil {
			if err := d.raw.Write(mat); err != nil {
				logrus.WithFields(logrus.Fields{
					"function": "Decoder.Run",
					"error":    err.Error(),
				}).Warn("Raw stream frame not recorded")
			}
		}

		img, err := mat.ToImage()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Decoder.Run",
				"error":    err.Error(),
			}).Warn("Frame conversion failed")
			continue
		}
		d.mailbox.Publish(img)
	}
}

func frameInterval(fps float64) time.Duration {
	return time.Duration(float64(time.Second) / sanitizeRate(fps))
}

// LoadBackground reads a backdrop image from disk.
func LoadBackground(path string) (image.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("read background %s: %w", path, errEmptyImage)
	}
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", path, err)
	}
	return img, nil
}

var errEmptyImage = errors.New("image is empty or unreadable")
