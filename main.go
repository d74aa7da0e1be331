package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"golang_chromakey/config"
	"golang_chromakey/geometry"
	"golang_chromakey/matte"
	"golang_chromakey/pipeline"
	"golang_chromakey/streams"
	"golang_chromakey/window"
)

const maxProbedDevices = 10

func main() {
	settings, err := config.Parse(os.Args[0], os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(settings.Level())

	if settings.ListDevices {
		for _, id := range streams.EnumerateCaptureDevices(maxProbedDevices) {
			fmt.Printf("Found capture device at index %d\n", id)
		}
		return
	}

	if err := run(settings); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Fatal("Chroma key stream failed")
	}
}

func openStream(s config.Settings) (streams.Stream, error) {
	if s.Input != "" {
		return streams.OpenInputVideo(s.Input)
	}
	return streams.OpenCaptureDevice(s.Device)
}

func run(s config.Settings) error {
	stream, err := openStream(s)
	if err != nil {
		return err
	}
	defer stream.Close()

	var background image.Image
	if s.Background != "" {
		if background, err = streams.LoadBackground(s.Background); err != nil {
			return err
		}
	}

	compositor, err := matte.NewCompositor(s.Key(), s.MatteParams())
	if err != nil {
		return err
	}
	aspect, err := geometry.NewAspectState(s.WindowWidth, s.WindowHeight)
	if err != nil {
		return err
	}

	var raw *streams.RawWriter
	if s.Record {
		raw = streams.NewRawWriter(s.OutputDir, stream.Rate())
		defer raw.Close()
	}
	var recorder *streams.Recorder
	if s.Record || s.StillEvery > 0 {
		recorder, err = streams.NewRecorder(s.OutputDir, stream.Rate(), matte.NewBackdrop(background), s.Record, s.StillEvery)
		if err != nil {
			return err
		}
		defer recorder.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailbox := pipeline.NewMailbox()
	decoder := streams.NewDecoder(stream, mailbox, raw)

	var win *window.StreamWindow
	sinks := []pipeline.Sink{pipeline.SinkFunc(func(surface *image.RGBA) error {
		return win.Present(surface)
	})}
	if recorder != nil {
		sinks = append(sinks, recorder)
	}
	renderer := pipeline.NewRenderer(aspect, compositor, mailbox, sinks...)

	done := make(chan struct{})
	stop := func() {
		cancel()
		<-done
	}
	win = window.New("Stream", s.WindowWidth, s.WindowHeight, background, renderer.Resize, stop)

	logrus.WithFields(logrus.Fields{
		"function":    "run",
		"key":         compositor.Key().String(),
		"similarity":  s.Similarity,
		"smoothness":  s.Smoothness,
		"blur_radius": s.BlurRadius,
		"refresh":     s.RefreshRate,
	}).Info("Starting chroma key stream")

	var runErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return decoder.Run(gctx) })
	g.Go(func() error { return renderer.Run(gctx, s.TickInterval()) })
	go func() {
		runErr = g.Wait()
		close(done)
		if ctx.Err() == nil {
			win.Quit()
		}
	}()

	win.ShowAndRun()
	cancel()
	<-done

	stats := renderer.Stats()
	logrus.WithFields(logrus.Fields{
		"function":    "run",
		"rendered":    stats.Rendered,
		"skipped":     stats.Skipped,
		"sink_errors": stats.SinkErrors,
		"inbox_drops": mailbox.Drops(),
	}).Info("Stream stopped")

	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, pipeline.ErrSourceClosed) {
		return nil
	}
	return runErr
}
