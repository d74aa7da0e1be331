package window

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne"
	"fyne.io/fyne/app"
	"fyne.io/fyne/canvas"
	"fyne.io/fyne/dialog"
	"github.com/sirupsen/logrus"
)

// StreamWindow shows the keyed stream over an optional backdrop. It is a
// render-loop sink and the source of surface resize events.
type StreamWindow struct {
	app    fyne.App
	window fyne.Window
	matted *canvas.Image

	mu sync.Mutex
}

// New creates the window. onResize receives the surface size in pixels
// whenever the layout changes; stop is called after the operator confirms
// exit and must return once rendering has stopped.
func New(title string, width, height int, backdrop image.Image, onResize func(w, h int) error, stop func()) *StreamWindow {
	a := app.New()
	sw := &StreamWindow{
		app:    a,
		window: a.NewWindow(title),
	}

	sw.matted = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	sw.matted.FillMode = canvas.ImageFillStretch

	var back fyne.CanvasObject = canvas.NewRectangle(color.Black)
	if backdrop != nil {
		img := canvas.NewImageFromImage(backdrop)
		img.FillMode = canvas.ImageFillStretch
		back = img
	}

	layout := &surfaceLayout{onResize: func(size fyne.Size) {
		w, h := sw.pixelSize(size)
		if err := onResize(w, h); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "surfaceLayout.Layout",
				"width":    w,
				"height":   h,
				"error":    err.Error(),
			}).Debug("Resize rejected")
		}
	}}
	sw.window.SetContent(fyne.NewContainerWithLayout(layout, back, sw.matted))
	sw.window.Resize(fyne.NewSize(width, height))

	// set on exit dialog and cleanup
	sw.window.SetCloseIntercept(func() {
		confirmation := dialog.NewConfirm("Confirmation", "Are You Sure You Want to Exit?", func(response bool) {
			if response {
				stop()
				sw.app.Quit()
			}
		}, sw.window)
		confirmation.Show()
	})
	return sw
}

func (sw *StreamWindow) pixelSize(size fyne.Size) (int, int) {
	scale := sw.window.Canvas().Scale()
	if scale <= 0 {
		scale = 1
	}
	return int(float32(size.Width) * scale), int(float32(size.Height) * scale)
}

// Present copies the surface, since the render loop reuses its buffer.
func (sw *StreamWindow) Present(surface *image.RGBA) error {
	frame := image.NewRGBA(image.Rect(0, 0, surface.Rect.Dx(), surface.Rect.Dy()))
	copy(frame.Pix, surface.Pix)

	sw.mu.Lock()
	sw.matted.Image = frame
	sw.mu.Unlock()

	canvas.Refresh(sw.matted)
	return nil
}

// ShowAndRun blocks on the UI loop until the app quits.
func (sw *StreamWindow) ShowAndRun() {
	sw.window.ShowAndRun()
}

// Quit closes the window without asking, e.g. when the source ends.
func (sw *StreamWindow) Quit() {
	sw.app.Quit()
}

// surfaceLayout stretches every object over the window and reports size
// changes.
type surfaceLayout struct {
	onResize func(fyne.Size)
	last     fyne.Size
}

func (l *surfaceLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
	if size == l.last || size.Width <= 0 || size.Height <= 0 {
		return
	}
	l.last = size
	l.onResize(size)
}

func (l *surfaceLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(1, 1)
}
