package streams

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// CaptureDevice reads frames from a local camera.
type CaptureDevice struct {
	DeviceID      int
	Connected     bool
	FrameRate     float64
	CaptureHeight int
	CaptureWidth  int
	CaptureDevice *gocv.VideoCapture
	FrameBuffer   *gocv.Mat
}

// OpenCaptureDevice mounts device id and reads back the settings the
// driver actually applied.
func OpenCaptureDevice(id int) (*CaptureDevice, error) {
	logrus.WithFields(logrus.Fields{
		"function":  "OpenCaptureDevice",
		"device_id": id,
	}).Info("Mounting capture device")

	vc, err := gocv.VideoCaptureDeviceWithAPI(id, gocv.VideoCaptureV4L2)
	if err != nil {
		return nil, fmt.Errorf("open capture device %d: %w", id, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("open capture device %d: device in use or missing", id)
	}

	img := gocv.NewMat()
	cap := &CaptureDevice{
		DeviceID:      id,
		CaptureDevice: vc,
		FrameBuffer:   &img,
		CaptureWidth:  int(vc.Get(gocv.VideoCaptureFrameWidth)),
		CaptureHeight: int(vc.Get(gocv.VideoCaptureFrameHeight)),
		FrameRate:     vc.Get(gocv.VideoCaptureFPS),
		Connected:     true,
	}

	logrus.WithFields(logrus.Fields{
		"function":   "OpenCaptureDevice",
		"device_id":  id,
		"width":      cap.CaptureWidth,
		"height":     cap.CaptureHeight,
		"frame_rate": cap.FrameRate,
	}).Info("Capture device mounted")
	return cap, nil
}

// NextFrame reads the next frame into FrameBuffer.
func (cap *CaptureDevice) NextFrame() bool {
	if !cap.Connected || cap.CaptureDevice == nil || cap.FrameBuffer == nil {
		return false
	}
	if ok := cap.CaptureDevice.Read(cap.FrameBuffer); !ok {
		logrus.WithFields(logrus.Fields{
			"function":  "NextFrame",
			"device_id": cap.DeviceID,
		}).Warn("Capture device closed")
		return false
	}
	if cap.FrameBuffer.Empty() {
		logrus.WithFields(logrus.Fields{
			"function":  "NextFrame",
			"device_id": cap.DeviceID,
		}).Debug("Capture device returned an empty frame buffer")
		return false
	}
	return true
}

func (cap *CaptureDevice) Frame() *gocv.Mat { return cap.FrameBuffer }

func (cap *CaptureDevice) Rate() float64 { return cap.FrameRate }

func (cap *CaptureDevice) Close() error {
	cap.Connected = false
	if cap.FrameBuffer != nil {
		cap.FrameBuffer.Close()
	}
	if cap.CaptureDevice != nil {
		return cap.CaptureDevice.Close()
	}
	return nil
}

// EnumerateCaptureDevices probes the first maxDevices indexes.
func EnumerateCaptureDevices(maxDevices int) []int {
	var discoveredDevices []int
	for i := 0; i < maxDevices; i++ {
		webcam, err := gocv.OpenVideoCapture(i)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":  "EnumerateCaptureDevices",
				"device_id": i,
				"error":     err.Error(),
			}).Debug("No capture device at index")
			continue
		}
		if !webcam.IsOpened() {
			logrus.WithFields(logrus.Fields{
				"function":  "EnumerateCaptureDevices",
				"device_id": i,
			}).Info("Capture device in use")
			webcam.Close()
			continue
		}
		discoveredDevices = append(discoveredDevices, i)
		webcam.Close()
	}
	return discoveredDevices
}
