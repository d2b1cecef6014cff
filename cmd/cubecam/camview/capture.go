package camview

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

var (
	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrNoFrame           = errors.New("no frame")
	ErrCameraLost        = errors.New("camera lost")
)

// FrameSource is anything frames can be pulled from, one at a time.
type FrameSource interface {
	Read(m *gocv.Mat) bool
	Close() error
}

// Properties describes what the capture backend reports for an open device.
type Properties struct {
	Width  int
	Height int
	FPS    float64
}

type Camera struct {
	capture *gocv.VideoCapture
}

func OpenCamera(cfg CameraConfig) (*Camera, error) {
	capture, err := gocv.OpenVideoCaptureWithAPI(cfg.Device, gocv.VideoCaptureAPI(cfg.API))
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", ErrCameraUnavailable, cfg.Device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: device %d did not open", ErrCameraUnavailable, cfg.Device)
	}

	if cfg.Width > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	return &Camera{capture: capture}, nil
}

func (c *Camera) Read(m *gocv.Mat) bool {
	return c.capture.Read(m)
}

func (c *Camera) Close() error {
	return c.capture.Close()
}

func (c *Camera) Properties() Properties {
	return newProperties(
		c.capture.Get(gocv.VideoCaptureFrameWidth),
		c.capture.Get(gocv.VideoCaptureFrameHeight),
		c.capture.Get(gocv.VideoCaptureFPS),
	)
}

func newProperties(width, height, fps float64) Properties {
	if fps <= 0 {
		fps = 20.0 // fallback
	}
	return Properties{
		Width:  int(width),
		Height: int(height),
		FPS:    fps,
	}
}
