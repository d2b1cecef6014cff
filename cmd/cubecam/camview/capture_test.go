package camview

import (
	"errors"
	"testing"
)

func TestNewProperties(t *testing.T) {
	props := newProperties(640, 480, 30)
	if props.Width != 640 || props.Height != 480 || props.FPS != 30 {
		t.Errorf("Expected 640x480 @ 30, got %+v", props)
	}
}

func TestNewPropertiesFPSFallback(t *testing.T) {
	for _, fps := range []float64{0, -1} {
		props := newProperties(1280, 720, fps)
		if props.FPS != 20 {
			t.Errorf("Expected fallback fps 20 for %v, got %v", fps, props.FPS)
		}
	}
}

func TestOpenCameraUnavailable(t *testing.T) {
	camera, err := OpenCamera(CameraConfig{Device: 9999, MaxReadFailures: 1})
	if !errors.Is(err, ErrCameraUnavailable) {
		t.Errorf("Expected ErrCameraUnavailable, got %v", err)
	}
	if camera != nil {
		camera.Close()
		t.Errorf("Expected no camera for a missing device")
	}
}
