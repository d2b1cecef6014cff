package camview

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gocv.io/x/gocv"
)

// Probe prints what OpenCV reports about the camera, then shows raw frames in
// a HighGUI window until a key is pressed or ctx is cancelled. It needs no
// OpenGL, which helps to tell camera problems apart from GL ones.
func Probe(ctx context.Context, cfg CameraConfig, out io.Writer) error {
	fmt.Fprintln(out, "GoCV version:", gocv.Version())
	fmt.Fprintln(out, "OpenCV lib version:", gocv.OpenCVVersion())

	camera, err := OpenCamera(cfg)
	if err != nil {
		return err
	}
	defer camera.Close()

	props := camera.Properties()
	fmt.Fprintf(out, "device %d: %dx%d @ %.1f fps\n", cfg.Device, props.Width, props.Height, props.FPS)

	filter := NewFilter(ModeNone, 1)
	defer filter.Close()
	pipeline := NewPipeline(camera, filter, cfg.MaxReadFailures)
	defer pipeline.Close()

	window := gocv.NewWindow(fmt.Sprintf("cubecam probe: device %d", cfg.Device))
	defer window.Close()

	return showFrames(ctx, pipeline, func(img gocv.Mat) (bool, error) {
		if err := window.IMShow(img); err != nil {
			return true, fmt.Errorf("probe: %w", err)
		}
		return window.WaitKey(1) >= 0, nil
	})
}

// showFrames hands every frame the pipeline produces to show until show asks
// to stop, ctx is cancelled or the camera is lost. Missing frames are
// skipped, as the viewer does while a camera warms up.
func showFrames(ctx context.Context, p *Pipeline, show func(gocv.Mat) (bool, error)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := p.Next()
		switch {
		case err == nil:
			stop, err := show(frame)
			if err != nil || stop {
				return err
			}
		case errors.Is(err, ErrNoFrame):
			continue
		default:
			return err
		}
	}
}
