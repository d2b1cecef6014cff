package camview

import (
	"context"
	"errors"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/sirupsen/logrus"
)

// Viewer shows camera frames full-screen in an OpenGL window.
type Viewer struct {
	cfg Config
	log *logrus.Entry

	win      *Window
	camera   *Camera
	filter   *Filter
	pipeline *Pipeline
	texture  *Texture
	quad     *Quad
	program  *Program
	watcher  *ShaderWatcher

	// build compiles the configured shaders into a program
	build func() (*Program, error)
}

func NewViewer(cfg Config, log *logrus.Entry) (*Viewer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v := &Viewer{cfg: cfg, log: log}
	v.build = v.buildProgram
	return v, nil
}

// Run opens the window and camera and renders until the window is closed or
// ctx is cancelled. It must be called from the main OS thread.
func (v *Viewer) Run(ctx context.Context) error {
	defer v.close()

	if err := v.setup(); err != nil {
		return err
	}

	v.log.WithFields(logrus.Fields{
		"device": v.cfg.Camera.Device,
		"mode":   v.filter.Mode(),
	}).Info("render loop started")

	frames := 0
	for !v.win.ShouldClose() {
		select {
		case <-ctx.Done():
			v.win.RequestClose()
			continue
		default:
		}

		v.win.ProcessInput()
		v.reloadShaders()

		frame, err := v.pipeline.Next()
		switch {
		case err == nil:
			if err := v.texture.Upload(frame); err != nil {
				return err
			}
			frames++
		case errors.Is(err, ErrNoFrame):
			// keep showing the last uploaded frame
		default:
			return err
		}

		v.render()
		v.win.SwapAndPoll()
	}

	v.log.Infof("render loop ended after %d frames", frames)
	return nil
}

func (v *Viewer) setup() error {
	mode, err := ParseMode(v.cfg.Filter.Mode)
	if err != nil {
		return err
	}

	v.win, err = NewWindow(v.cfg.Window, v.log.WithField("component", "window"))
	if err != nil {
		return err
	}

	v.camera, err = OpenCamera(v.cfg.Camera)
	if err != nil {
		return err
	}
	props := v.camera.Properties()
	v.log.WithFields(logrus.Fields{
		"width":  props.Width,
		"height": props.Height,
		"fps":    props.FPS,
	}).Info("camera opened")

	v.filter = NewFilter(mode, v.cfg.Filter.Kernel)
	v.pipeline = NewPipeline(v.camera, v.filter, v.cfg.Camera.MaxReadFailures)
	v.texture = NewTexture()
	v.quad = NewQuad()

	v.program, err = v.build()
	if err != nil {
		return err
	}

	if v.cfg.Watch {
		if v.cfg.Shaders.Vertex == "" && v.cfg.Shaders.Fragment == "" {
			v.log.Warn("watch requested but built-in shaders are in use, nothing to watch")
		} else {
			v.watcher, err = NewShaderWatcher(v.log.WithField("component", "watch"), v.cfg.Shaders.Vertex, v.cfg.Shaders.Fragment)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *Viewer) buildProgram() (*Program, error) {
	vert, err := LoadShaderSource(v.cfg.Shaders.Vertex, builtinVertex)
	if err != nil {
		return nil, err
	}
	frag, err := LoadShaderSource(v.cfg.Shaders.Fragment, builtinFragment)
	if err != nil {
		return nil, err
	}
	return NewProgram(vert, frag)
}

// reloadShaders rebuilds the program if the watcher saw an edit.
func (v *Viewer) reloadShaders() {
	if v.watcher == nil {
		return
	}
	select {
	case <-v.watcher.Changed():
	default:
		return
	}

	v.swapProgram()
}

// swapProgram replaces the current program with a freshly built one. A
// program that fails to build leaves the current one in place.
func (v *Viewer) swapProgram() {
	program, err := v.build()
	if err != nil {
		v.log.Errorf("shader reload: %v", err)
		return
	}
	v.program.Destroy()
	v.program = program
	v.log.Info("shaders reloaded")
}

func (v *Viewer) render() {
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	v.program.Use()
	v.texture.Bind()
	v.quad.Draw()
}

// close releases everything setup managed to create, in reverse order.
func (v *Viewer) close() {
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Warnf("watch: %v", err)
		}
	}
	if v.program != nil {
		v.program.Destroy()
	}
	if v.quad != nil {
		v.quad.Destroy()
	}
	if v.texture != nil {
		v.texture.Destroy()
	}
	if v.pipeline != nil {
		logClose(v.log, "pipeline", v.pipeline.Close())
	}
	if v.filter != nil {
		logClose(v.log, "filter", v.filter.Close())
	}
	if v.camera != nil {
		logClose(v.log, "camera", v.camera.Close())
	}
	if v.win != nil {
		v.win.Destroy()
	}
}

func logClose(log *logrus.Entry, what string, err error) {
	if err != nil {
		log.Warnf("closing %s: %v", what, err)
	}
}
