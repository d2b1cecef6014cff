package camview

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/sirupsen/logrus"
)

// Window owns the GLFW window and its OpenGL context. All methods must be
// called from the thread that created it.
type Window struct {
	win *glfw.Window
	log *logrus.Entry
}

// NewWindow initialises GLFW, opens a window with an OpenGL 3.3 core context
// and loads the GL function pointers.
func NewWindow(cfg WindowConfig, log *logrus.Entry) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	if runtime.GOOS == "darwin" {
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl: %w", err)
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	// the framebuffer can be larger than the window on retina displays
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})
	fbw, fbh := win.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))

	log.Infof("vendor: %s", gl.GoStr(gl.GetString(gl.VENDOR)))
	log.Infof("renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))
	log.Infof("driver: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	return &Window{win: win, log: log}, nil
}

// ProcessInput polls the keys the viewer reacts to.
func (w *Window) ProcessInput() {
	if w.win.GetKey(glfw.KeyEscape) == glfw.Press {
		w.win.SetShouldClose(true)
	}
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) RequestClose() {
	w.win.SetShouldClose(true)
}

// SwapAndPoll presents the back buffer and processes pending window events.
func (w *Window) SwapAndPoll() {
	w.win.SwapBuffers()
	glfw.PollEvents()
}

// Destroy closes the window and terminates GLFW.
func (w *Window) Destroy() {
	w.win.Destroy()
	glfw.Terminate()
}
