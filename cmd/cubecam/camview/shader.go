package camview

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

//go:embed glsl/background.vert glsl/background.frag
var builtinShaders embed.FS

const (
	builtinVertex   = "glsl/background.vert"
	builtinFragment = "glsl/background.frag"
)

// LoadShaderSource returns NUL-terminated GLSL source, read from path or, if
// path is empty, from the named built-in shader.
func LoadShaderSource(path, builtin string) (string, error) {
	var buff []byte
	var err error
	if path == "" {
		buff, err = builtinShaders.ReadFile(builtin)
	} else {
		buff, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("shader: failed to open file: %w", err)
	}
	src := string(buff)
	if !strings.HasSuffix(src, "\x00") {
		src += "\x00"
	}
	return src, nil
}

// Program is a linked vertex/fragment shader pair sampling texture unit 0.
type Program struct {
	handle  uint32
	sampler int32
}

// NewProgram compiles and links the two shaders. Shader objects are deleted
// once the program is linked, or on any failure.
func NewProgram(vertSrc, fragSrc string) (*Program, error) {
	vertHandle, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex %w", err)
	}
	defer gl.DeleteShader(vertHandle)

	fragHandle, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment %w", err)
	}
	defer gl.DeleteShader(fragHandle)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vertHandle)
	gl.AttachShader(handle, fragHandle)
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(log))
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("shader program linking failed: %s", strings.TrimRight(log, "\x00"))
	}

	gl.DetachShader(handle, vertHandle)
	gl.DetachShader(handle, fragHandle)

	p := &Program{
		handle:  handle,
		sampler: gl.GetUniformLocation(handle, gl.Str("textureSampler\x00")),
	}
	p.Use()
	gl.Uniform1i(p.sampler, 0)
	return p, nil
}

func compileShader(src string, kind uint32) (uint32, error) {
	handle := gl.CreateShader(kind)

	csource, free := gl.Strs(src)
	gl.ShaderSource(handle, 1, csource, nil)
	free()

	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		// logLength includes the NUL character
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(log))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("shader: compile failure: %s", strings.TrimRight(log, "\x00"))
	}
	return handle, nil
}

func (p *Program) Use() {
	gl.UseProgram(p.handle)
}

func (p *Program) Destroy() {
	if p.handle != 0 {
		gl.DeleteProgram(p.handle)
		p.handle = 0
	}
}
