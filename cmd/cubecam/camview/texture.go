package camview

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"gocv.io/x/gocv"
)

// Texture is a 2D texture that camera frames are copied into.
type Texture struct {
	id uint32

	// size and format of the storage currently allocated on the GPU
	width  int32
	height int32
	format uint32
}

func NewTexture() *Texture {
	tex := &Texture{}
	gl.GenTextures(1, &tex.id)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return tex
}

// pixelFormat maps an 8-bit OpenCV channel count to the GL upload format.
func pixelFormat(channels int) (uint32, error) {
	switch channels {
	case 3:
		return gl.BGR, nil
	case 4:
		return gl.BGRA, nil
	}
	return 0, fmt.Errorf("texture: unsupported channel count %d", channels)
}

// needsRealloc is true when the texture storage can't be reused for a frame
// of the given size and format.
func (tex *Texture) needsRealloc(width, height int32, format uint32) bool {
	return tex.width != width || tex.height != height || tex.format != format
}

// Upload copies the frame into the texture, reallocating GPU storage only
// when the frame size or format changed.
func (tex *Texture) Upload(frame gocv.Mat) error {
	if frame.Empty() {
		return ErrNoFrame
	}
	if frame.Type() != gocv.MatTypeCV8UC3 && frame.Type() != gocv.MatTypeCV8UC4 {
		return fmt.Errorf("texture: unsupported mat type %v", frame.Type())
	}
	format, err := pixelFormat(frame.Channels())
	if err != nil {
		return err
	}

	if !frame.IsContinuous() {
		frame = frame.Clone()
		defer frame.Close()
	}
	data, err := frame.DataPtrUint8()
	if err != nil {
		return fmt.Errorf("texture: %w", err)
	}

	width := int32(frame.Cols())
	height := int32(frame.Rows())

	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	// rows of 3-channel frames are not 4 byte aligned in general
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	if tex.needsRealloc(width, height, format) {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB, width, height, 0, format, gl.UNSIGNED_BYTE, gl.Ptr(data))
		tex.width, tex.height, tex.format = width, height, format
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, width, height, format, gl.UNSIGNED_BYTE, gl.Ptr(data))
	}
	return nil
}

func (tex *Texture) Bind() {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
}

func (tex *Texture) Destroy() {
	if tex.id != 0 {
		gl.DeleteTextures(1, &tex.id)
		tex.id = 0
	}
}
