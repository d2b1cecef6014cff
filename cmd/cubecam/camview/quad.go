package camview

import (
	"github.com/go-gl/gl/v3.3-core/gl"
)

const (
	floatSize    = 4
	vertexStride = 4 * floatSize
)

// quadVertices covers the whole viewport. Texture coordinates are flipped
// vertically since camera frames are stored top row first.
var quadVertices = []float32{
	// position   // uv
	-1.0, 1.0, 0.0, 0.0, // top left
	1.0, 1.0, 1.0, 0.0, // top right
	1.0, -1.0, 1.0, 1.0, // bottom right
	-1.0, -1.0, 0.0, 1.0, // bottom left
}

var quadIndices = []uint32{
	0, 1, 2, // top triangle
	0, 2, 3, // bottom triangle
}

// Quad holds the vertex array, vertex buffer and element buffer of the
// full-screen quad.
type Quad struct {
	vao uint32
	vbo uint32
	ebo uint32
}

func NewQuad() *Quad {
	q := &Quad{}

	gl.GenVertexArrays(1, &q.vao)
	gl.BindVertexArray(q.vao)

	gl.GenBuffers(1, &q.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*floatSize, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &q.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, q.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(quadIndices)*4, gl.Ptr(quadIndices), gl.STATIC_DRAW)

	// position
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)
	// uv
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, vertexStride, 2*floatSize)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return q
}

func (q *Quad) Draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawElements(gl.TRIANGLES, int32(len(quadIndices)), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (q *Quad) Destroy() {
	if q.ebo != 0 {
		gl.DeleteBuffers(1, &q.ebo)
		q.ebo = 0
	}
	if q.vbo != 0 {
		gl.DeleteBuffers(1, &q.vbo)
		q.vbo = 0
	}
	if q.vao != 0 {
		gl.DeleteVertexArrays(1, &q.vao)
		q.vao = 0
	}
}
