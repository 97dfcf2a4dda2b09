package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"rendering-engine/internal/gfx"
)

// vertexBuffers are the buffer objects owned by one vertex array.
type vertexBuffers struct {
	VBO uint32
	EBO uint32
}

func (d *Device) NewVertexArray(vertices []float32, layout []int32, indices []uint32) (gfx.VertexArray, error) {
	var stride int32
	for _, n := range layout {
		stride += n
	}
	if stride == 0 || len(vertices) == 0 || len(vertices)%int(stride) != 0 {
		return 0, fmt.Errorf("vertex data (%d floats) does not match layout stride %d", len(vertices), stride)
	}

	var vao uint32
	var bufs vertexBuffers
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &bufs.VBO)
	gl.BindVertexArray(vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, bufs.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	offset := 0
	for loc, n := range layout {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointer(uint32(loc), n, gl.FLOAT, false, stride*4, gl.PtrOffset(offset))
		offset += int(n) * 4
	}

	if len(indices) > 0 {
		gl.GenBuffers(1, &bufs.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, bufs.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	va := gfx.VertexArray(vao)
	d.buffers[va] = bufs
	return va, nil
}

func (d *Device) DeleteVertexArray(va gfx.VertexArray) {
	if va == 0 {
		return
	}
	bufs := d.buffers[va]
	if bufs.VBO != 0 {
		gl.DeleteBuffers(1, &bufs.VBO)
	}
	if bufs.EBO != 0 {
		gl.DeleteBuffers(1, &bufs.EBO)
	}
	vao := uint32(va)
	gl.DeleteVertexArrays(1, &vao)
	delete(d.buffers, va)
}

func (d *Device) DrawElements(va gfx.VertexArray, mode gfx.Primitive, count int32) {
	gl.BindVertexArray(uint32(va))
	gl.DrawElements(primitive(mode), count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (d *Device) DrawArrays(va gfx.VertexArray, mode gfx.Primitive, first, count int32) {
	gl.BindVertexArray(uint32(va))
	gl.DrawArrays(primitive(mode), first, count)
	gl.BindVertexArray(0)
}

func primitive(mode gfx.Primitive) uint32 {
	switch mode {
	case gfx.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case gfx.Lines:
		return gl.LINES
	case gfx.Points:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}
