// Package gfx is the seam between the render pipeline and the graphics API.
//
// The pipeline only ever talks to a Device; internal/opengl provides the real
// implementation and gfxtest a recording one. Handles are plain integers where
// zero always means "no object", so owners can zero-check before releasing.
package gfx

import (
	"github.com/go-gl/mathgl/mgl32"
)

type (
	Program     uint32
	VertexArray uint32
	Texture     uint32
	Framebuffer uint32
)

// DefaultFramebuffer is the window's own framebuffer.
const DefaultFramebuffer Framebuffer = 0

type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
	Lines
	Points
)

type PolygonMode int

const (
	Fill PolygonMode = iota
	Line
)

type Face int

const (
	BackFace Face = iota
	FrontFace
)

type TextureTarget int

const (
	Texture2D TextureTarget = iota
	Texture2DArray
)

// TargetFormat is the storage format of an offscreen color target.
type TargetFormat int

const (
	RGBA8 TargetFormat = iota
	RGBA16F
)

// Rect is a pixel rectangle with its origin at the bottom-left corner.
type Rect struct {
	X, Y, Width, Height int32
}

// Area returns the pixel count covered by r.
func (r Rect) Area() int64 {
	return int64(r.Width) * int64(r.Height)
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// ProgramSource holds GLSL stages; Geometry may be empty.
type ProgramSource struct {
	Vertex   string
	Geometry string
	Fragment string
}

// Device is the set of graphics capabilities the pipeline invokes.
//
// Creation calls return an error only for failures the API reports
// synchronously (compile/link logs, incomplete framebuffers). Everything else
// surfaces through Errors, which drains the queued API errors.
type Device interface {
	NewProgram(name string, src ProgramSource) (Program, error)
	DeleteProgram(p Program)
	UseProgram(p Program)
	SetInt(p Program, name string, v int32)
	SetBool(p Program, name string, v bool)
	SetFloat(p Program, name string, v float32)
	SetVec3(p Program, name string, v mgl32.Vec3)
	SetMat4(p Program, name string, m mgl32.Mat4)

	// NewVertexArray uploads interleaved float vertices; layout gives the
	// component count per attribute location. indices may be nil.
	NewVertexArray(vertices []float32, layout []int32, indices []uint32) (VertexArray, error)
	DeleteVertexArray(va VertexArray)
	DrawElements(va VertexArray, mode Primitive, count int32)
	DrawArrays(va VertexArray, mode Primitive, first, count int32)

	NewTexture2D(width, height int32, rgba []byte) (Texture, error)
	NewDepthTexture(width, height int32) (Texture, error)
	NewDepthTextureArray(width, height, layers int32) (Texture, error)
	NewColorTarget(width, height int32, format TargetFormat) (Texture, error)
	DeleteTexture(t Texture)
	BindTexture(unit int32, target TextureTarget, t Texture)

	// Attach calls leave fb bound. A negative layer attaches a plain 2D depth
	// texture; otherwise the given layer of a depth texture array.
	NewFramebuffer() Framebuffer
	AttachDepth(fb Framebuffer, t Texture, layer int32)
	AttachColor(fb Framebuffer, index int, t Texture)
	// DrawBuffers enables color outputs 0..count-1; zero disables color output.
	DrawBuffers(fb Framebuffer, count int)
	CheckFramebuffer(fb Framebuffer) error
	DeleteFramebuffer(fb Framebuffer)
	BindFramebuffer(fb Framebuffer)

	Viewport(r Rect)
	SetClearColor(r, g, b, a float32)
	Clear(color, depth bool)
	SetPolygonMode(m PolygonMode)
	SetCullFace(f Face)
	SetPointSize(size float32)

	// Errors drains pending API errors; nil when there are none.
	Errors() []error
}
