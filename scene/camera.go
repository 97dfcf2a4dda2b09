package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Projection builds the clip-space matrix of a camera.
type Projection interface {
	Matrix(near, far float32) mgl32.Mat4
}

// Perspective is a symmetric frustum. FovY is in radians.
type Perspective struct {
	FovY   float32
	Aspect float32
}

func (p Perspective) Matrix(near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(p.FovY, p.Aspect, near, far)
}

// Orthographic is a parallel projection box in view space.
type Orthographic struct {
	Left, Right, Bottom, Top float32
}

func (o Orthographic) Matrix(near, far float32) mgl32.Mat4 {
	return mgl32.Ortho(o.Left, o.Right, o.Bottom, o.Top, near, far)
}

// Camera is the single viewpoint of a session.
type Camera struct {
	Transform
	Near, Far  float32
	Projection Projection
}

func NewPerspectiveCamera(fovY, aspect, near, far float32) *Camera {
	return &Camera{
		Transform:  NewTransform(),
		Near:       near,
		Far:        far,
		Projection: Perspective{FovY: fovY, Aspect: aspect},
	}
}

func NewOrthographicCamera(left, right, bottom, top, near, far float32) *Camera {
	return &Camera{
		Transform:  NewTransform(),
		Near:       near,
		Far:        far,
		Projection: Orthographic{Left: left, Right: right, Bottom: bottom, Top: top},
	}
}

// View is the inverse of the camera's rigid transform; scale is ignored.
func (c *Camera) View() mgl32.Mat4 {
	p := c.Position
	inv := c.rotation().Inverse().Mat4()
	return inv.Mul4(mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.Projection == nil {
		return mgl32.Ident4()
	}
	return c.Projection.Matrix(c.Near, c.Far)
}

// Perspective returns the perspective parameters when the camera has them.
func (c *Camera) Perspective() (Perspective, bool) {
	p, ok := c.Projection.(Perspective)
	return p, ok
}

// SetAspect updates a perspective camera for a new viewport. Orthographic
// cameras keep their horizontal extent and rescale the vertical one.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	aspect := float32(width) / float32(height)
	switch p := c.Projection.(type) {
	case Perspective:
		p.Aspect = aspect
		c.Projection = p
	case Orthographic:
		half := (p.Right - p.Left) / 2 / aspect
		mid := (p.Top + p.Bottom) / 2
		p.Bottom, p.Top = mid-half, mid+half
		c.Projection = p
	}
}
