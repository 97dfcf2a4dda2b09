package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BoundingBox is an axis-aligned box. The zero value is not empty; use
// EmptyBox for an accumulator.
type BoundingBox struct {
	Min, Max mgl32.Vec3
}

// EmptyBox returns a box that any Extend or Union replaces.
func EmptyBox() BoundingBox {
	inf := math32.Inf(1)
	return BoundingBox{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Valid reports whether the box contains at least one point.
func (b BoundingBox) Valid() bool {
	return b.Min.X() <= b.Max.X() && b.Min.Y() <= b.Max.Y() && b.Min.Z() <= b.Max.Z()
}

func (b BoundingBox) Extend(p mgl32.Vec3) BoundingBox {
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing b and o. Invalid boxes are ignored.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if !o.Valid() {
		return b
	}
	if !b.Valid() {
		return o
	}
	return b.Extend(o.Min).Extend(o.Max)
}

func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b BoundingBox) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns the box enclosing the eight transformed corners of b.
func (b BoundingBox) Transform(m mgl32.Mat4) BoundingBox {
	if !b.Valid() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{b.Min.X(), b.Min.Y(), b.Min.Z()}
		if i&1 != 0 {
			c[0] = b.Max.X()
		}
		if i&2 != 0 {
			c[1] = b.Max.Y()
		}
		if i&4 != 0 {
			c[2] = b.Max.Z()
		}
		out = out.Extend(mgl32.TransformCoordinate(c, m))
	}
	return out
}

// BoxOf returns the tight box around the given points.
func BoxOf(points []mgl32.Vec3) BoundingBox {
	b := EmptyBox()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}
