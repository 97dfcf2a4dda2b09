package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places an object in world space.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns T·R·S.
func (t Transform) Matrix() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	sc := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return tr.Mul4(t.rotation().Mat4()).Mul4(sc)
}

// A zero quaternion (from a zero-value Transform) is read as identity.
func (t Transform) rotation() mgl32.Quat {
	if t.Rotation.Len() == 0 {
		return mgl32.QuatIdent()
	}
	return t.Rotation.Normalize()
}

func (t Transform) Forward() mgl32.Vec3 { return t.rotation().Rotate(mgl32.Vec3{0, 0, -1}) }
func (t Transform) Right() mgl32.Vec3   { return t.rotation().Rotate(mgl32.Vec3{1, 0, 0}) }
func (t Transform) Up() mgl32.Vec3      { return t.rotation().Rotate(mgl32.Vec3{0, 1, 0}) }

// LookAt turns the transform so Forward points from Position at target.
func (t *Transform) LookAt(target, up mgl32.Vec3) {
	if target.Sub(t.Position).Len() == 0 {
		return
	}
	view := mgl32.LookAtV(t.Position, target, up)
	t.Rotation = mgl32.Mat4ToQuat(view.Inv()).Normalize()
}
