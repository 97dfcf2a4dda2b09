package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/core"
)

// DirectionalLight is the light the pipeline shades and shadows with.
// Direction points from the scene towards the light. Position only places
// the on-screen marker.
type DirectionalLight struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Color     core.Color
	Intensity float32
}

func NewDirectionalLight(direction mgl32.Vec3, color core.Color, intensity float32) *DirectionalLight {
	l := &DirectionalLight{Color: color, Intensity: intensity}
	l.SetDirection(direction)
	l.Position = l.Direction
	return l
}

// SetDirection stores d normalized; a zero vector leaves the light unchanged.
func (l *DirectionalLight) SetDirection(d mgl32.Vec3) {
	if d.Len() == 0 {
		return
	}
	l.Direction = d.Normalize()
}

// PointLight and SpotLight are kept on the scene but not shaded yet.
type PointLight struct {
	Position                    mgl32.Vec3
	Ambient, Diffuse, Specular  mgl32.Vec3
	Constant, Linear, Quadratic float32
}

type SpotLight struct {
	Position                    mgl32.Vec3
	Direction                   mgl32.Vec3
	Ambient, Diffuse, Specular  mgl32.Vec3
	Angle                       float32 // radians
	Constant, Linear, Quadratic float32
}
