package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialKind tags the closed set of material variants.
type MaterialKind int

const (
	MaterialPoint MaterialKind = iota
	MaterialLine
	MaterialPhong
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialPoint:
		return "point"
	case MaterialLine:
		return "line"
	case MaterialPhong:
		return "phong"
	default:
		return "unknown"
	}
}

// Material describes surface appearance. Implementations are PointMaterial,
// LineMaterial and PhongMaterial.
type Material interface {
	Kind() MaterialKind
}

type PointMaterial struct {
	Color mgl32.Vec3
	Size  float32
}

func (*PointMaterial) Kind() MaterialKind { return MaterialPoint }

type LineMaterial struct {
	Color mgl32.Vec3
	Width float32
}

func (*LineMaterial) Kind() MaterialKind { return MaterialLine }

type PhongMaterial struct {
	Name      string
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
}

func (*PhongMaterial) Kind() MaterialKind { return MaterialPhong }

func DefaultPhongMaterial() *PhongMaterial {
	return &PhongMaterial{
		Ambient:   mgl32.Vec3{0.05, 0.05, 0.05},
		Diffuse:   mgl32.Vec3{1, 0.5, 0.31},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		Shininess: 32,
	}
}

// AsPhong returns m when it is a Phong material, otherwise the default one.
// Point and line materials have no lit representation.
func AsPhong(m Material) *PhongMaterial {
	if p, ok := m.(*PhongMaterial); ok && p != nil {
		return p
	}
	return DefaultPhongMaterial()
}
