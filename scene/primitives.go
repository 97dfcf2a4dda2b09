package scene

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/core"
)

// cubeFaces lists normal, u axis and v axis for each face.
var cubeFaces = [6][3]mgl32.Vec3{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
}

// CreateCube builds a cube of edge size centered at the origin, four
// vertices per face so normals stay flat.
func CreateCube(size float32) *Mesh {
	s := size / 2
	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	corners := [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := uint32(len(vertices))
		for _, c := range corners {
			p := n.Add(u.Mul(c.X())).Add(v.Mul(c.Y())).Mul(s)
			vertices = append(vertices, core.Vertex{
				Position:  p,
				Normal:    n,
				UV:        mgl32.Vec2{(c.X() + 1) / 2, (c.Y() + 1) / 2},
				Tangent:   u,
				Bitangent: v,
			})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return NewMesh("Cube", vertices, indices)
}

// CreateSphere builds a UV sphere.
func CreateSphere(radius float32, segments, rings int) *Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)

	var vertices []core.Vertex
	var indices []uint32
	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)
		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinT, cosT := math32.Sincos(theta)
			n := mgl32.Vec3{sinPhi * cosT, cosPhi, sinPhi * sinT}
			vertices = append(vertices, core.Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				UV:       mgl32.Vec2{float32(seg) / float32(segments), 1 - float32(ring)/float32(rings)},
			})
		}
	}
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			cur := uint32(ring*(segments+1) + seg)
			next := cur + uint32(segments+1)
			indices = append(indices, cur, cur+1, next, cur+1, next+1, next)
		}
	}
	m := NewMesh("Sphere", vertices, indices)
	ComputeTangents(m)
	return m
}

// CreatePlane builds a subdivided plane on XZ facing +Y.
func CreatePlane(width, depth float32, subdivisions int) *Mesh {
	subdivisions = max(subdivisions, 1)
	step := subdivisions + 1

	var vertices []core.Vertex
	var indices []uint32
	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			vertices = append(vertices, core.Vertex{
				Position:  mgl32.Vec3{(u - 0.5) * width, 0, (v - 0.5) * depth},
				Normal:    mgl32.Vec3{0, 1, 0},
				UV:        mgl32.Vec2{u, 1 - v},
				Tangent:   mgl32.Vec3{1, 0, 0},
				Bitangent: mgl32.Vec3{0, 0, -1},
			})
		}
	}
	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			i := uint32(z*step + x)
			indices = append(indices, i, i+uint32(step), i+1, i+1, i+uint32(step), i+uint32(step)+1)
		}
	}
	return NewMesh("Plane", vertices, indices)
}

// BuiltinPrefix marks model paths that name a generated primitive.
const BuiltinPrefix = "builtin:"

// CreateBuiltin returns the primitive named by a "builtin:<name>" path.
func CreateBuiltin(path string) (*Mesh, error) {
	switch name := strings.TrimPrefix(path, BuiltinPrefix); name {
	case "cube":
		return CreateCube(1), nil
	case "sphere":
		return CreateSphere(0.5, 32, 16), nil
	case "plane":
		return CreatePlane(10, 10, 1), nil
	default:
		return nil, fmt.Errorf("unknown builtin mesh %q", name)
	}
}
