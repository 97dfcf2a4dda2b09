package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/scene"
)

// cascadeDivisors place the split planes at far/50, far/25, far/10 and far/2.
var cascadeDivisors = [...]float32{50, 25, 10, 2}

// CascadeCount is the number of depth layers: one per interval between
// near, the split planes and far.
const CascadeCount = len(cascadeDivisors) + 1

// zMult pushes the light-space depth range outward so casters outside the
// camera frustum still land in the map.
const zMult = 10

// CascadeSplits returns the split plane distances for a camera far plane.
func CascadeSplits(far float32) []float32 {
	splits := make([]float32, len(cascadeDivisors))
	for i, d := range cascadeDivisors {
		splits[i] = far / d
	}
	return splits
}

// cascadeRanges returns the near/far pair of every cascade.
func cascadeRanges(near, far float32) [][2]float32 {
	splits := CascadeSplits(far)
	ranges := make([][2]float32, 0, CascadeCount)
	prev := near
	for _, s := range splits {
		ranges = append(ranges, [2]float32{prev, s})
		prev = s
	}
	return append(ranges, [2]float32{prev, far})
}

// FrustumCorners returns the eight world-space corners of the frustum of
// proj·view, ordered x-major then y then z over {-1, 1}.
func FrustumCorners(proj, view mgl32.Mat4) [8]mgl32.Vec3 {
	inv := proj.Mul4(view).Inv()
	var corners [8]mgl32.Vec3
	i := 0
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				ndc := mgl32.Vec4{2*float32(x) - 1, 2*float32(y) - 1, 2*float32(z) - 1, 1}
				p := inv.Mul4x1(ndc)
				corners[i] = p.Vec3().Mul(1 / p.W())
				i++
			}
		}
	}
	return corners
}

// fitLightBounds returns the tight box of corners in lightView space with
// the depth range widened by zMult.
func fitLightBounds(corners [8]mgl32.Vec3, lightView mgl32.Mat4) scene.BoundingBox {
	var ls [8]mgl32.Vec3
	for i, c := range corners {
		ls[i] = mgl32.TransformCoordinate(c, lightView)
	}
	b := scene.BoxOf(ls[:])
	if b.Min[2] < 0 {
		b.Min[2] *= zMult
	} else {
		b.Min[2] /= zMult
	}
	if b.Max[2] < 0 {
		b.Max[2] /= zMult
	} else {
		b.Max[2] *= zMult
	}
	return b
}

// cascadeLightSpace builds the light view-projection covering the camera
// sub-frustum [near, far].
func cascadeLightSpace(fovY, aspect, near, far float32, view mgl32.Mat4, dir mgl32.Vec3) mgl32.Mat4 {
	proj := mgl32.Perspective(fovY, aspect, near, far)
	corners := FrustumCorners(proj, view)

	var center mgl32.Vec3
	for _, c := range corners {
		center = center.Add(c)
	}
	center = center.Mul(1.0 / float32(len(corners)))

	lightView := mgl32.LookAtV(center.Add(dir), center, lightUp(dir))
	b := fitLightBounds(corners, lightView)
	lightProj := mgl32.Ortho(b.Min.X(), b.Max.X(), b.Min.Y(), b.Max.Y(), b.Min.Z(), b.Max.Z())
	return lightProj.Mul4(lightView)
}

// LightSpaceMatrices returns one light view-projection per cascade.
func LightSpaceMatrices(fovY, aspect, near, far float32, view mgl32.Mat4, dir mgl32.Vec3) []mgl32.Mat4 {
	ranges := cascadeRanges(near, far)
	out := make([]mgl32.Mat4, len(ranges))
	for i, r := range ranges {
		out[i] = cascadeLightSpace(fovY, aspect, r[0], r[1], view, dir)
	}
	return out
}
