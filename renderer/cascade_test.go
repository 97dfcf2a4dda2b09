package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeSplits(t *testing.T) {
	assert.Equal(t, []float32{2, 4, 10, 50}, CascadeSplits(100))
	assert.Equal(t, 5, CascadeCount)

	ranges := cascadeRanges(0.1, 100)
	require.Len(t, ranges, CascadeCount)
	assert.Equal(t, [2]float32{0.1, 2}, ranges[0])
	assert.Equal(t, [2]float32{50, 100}, ranges[4])
	for i := 1; i < len(ranges); i++ {
		assert.Equal(t, ranges[i-1][1], ranges[i][0], "ranges must be contiguous")
	}
}

func TestFrustumCornersRoundTrip(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(45), 16.0/9.0, 0.5, 20)
	view := mgl32.LookAtV(mgl32.Vec3{3, 2, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	vp := proj.Mul4(view)

	corners := FrustumCorners(proj, view)
	i := 0
	for x := -1; x <= 1; x += 2 {
		for y := -1; y <= 1; y += 2 {
			for z := -1; z <= 1; z += 2 {
				ndc := mgl32.TransformCoordinate(corners[i], vp)
				want := mgl32.Vec3{float32(x), float32(y), float32(z)}
				assert.True(t, want.ApproxEqualThreshold(ndc, 1e-3), "corner %d: want %v got %v", i, want, ndc)
				i++
			}
		}
	}
}

func TestLightBoundsOrdered(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 1, 10)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	corners := FrustumCorners(proj, view)

	dirs := []mgl32.Vec3{{1, 1, 1}, {0, 1, 0.2}, {-1, 0.3, 0}, {0.2, -1, 0.1}}
	for _, d := range dirs {
		d = d.Normalize()
		var center mgl32.Vec3
		for _, c := range corners {
			center = center.Add(c)
		}
		center = center.Mul(1.0 / 8)
		b := fitLightBounds(corners, mgl32.LookAtV(center.Add(d), center, lightUp(d)))
		for k := 0; k < 3; k++ {
			assert.Less(t, b.Min[k], b.Max[k], "axis %d for dir %v", k, d)
		}
	}
}

func TestLightSpaceMatricesCoverCascades(t *testing.T) {
	fovY, aspect := mgl32.DegToRad(45), float32(4.0/3.0)
	near, far := float32(0.1), float32(100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 2, 8}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	dir := mgl32.Vec3{1, 2, 1}.Normalize()

	mats := LightSpaceMatrices(fovY, aspect, near, far, view, dir)
	require.Len(t, mats, CascadeCount)

	for i, r := range cascadeRanges(near, far) {
		corners := FrustumCorners(mgl32.Perspective(fovY, aspect, r[0], r[1]), view)
		for _, c := range corners {
			p := mgl32.TransformCoordinate(c, mats[i])
			assert.InDelta(t, 0, p.X(), 1+1e-3, "cascade %d x", i)
			assert.InDelta(t, 0, p.Y(), 1+1e-3, "cascade %d y", i)
		}
	}
}

func TestLightUpAvoidsParallel(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, lightUp(mgl32.Vec3{0, 5, 0}))
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, lightUp(mgl32.Vec3{1, 1, 0}))
}
