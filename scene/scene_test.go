package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendering-engine/core"
	"rendering-engine/internal/gfx/gfxtest"
)

func vecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-4), "want %v, got %v", want, got)
}

func TestUnitCubeBox(t *testing.T) {
	cube := CreateCube(1)
	vecNear(t, mgl32.Vec3{-0.5, -0.5, -0.5}, cube.Box.Min)
	vecNear(t, mgl32.Vec3{0.5, 0.5, 0.5}, cube.Box.Max)
	assert.Len(t, cube.Indices, 36)
}

func TestSceneBoxNeverShrinks(t *testing.T) {
	s := New()
	assert.False(t, s.Box.Valid())

	big := CreateCube(4)
	s.Add(big)
	before := s.Box

	small := CreateCube(1)
	small.Transform.Position = mgl32.Vec3{0.5, 0, 0}
	s.Add(small)

	vecNear(t, before.Min, s.Box.Min)
	vecNear(t, before.Max, s.Box.Max)

	far := CreateCube(1)
	far.Transform.Position = mgl32.Vec3{10, 0, 0}
	s.Add(far)
	vecNear(t, before.Min, s.Box.Min)
	assert.InDelta(t, 10.5, s.Box.Max.X(), 1e-4)
	assert.Len(t, s.Meshes, 3)
}

func TestUpdateDirectionalLight(t *testing.T) {
	s := New()
	s.Add(CreateCube(2))
	l := NewDirectionalLight(mgl32.Vec3{0, 1, 0}, core.ColorWhite, 1)
	s.AddDirectionalLight(l)

	s.UpdateDirectionalLight()

	vecNear(t, mgl32.Vec3{1.5, 1.5, 1.5}, l.Position)
	vecNear(t, mgl32.Vec3{1, 1, 1}.Normalize(), l.Direction)
	assert.Same(t, l, s.DirectionalLight())
}

func TestDirectionalLightMissing(t *testing.T) {
	assert.Nil(t, New().DirectionalLight())
}

func TestBoxTransform(t *testing.T) {
	b := BoundingBox{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	moved := b.Transform(mgl32.Translate3D(2, 0, 0).Mul4(mgl32.Scale3D(2, 1, 1)))
	vecNear(t, mgl32.Vec3{0, -1, -1}, moved.Min)
	vecNear(t, mgl32.Vec3{4, 1, 1}, moved.Max)
}

func TestMaterialKinds(t *testing.T) {
	tests := []struct {
		m    Material
		want MaterialKind
	}{
		{&PointMaterial{}, MaterialPoint},
		{&LineMaterial{}, MaterialLine},
		{DefaultPhongMaterial(), MaterialPhong},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.m.Kind())
	}
	assert.Equal(t, float32(32), AsPhong(&LineMaterial{}).Shininess)
}

func TestTextureKindNames(t *testing.T) {
	assert.Equal(t, "texture_diffuse", TextureDiffuse.String())
	assert.Equal(t, "texture_specular", TextureSpecular.String())
	assert.Equal(t, "texture_normal", TextureNormal.String())
	assert.Equal(t, "texture_height", TextureHeight.String())
}

func TestMeshReleaseTwice(t *testing.T) {
	dev := gfxtest.NewDevice()
	m := CreateCube(1)
	m.Textures = append(m.Textures, NewSolidTexture("white", TextureDiffuse, 255, 255, 255, 255))

	require.NoError(t, m.Upload(dev))
	assert.True(t, m.Uploaded())
	assert.Len(t, dev.VertexArrays, 1)
	assert.Len(t, dev.Textures, 1)

	m.Release(dev)
	m.Release(dev)
	assert.Empty(t, dev.VertexArrays)
	assert.Empty(t, dev.Textures)
	assert.Empty(t, dev.Failures)
	assert.Zero(t, m.VertexArray)
}

func TestCameraView(t *testing.T) {
	cam := NewPerspectiveCamera(mgl32.DegToRad(45), 16.0/9.0, 0.1, 100)
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.True(t, want.ApproxEqualThreshold(cam.View(), 1e-4))

	cam.SetAspect(800, 800)
	p, ok := cam.Perspective()
	require.True(t, ok)
	assert.InDelta(t, 1.0, p.Aspect, 1e-6)
}

func TestOrthographicCameraHasNoPerspective(t *testing.T) {
	cam := NewOrthographicCamera(-5, 5, -5, 5, 0.1, 50)
	_, ok := cam.Perspective()
	assert.False(t, ok)
	cam.SetAspect(200, 100)
	o := cam.Projection.(Orthographic)
	assert.InDelta(t, 2.5, o.Top, 1e-6)
	assert.InDelta(t, -2.5, o.Bottom, 1e-6)
}

