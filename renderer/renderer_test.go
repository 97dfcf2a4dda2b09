package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendering-engine/core"
	"rendering-engine/internal/gfx"
	"rendering-engine/internal/gfx/gfxtest"
	"rendering-engine/internal/logx"
	"rendering-engine/scene"
)

func newTestRenderer(t *testing.T) (*gfxtest.Device, *Renderer) {
	t.Helper()
	dev := gfxtest.NewDevice()
	r, err := New(dev, Config{ShadowResolution: 256}, logx.Discard())
	require.NoError(t, err)
	r.Resize(800, 600)
	return dev, r
}

// testScene holds two uploaded cubes, one hidden, and one light.
func testScene(t *testing.T, dev gfx.Device, withLight bool) *scene.Scene {
	t.Helper()
	scn := scene.New()
	shown := scene.CreateCube(1)
	hidden := scene.CreateCube(2)
	hidden.Visible = false
	require.NoError(t, shown.Upload(dev))
	require.NoError(t, hidden.Upload(dev))
	scn.Add(shown, hidden)
	if withLight {
		scn.AddDirectionalLight(scene.NewDirectionalLight(mgl32.Vec3{1, 2, 1}, core.ColorWhite, 1))
	}
	return scn
}

func testCamera() *scene.Camera {
	cam := scene.NewPerspectiveCamera(mgl32.DegToRad(45), 800.0/600.0, 0.1, 100)
	cam.Position = mgl32.Vec3{0, 1, 5}
	return cam
}

func TestNewCompilesEveryProgram(t *testing.T) {
	dev, r := newTestRenderer(t)
	assert.Len(t, dev.Programs, len(programOrder))
	// background plane and screen quad
	assert.Len(t, dev.VertexArrays, 2)

	r.Delete()
	assert.Empty(t, dev.Programs)
	assert.Empty(t, dev.VertexArrays)
	assert.Empty(t, dev.Failures)
}

func TestNewFailsOnProgramError(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.FailPrograms[progCSM] = true

	_, err := New(dev, DefaultConfig(), logx.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program csm")
	assert.Empty(t, dev.Programs)
	assert.Empty(t, dev.VertexArrays)
	assert.Empty(t, dev.Failures)
}

func TestNewFailsOnQueuedGraphicsError(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Pending = []error{errors.New("GL error INVALID_ENUM")}

	_, err := New(dev, DefaultConfig(), logx.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_ENUM")
	assert.Empty(t, dev.Programs)
	assert.Empty(t, dev.VertexArrays)
	assert.Empty(t, dev.Failures)
}

func TestRenderRejectsBadInput(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)

	assert.Error(t, r.Render(nil, scn, DefaultOptions()))
	assert.Error(t, r.Render(testCamera(), nil, DefaultOptions()))

	opts := DefaultOptions()
	opts.RenderType = RenderType(7)
	assert.Error(t, r.Render(testCamera(), scn, opts))
}

func TestForwardWithoutLightDrawsNothing(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, false)
	dev.Reset()

	require.NoError(t, r.Render(testCamera(), scn, DefaultOptions()))
	assert.Empty(t, dev.Draws)
	assert.Zero(t, dev.Created["depth"])
}

func TestPhongWithoutShadow(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)
	dev.Reset()

	opts := DefaultOptions()
	opts.UseShadow = false
	require.NoError(t, r.Render(testCamera(), scn, opts))

	assert.Zero(t, dev.Created["depth"])
	assert.Zero(t, dev.Created["framebuffer"])
	assert.Empty(t, dev.DrawsFor(progDepth))
	// one visible cube plus the background
	assert.Len(t, dev.DrawsFor(progPhong), 2)

	useShadow, ok := dev.Uniform(progPhong, "useShadow")
	require.True(t, ok)
	assert.Equal(t, false, useShadow)
	assert.Empty(t, dev.Failures)
}

func TestPhongShadowFrame(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)
	dev.Reset()

	require.NoError(t, r.Render(testCamera(), scn, DefaultOptions()))

	assert.Equal(t, 1, dev.Created["depth"])
	assert.Equal(t, 1, dev.Created["framebuffer"])
	assert.Zero(t, dev.DepthTextures(), "shadow map must not outlive the frame")
	assert.Empty(t, dev.Framebuffers)

	depth := dev.DrawsFor(progDepth)
	require.Len(t, depth, 2)
	for _, d := range depth {
		assert.NotEqual(t, gfx.DefaultFramebuffer, d.Framebuffer)
	}
	for _, d := range dev.DrawsFor(progPhong) {
		assert.Equal(t, gfx.DefaultFramebuffer, d.Framebuffer)
	}

	assert.Contains(t, dev.Viewports, gfx.Rect{Width: 256, Height: 256})
	assert.Equal(t, r.Viewport(), dev.Viewports[len(dev.Viewports)-1])
	assert.Equal(t, gfx.BackFace, dev.Cull)

	ls, ok := dev.Uniform(progPhong, "lightSpaceMatrix")
	require.True(t, ok)
	assert.Equal(t, PhongLightSpace(scn.DirectionalLight().Direction), ls)
	assert.Empty(t, dev.Failures)
}

func TestPhongShadowRepeatsEveryFrame(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)
	dev.Reset()

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Render(testCamera(), scn, DefaultOptions()))
	}
	assert.Equal(t, 3, dev.Created["depth"])
	assert.Zero(t, dev.DepthTextures())
	assert.Empty(t, dev.Failures)
}

func TestDeleteBufferIsIdempotent(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)

	for _, shader := range []ForwardShader{ShaderPhong, ShaderCSM} {
		s := r.Strategy(shader)
		s.DeleteBuffer()
		require.NoError(t, s.GenDepthMap(scn.DirectionalLight(), testCamera(), scn.Meshes))
		s.DeleteBuffer()
		s.DeleteBuffer()
	}
	assert.Zero(t, dev.DepthTextures())
	assert.Empty(t, dev.Failures)
}

func TestCascadedShadowFrame(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)
	dev.Reset()

	opts := DefaultOptions()
	opts.ForwardShader = ShaderCSM
	require.NoError(t, r.Render(testCamera(), scn, opts))

	assert.Equal(t, 1, dev.Created["deptharray"])
	assert.Zero(t, dev.DepthTextures())

	var layers []int32
	for _, a := range dev.Attachments {
		layers = append(layers, a.Layer)
	}
	assert.Equal(t, []int32{0, 0, 1, 2, 3, 4}, layers)

	// each cascade draws the visible cube and the background
	assert.Len(t, dev.DrawsFor(progDepth), CascadeCount*2)
	assert.Len(t, dev.DrawsFor(progCSM), 2)

	count, ok := dev.Uniform(progCSM, "cascadeCount")
	require.True(t, ok)
	assert.Equal(t, int32(CascadeCount-1), count)
	for i, split := range CascadeSplits(100) {
		v, ok := dev.Uniform(progCSM, fmt.Sprintf("cascadePlaneDistances[%d]", i))
		require.True(t, ok)
		assert.Equal(t, split, v)
	}
	_, ok = dev.Uniform(progCSM, "lightSpaceMatrices[4]")
	assert.True(t, ok)
	assert.Len(t, r.csm.LightSpace(), CascadeCount)
	assert.Empty(t, dev.Failures)
}

func TestMeshSamplersAvoidShadowUnit(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)

	opts := DefaultOptions()
	opts.ForwardShader = ShaderCSM
	require.NoError(t, r.Render(testCamera(), scn, opts))
	require.Len(t, dev.DrawsFor(progCSM), 2)

	unit, ok := dev.Uniform(progCSM, "shadowMap")
	require.True(t, ok)
	assert.Equal(t, int32(shadowUnit), unit)

	// untextured meshes leave their samplers where construction put them
	for _, prog := range []string{progCSM, progPhong, progGBuffer} {
		for _, name := range meshSamplers {
			unit, ok := dev.Uniform(prog, name)
			require.True(t, ok, "%s %s unset", prog, name)
			assert.NotEqual(t, int32(shadowUnit), unit, "%s %s", prog, name)
		}
	}
}

func TestCascadedDebugViewReplacesFacets(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)
	dev.Reset()

	opts := DefaultOptions()
	opts.ForwardShader = ShaderCSM
	opts.CSMDebug = true
	opts.CSMDebugLayer = 9
	require.NoError(t, r.Render(testCamera(), scn, opts))

	debug := dev.DrawsFor(progCSMDebug)
	require.Len(t, debug, 1)
	assert.Equal(t, gfx.TriangleStrip, debug[0].Mode)
	assert.Equal(t, int32(4), debug[0].Count)

	layer, _ := dev.Uniform(progCSMDebug, "layer")
	assert.Equal(t, int32(CascadeCount-1), layer)
	// only the background is lit
	assert.Len(t, dev.DrawsFor(progCSM), 1)
}

func TestCascadedOrthographicCamera(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)

	cam := scene.NewOrthographicCamera(-4, 4, -3, 3, 0.1, 50)
	cam.Position = mgl32.Vec3{0, 0, 10}
	opts := DefaultOptions()
	opts.ForwardShader = ShaderCSM
	require.NoError(t, r.Render(cam, scn, opts))
	assert.Len(t, r.csm.LightSpace(), CascadeCount)
	assert.Empty(t, dev.Failures)
}

func TestWireframeIsReappliedAfterBackground(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)
	dev.Reset()

	opts := DefaultOptions()
	opts.Wire = true
	require.NoError(t, r.Render(testCamera(), scn, opts))

	phong := dev.DrawsFor(progPhong)
	require.Len(t, phong, 2)
	assert.Equal(t, gfx.Line, phong[0].Polygon)
	assert.Equal(t, gfx.Fill, phong[1].Polygon, "background is always filled")
	assert.Equal(t, gfx.Line, dev.Polygon)
}

func TestLightMarkerAndNormals(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)
	live := len(dev.VertexArrays)
	dev.Reset()

	opts := DefaultOptions()
	opts.DisplayNormal = true
	require.NoError(t, r.Render(testCamera(), scn, opts))

	flat := dev.DrawsFor(progFlat)
	require.Len(t, flat, 1)
	assert.Equal(t, gfx.Points, flat[0].Mode)
	assert.Equal(t, float32(lightMarkerSize), dev.PointSize)
	assert.Len(t, dev.VertexArrays, live, "marker vertex array must be released")

	assert.Len(t, dev.DrawsFor(progNormal), 1)
	color, _ := dev.Uniform(progFlat, "material.color")
	assert.Equal(t, core.ColorYellow.Vec3(), color)
}

func TestDeferredShowAll(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, false)
	dev.Reset()

	opts := DefaultOptions()
	opts.RenderType = Deferred
	opts.GBufferDisplay = DisplayShowAll
	require.NoError(t, r.Render(testCamera(), scn, opts))

	assert.Equal(t, channelCount, dev.Created["color"])
	assert.Equal(t, 1, dev.Created["depth"])
	assert.Len(t, dev.DrawsFor(progGBuffer), 1)

	views := dev.DrawsFor(progGBufView)
	require.Len(t, views, 4)
	var area int64
	shown := map[gfx.Texture]bool{}
	for _, v := range views {
		assert.Equal(t, gfx.DefaultFramebuffer, v.Framebuffer)
		assert.Equal(t, gfx.TriangleStrip, v.Mode)
		assert.NotZero(t, v.Unit0)
		shown[v.Unit0] = true
		area += v.Viewport.Area()
	}
	assert.Len(t, shown, channelCount, "each quadrant shows its own channel")
	assert.Equal(t, r.Viewport().Area(), area)
	assert.Equal(t, r.Viewport(), dev.Viewports[len(dev.Viewports)-1])

	assert.Empty(t, dev.Textures)
	assert.Empty(t, dev.Framebuffers)
	assert.Equal(t, gfx.DefaultFramebuffer, dev.Framebuffer())
	assert.Empty(t, dev.Failures)
}

func TestDeferredSingleChannel(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)
	dev.Reset()

	opts := DefaultOptions()
	opts.RenderType = Deferred
	opts.GBufferDisplay = DisplayNormal
	opts.Wire = true
	require.NoError(t, r.Render(testCamera(), scn, opts))

	views := dev.DrawsFor(progGBufView)
	require.Len(t, views, 1)
	assert.Equal(t, r.Viewport(), views[0].Viewport)
	assert.Equal(t, gfx.Fill, views[0].Polygon, "the channel quad ignores wireframe")
	assert.Equal(t, gfx.DefaultFramebuffer, views[0].Framebuffer)
	assert.Empty(t, dev.DrawsFor(progDepth), "deferred path has no shadow pass")
}

func TestFrameErrorsAreDrained(t *testing.T) {
	dev, r := newTestRenderer(t)
	scn := testScene(t, dev, true)

	dev.Pending = []error{errors.New("GL error INVALID_VALUE")}
	require.NoError(t, r.Render(testCamera(), scn, DefaultOptions()))
	assert.Empty(t, dev.Pending)
}
