package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendering-engine/config"
	"rendering-engine/core/window"
	"rendering-engine/internal/logx"
	"rendering-engine/renderer"
	"rendering-engine/scene"
)

func TestResolveConfigFlagsOverride(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--width", "640", "--render", "deferred", "--shader", "csm"}))

	var f flags
	f.width, _ = cmd.Flags().GetInt("width")
	f.renderType, _ = cmd.Flags().GetString("render")
	f.shader, _ = cmd.Flags().GetString("shader")

	cfg, err := resolveConfig(cmd, f, []string{"builtin:sphere"})
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, config.Default().Window.Height, cfg.Window.Height)
	assert.Equal(t, renderer.Deferred, cfg.Options.RenderType)
	assert.Equal(t, renderer.ShaderCSM, cfg.Options.ForwardShader)
	assert.Equal(t, []string{"builtin:sphere"}, cfg.Scene.Models)
}

func TestResolveConfigRejectsBadEnum(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--render", "raytraced"}))
	_, err := resolveConfig(cmd, flags{renderType: "raytraced"}, nil)
	assert.Error(t, err)
}

func TestLoadSceneBuiltins(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Models = []string{"builtin:cube", "builtin:plane"}

	scn, err := loadScene(cfg, logx.Discard())
	require.NoError(t, err)
	assert.Len(t, scn.Meshes, 2)
	require.NotNil(t, scn.DirectionalLight())
	assert.Equal(t, scn.Box.Max.Mul(1.5), scn.DirectionalLight().Position)

	cfg.Scene.Models = []string{"model.fbx"}
	_, err = loadScene(cfg, logx.Discard())
	assert.Error(t, err)
}

func TestOrbitControllerEasesToGoal(t *testing.T) {
	cam := scene.NewPerspectiveCamera(mgl32.DegToRad(45), 1, 0.1, 100)
	cam.Position = mgl32.Vec3{0, 0, 5}
	c := newOrbitController(cam, mgl32.Vec3{}, targetFPS)
	assert.True(t, cam.Position.ApproxEqualThreshold(mgl32.Vec3{0, 0, 5}, 1e-4))

	c.Zoom(5)
	c.Orbit(1, 10)
	for i := 0; i < 10*targetFPS; i++ {
		c.Step()
	}
	assert.InDelta(t, 2.5, cam.Position.Len(), 1e-2)
	assert.InDelta(t, maxPitch, c.pitch.pos, 1e-2, "pitch is clamped")
	// the camera keeps looking at the target
	assert.True(t, cam.Forward().ApproxEqualThreshold(cam.Position.Mul(-1).Normalize(), 1e-3))
}

func TestOrbitControllerZoomFloor(t *testing.T) {
	cam := scene.NewPerspectiveCamera(mgl32.DegToRad(45), 1, 0.1, 100)
	cam.Position = mgl32.Vec3{0, 0, 1}
	c := newOrbitController(cam, mgl32.Vec3{}, targetFPS)
	for i := 0; i < 50; i++ {
		c.Zoom(20)
	}
	assert.GreaterOrEqual(t, c.distance.goal, float64(minDistance))
}

func TestOrbitControllerFramesBox(t *testing.T) {
	cam := scene.NewPerspectiveCamera(mgl32.DegToRad(45), 1, 0.1, 100)
	cam.Position = mgl32.Vec3{0, 0, 5}
	c := newOrbitController(cam, mgl32.Vec3{}, targetFPS)

	box := scene.BoundingBox{Min: mgl32.Vec3{2, 0, 0}, Max: mgl32.Vec3{4, 2, 2}}
	c.Frame(box)
	for i := 0; i < 10*targetFPS; i++ {
		c.Step()
	}

	assert.InDelta(t, 3, c.Target().X(), 1e-3)
	assert.InDelta(t, 1, c.Target().Y(), 1e-3)
	assert.InDelta(t, 1, c.Target().Z(), 1e-3)
	want := box.Size().Len() * frameMargin
	assert.InDelta(t, want, cam.Position.Sub(c.Target()).Len(), 1e-2)

	before := c.distance.goal
	c.Frame(scene.EmptyBox())
	assert.Equal(t, before, c.distance.goal)
}

func TestHotkeys(t *testing.T) {
	opts := renderer.DefaultOptions()
	log := logx.Discard()

	assert.True(t, applyHotkey(&opts, window.KeyV, false, log))
	assert.True(t, opts.Wire)
	assert.True(t, applyHotkey(&opts, window.KeyR, false, log))
	assert.Equal(t, renderer.Deferred, opts.RenderType)
	assert.True(t, applyHotkey(&opts, window.KeyC, false, log))
	assert.Equal(t, renderer.ShaderCSM, opts.ForwardShader)
	assert.True(t, applyHotkey(&opts, window.Key3, false, log))
	assert.Equal(t, 3, opts.CSMDebugLayer)

	assert.True(t, applyHotkey(&opts, window.KeyTab, true, log))
	assert.Equal(t, renderer.DisplayShowAll, opts.GBufferDisplay)
	assert.True(t, applyHotkey(&opts, window.KeyTab, false, log))
	assert.Equal(t, renderer.DisplayPosition, opts.GBufferDisplay)

	assert.False(t, applyHotkey(&opts, window.KeyW, false, log))
}
