package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendering-engine/internal/logx"
	"rendering-engine/renderer"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 1080, cfg.Window.Height)
	assert.Equal(t, "Rendering Engine", cfg.Window.Title)
	assert.Equal(t, float32(45), cfg.Camera.FovY)
	assert.Equal(t, float32(0.1), cfg.Camera.Near)
	assert.Equal(t, float32(1000), cfg.Camera.Far)
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, cfg.Camera.Position)
	assert.Equal(t, renderer.DefaultOptions(), cfg.Options)
}

func TestLoadYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "viewer.yaml", `
window:
  width: 800
  height: 600
camera:
  fovy: 60
  far: 200
scene:
  models: [builtin:sphere, builtin:plane]
renderer:
  shadow_resolution: 1024
options:
  render_type: deferred
  forward_shader: csm
  gbuffer_display: all
  wire: true
log:
  level: debug
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, "Rendering Engine", cfg.Window.Title, "unset keys keep defaults")
	assert.Equal(t, float32(60), cfg.Camera.FovY)
	assert.Equal(t, float32(200), cfg.Camera.Far)
	assert.Equal(t, []string{"builtin:sphere", "builtin:plane"}, cfg.Scene.Models)
	assert.Equal(t, int32(1024), cfg.Renderer.ShadowResolution)
	assert.Equal(t, renderer.Deferred, cfg.Options.RenderType)
	assert.Equal(t, renderer.ShaderCSM, cfg.Options.ForwardShader)
	assert.Equal(t, renderer.DisplayShowAll, cfg.Options.GBufferDisplay)
	assert.True(t, cfg.Options.Wire)
	assert.True(t, cfg.Options.DisplayFacet)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadTOML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "viewer.toml", `
[camera]
orthographic = true
ortho_height = 6
position = [0.0, 2.0, 8.0]

[light]
direction = [0.0, 1.0, 0.0]
intensity = 2.5

[options]
forward_shader = "csm"
csm_debug = true
csm_debug_layer = 2
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.True(t, cfg.Camera.Orthographic)
	assert.Equal(t, mgl32.Vec3{0, 2, 8}, cfg.Camera.Position)
	assert.Equal(t, float32(2.5), cfg.Light.Intensity)
	assert.Equal(t, renderer.ShaderCSM, cfg.Options.ForwardShader)
	assert.True(t, cfg.Options.CSMDebug)
	assert.Equal(t, 2, cfg.Options.CSMDebugLayer)

	cam := cfg.Camera.NewCamera(800, 600)
	_, perspective := cam.Perspective()
	assert.False(t, perspective)
	assert.Equal(t, mgl32.Vec3{0, 2, 8}, cam.Position)

	light := cfg.Light.NewLight()
	assert.InDelta(t, 1, light.Direction.Y(), 1e-6)
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"unknown.yaml": "windw:\n  width: 10\n",
		"enum.yaml":    "options:\n  render_type: raytraced\n",
		"near.toml":    "[camera]\nnear = 5.0\nfar = 1.0\n",
		"level.yaml":   "log:\n  level: loud\n",
		"viewer.json":  "{}",
		"unknown.toml": "[options]\nbloom = true\n",
	}
	for name, body := range tests {
		_, err := Load(writeFile(t, dir, name, body))
		assert.Error(t, err, name)
	}
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, t.TempDir(), "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default().Window, cfg.Window)
}

func TestLoadOptionsOverBase(t *testing.T) {
	p := writeFile(t, t.TempDir(), "opts.yaml", "display_normal: true\n")
	base := renderer.DefaultOptions()
	base.Wire = true

	opts, err := LoadOptions(p, base)
	require.NoError(t, err)
	assert.True(t, opts.DisplayNormal)
	assert.True(t, opts.Wire, "keys absent from the file keep the base value")
}

func TestOptionsWatcherDelivers(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "opts.yaml", "wire: false\n")

	w, err := WatchOptions(p, renderer.DefaultOptions(), logx.Discard())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(p, []byte("wire: true\nrender_type: deferred\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case opts := <-w.Updates():
			if opts.Wire && opts.RenderType == renderer.Deferred {
				return
			}
		case <-deadline:
			t.Fatal("no options update after write")
		}
	}
}
