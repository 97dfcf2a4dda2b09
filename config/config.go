// Package config loads the viewer configuration from YAML or TOML files and
// watches a render options file for live edits.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"rendering-engine/core"
	"rendering-engine/internal/logx"
	"rendering-engine/renderer"
	"rendering-engine/scene"
)

type CameraConfig struct {
	// FovY is the vertical field of view in degrees.
	FovY     float32    `yaml:"fovy" toml:"fovy"`
	Near     float32    `yaml:"near" toml:"near"`
	Far      float32    `yaml:"far" toml:"far"`
	Position mgl32.Vec3 `yaml:"position" toml:"position"`
	Target   mgl32.Vec3 `yaml:"target" toml:"target"`
	// Orthographic switches to a parallel projection OrthoHeight units tall.
	Orthographic bool    `yaml:"orthographic" toml:"orthographic"`
	OrthoHeight  float32 `yaml:"ortho_height" toml:"ortho_height"`
}

type SceneConfig struct {
	// Models are OBJ/glTF paths or builtin:cube, builtin:sphere, builtin:plane.
	Models []string `yaml:"models" toml:"models"`
	// UpdateLight re-derives the light from the scene bounds after loading.
	UpdateLight bool `yaml:"update_light" toml:"update_light"`
}

type LightConfig struct {
	Direction mgl32.Vec3 `yaml:"direction" toml:"direction"`
	Color     mgl32.Vec3 `yaml:"color" toml:"color"`
	Intensity float32    `yaml:"intensity" toml:"intensity"`
}

type Config struct {
	Window   core.WindowConfig `yaml:"window" toml:"window"`
	Camera   CameraConfig      `yaml:"camera" toml:"camera"`
	Scene    SceneConfig       `yaml:"scene" toml:"scene"`
	Light    LightConfig       `yaml:"light" toml:"light"`
	Renderer renderer.Config   `yaml:"renderer" toml:"renderer"`
	Options  renderer.Options  `yaml:"options" toml:"options"`
	Log      logx.Config       `yaml:"log" toml:"log"`
	// OptionsFile, when set, is watched and reloaded into Options on change.
	OptionsFile string `yaml:"options_file" toml:"options_file"`
}

func Default() Config {
	return Config{
		Window: core.DefaultWindowConfig(),
		Camera: CameraConfig{
			FovY:        45,
			Near:        0.1,
			Far:         1000,
			Position:    mgl32.Vec3{0, 0, 5},
			OrthoHeight: 10,
		},
		Scene: SceneConfig{
			Models:      []string{scene.BuiltinPrefix + "cube"},
			UpdateLight: true,
		},
		Light: LightConfig{
			Direction: mgl32.Vec3{1, 1, 1},
			Color:     mgl32.Vec3{1, 1, 1},
			Intensity: 1,
		},
		Renderer: renderer.DefaultConfig(),
		Options:  renderer.DefaultOptions(),
		Log:      logx.DefaultConfig(),
	}
}

// Load reads path over the defaults. The format follows the extension:
// .yaml/.yml or .toml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	path, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := decode(path, data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.expandPaths(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(path string, data []byte, v any) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document leaves v untouched.
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	return nil
}

func (c *Config) expandPaths() error {
	for i, m := range c.Scene.Models {
		p, err := homedir.Expand(m)
		if err != nil {
			return fmt.Errorf("model %s: %w", m, err)
		}
		c.Scene.Models[i] = p
	}
	dir, err := homedir.Expand(c.Renderer.ShaderDir)
	if err != nil {
		return fmt.Errorf("shader dir: %w", err)
	}
	c.Renderer.ShaderDir = dir
	opts, err := homedir.Expand(c.OptionsFile)
	if err != nil {
		return fmt.Errorf("options file: %w", err)
	}
	c.OptionsFile = opts
	return nil
}

// Validate rejects values the viewer cannot start with.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: window size %dx%d", c.Window.Width, c.Window.Height)
	case c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far:
		return fmt.Errorf("config: camera near %g must be in (0, far=%g)", c.Camera.Near, c.Camera.Far)
	case !c.Camera.Orthographic && (c.Camera.FovY <= 0 || c.Camera.FovY >= 180):
		return fmt.Errorf("config: camera fovy %g out of range", c.Camera.FovY)
	case c.Camera.Orthographic && c.Camera.OrthoHeight <= 0:
		return fmt.Errorf("config: ortho height %g", c.Camera.OrthoHeight)
	case c.Renderer.ShadowResolution < 0:
		return fmt.Errorf("config: shadow resolution %d", c.Renderer.ShadowResolution)
	}
	if _, err := logx.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// NewCamera builds the configured camera for a width×height framebuffer.
func (c CameraConfig) NewCamera(width, height int) *scene.Camera {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	var cam *scene.Camera
	if c.Orthographic {
		h := c.OrthoHeight / 2
		cam = scene.NewOrthographicCamera(-h*aspect, h*aspect, -h, h, c.Near, c.Far)
	} else {
		cam = scene.NewPerspectiveCamera(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
	}
	cam.Position = c.Position
	if c.Target.Sub(c.Position).Len() > 1e-6 {
		cam.LookAt(c.Target, mgl32.Vec3{0, 1, 0})
	}
	return cam
}

func (l LightConfig) NewLight() *scene.DirectionalLight {
	color := core.Color{R: l.Color.X(), G: l.Color.Y(), B: l.Color.Z(), A: 1}
	return scene.NewDirectionalLight(l.Direction, color, l.Intensity)
}
