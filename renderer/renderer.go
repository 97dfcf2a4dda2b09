// Package renderer is the frame orchestrator of the viewer. Each frame it
// picks a path (forward with a shading strategy, or deferred), manages the
// auxiliary GPU targets that path needs, and sequences its passes.
package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"rendering-engine/internal/gfx"
	"rendering-engine/scene"
)

const DefaultShadowResolution = 2048

// DebugConfig controls diagnostic output.
type DebugConfig struct {
	// GLWarnings logs graphics errors drained after each frame.
	GLWarnings bool `yaml:"gl_warnings" toml:"gl_warnings"`
	// GLInfo logs driver version and renderer strings at startup.
	GLInfo bool `yaml:"gl_info" toml:"gl_info"`
}

// Config is fixed at construction.
type Config struct {
	ShadowResolution int32 `yaml:"shadow_resolution" toml:"shadow_resolution"`
	// ShaderDir, when set, overrides built-in shader stages with
	// <ShaderDir>/<program>.vert, .geom or .frag files.
	ShaderDir string      `yaml:"shader_dir" toml:"shader_dir"`
	Debug     DebugConfig `yaml:"debug" toml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		ShadowResolution: DefaultShadowResolution,
		Debug:            DebugConfig{GLWarnings: true},
	}
}

// programOrder is the compile order at construction.
var programOrder = []string{progFlat, progNormal, progGBuffer, progDepth, progPhong, progCSM, progCSMDebug, progGBufView}

// Renderer owns the programs, the background plane and both strategies.
type Renderer struct {
	dev gfx.Device
	cfg Config
	log *slog.Logger

	viewport gfx.Rect

	flatProg    gfx.Program
	normalProg  gfx.Program
	gbufferProg gfx.Program
	depthProg   gfx.Program
	viewProg    gfx.Program

	// quad is shared by the cascade debug view and the gbuffer display.
	quad  gfx.VertexArray
	bg    *background
	phong *PhongShading
	csm   *CascadedShading
}

// New compiles every program and builds the shared geometry. Any failure,
// including graphics errors queued during setup, is fatal.
func New(dev gfx.Device, cfg Config, log *slog.Logger) (*Renderer, error) {
	if cfg.ShadowResolution <= 0 {
		cfg.ShadowResolution = DefaultShadowResolution
	}
	r := &Renderer{dev: dev, cfg: cfg, log: log}

	progs := make(map[string]gfx.Program, len(programOrder))
	release := func() {
		for _, p := range progs {
			dev.DeleteProgram(p)
		}
		if r.quad != 0 {
			dev.DeleteVertexArray(r.quad)
		}
		r.bg.delete(dev)
	}

	var errs []error
	for _, name := range programOrder {
		src, err := programSource(cfg.ShaderDir, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p, err := dev.NewProgram(name, src)
		if err != nil {
			errs = append(errs, fmt.Errorf("program %s: %w", name, err))
			continue
		}
		progs[name] = p
	}
	if len(errs) > 0 {
		release()
		return nil, fmt.Errorf("renderer init: %w", errors.Join(errs...))
	}

	bg, err := newBackground(dev)
	if err != nil {
		release()
		return nil, fmt.Errorf("renderer init: background: %w", err)
	}
	r.bg = bg

	quad, err := newScreenQuad(dev)
	if err != nil {
		release()
		return nil, fmt.Errorf("renderer init: screen quad: %w", err)
	}
	r.quad = quad

	for _, name := range []string{progPhong, progCSM, progGBuffer} {
		initSamplers(dev, progs[name])
	}

	pass := shadowPass{
		dev:        dev,
		depth:      progs[progDepth],
		bg:         bg,
		resolution: cfg.ShadowResolution,
		viewport:   &r.viewport,
	}
	r.csm = newCascadedShading(pass, progs[progCSM], progs[progCSMDebug], quad)
	r.phong = newPhongShading(pass, progs[progPhong])
	r.flatProg = progs[progFlat]
	r.normalProg = progs[progNormal]
	r.gbufferProg = progs[progGBuffer]
	r.depthProg = progs[progDepth]
	r.viewProg = progs[progGBufView]

	if errs := dev.Errors(); len(errs) > 0 {
		r.Delete()
		return nil, fmt.Errorf("renderer init: %w", errors.Join(errs...))
	}
	return r, nil
}

// Resize sets the viewport every pass renders to and restores after
// offscreen work.
func (r *Renderer) Resize(width, height int) {
	r.viewport = gfx.Rect{Width: int32(width), Height: int32(height)}
	r.dev.Viewport(r.viewport)
}

func (r *Renderer) Viewport() gfx.Rect { return r.viewport }

// Strategy returns the forward strategy selected by shader.
func (r *Renderer) Strategy(shader ForwardShader) Strategy {
	if shader == ShaderCSM {
		return r.csm
	}
	return r.phong
}

// Render draws one frame. Recoverable problems (no light, failed offscreen
// targets, graphics errors) are logged and the frame continues; an error is
// returned only for unusable input.
func (r *Renderer) Render(cam *scene.Camera, scn *scene.Scene, opts Options) error {
	if cam == nil || scn == nil {
		return errors.New("render: nil camera or scene")
	}
	switch opts.RenderType {
	case Forward:
		r.renderForward(cam, scn, opts)
		r.logFrameErrors("forward")
	case Deferred:
		r.renderDeferred(cam, scn, opts)
		r.logFrameErrors("deferred")
	default:
		return fmt.Errorf("render: unknown render type %d", opts.RenderType)
	}
	return nil
}

func polygonMode(wire bool) gfx.PolygonMode {
	if wire {
		return gfx.Line
	}
	return gfx.Fill
}

// ── Forward ──────────────────────────────────────────────────────────────────

func (r *Renderer) renderForward(cam *scene.Camera, scn *scene.Scene, opts Options) {
	s := r.Strategy(opts.ForwardShader)
	s.SetOptions(opts)

	light := scn.DirectionalLight()
	if light == nil {
		r.log.Warn("no directional light, forward pass skipped")
		return
	}

	s.UpdateCamera(cam)
	r.updateDebugCamera(cam)
	s.UpdateLight(light)

	shadow := opts.UseShadow
	if shadow {
		if err := s.GenDepthMap(light, cam, scn.Meshes); err != nil {
			r.log.Warn("shadow pass failed, drawing unshadowed", "shader", opts.ForwardShader, "err", err)
			opts.UseShadow = false
			s.SetOptions(opts)
		}
	}

	mode := polygonMode(opts.Wire)
	r.dev.SetPolygonMode(mode)
	debugView := opts.csmDebugActive()
	for _, m := range scn.Visible() {
		if opts.DisplayFacet {
			if debugView {
				s.RenderDebugView()
			} else {
				s.RenderFacet(m)
			}
		}
		if opts.DisplayNormal {
			r.drawNormals(m)
		}
	}

	r.drawLightMarker(light)
	s.RenderBackground()
	r.dev.SetPolygonMode(mode)

	if shadow {
		s.DeleteBuffer()
	}
}

func (r *Renderer) updateDebugCamera(cam *scene.Camera) {
	for _, p := range []gfx.Program{r.flatProg, r.normalProg} {
		r.dev.UseProgram(p)
		setCamera(r.dev, p, cam)
	}
}

// ── Deferred ─────────────────────────────────────────────────────────────────

func (r *Renderer) renderDeferred(cam *scene.Camera, scn *scene.Scene, opts Options) {
	r.dev.UseProgram(r.gbufferProg)
	setCamera(r.dev, r.gbufferProg, cam)

	gb, err := NewGBuffer(r.dev, r.viewport.Width, r.viewport.Height)
	if err != nil {
		r.log.Warn("gbuffer unavailable, frame skipped", "err", err)
		return
	}
	defer gb.Delete()

	gb.BindForWriting()
	r.dev.SetPolygonMode(polygonMode(opts.Wire))
	for _, m := range scn.Visible() {
		if !m.Uploaded() {
			continue
		}
		r.dev.UseProgram(r.gbufferProg)
		setMaterial(r.dev, r.gbufferProg, scene.AsPhong(m.Material))
		r.dev.SetMat4(r.gbufferProg, "model", m.Model())
		setTextureFlags(r.dev, r.gbufferProg, bindMeshTextures(r.dev, r.gbufferProg, m, opts.UseNormalMap))
		r.dev.DrawElements(m.VertexArray, gfx.Triangles, m.IndexCount())
	}
	r.dev.BindFramebuffer(gfx.DefaultFramebuffer)
	r.dev.Viewport(r.viewport)

	regions, err := BlitLayout(opts.GBufferDisplay, r.viewport)
	if err != nil {
		r.log.Warn("gbuffer display skipped", "display", opts.GBufferDisplay, "err", err)
		return
	}
	gb.Show(r.viewProg, r.quad, regions)
	r.dev.Viewport(r.viewport)
}

// logFrameErrors drains queued graphics errors, logging them when enabled.
func (r *Renderer) logFrameErrors(pass string) {
	errs := r.dev.Errors()
	if len(errs) == 0 || !r.cfg.Debug.GLWarnings {
		return
	}
	r.log.Warn("graphics errors", "pass", pass, "count", len(errs), "err", errors.Join(errs...))
}

// Delete releases every GPU object the renderer owns. Meshes belong to the
// scene and are not touched.
func (r *Renderer) Delete() {
	if r.phong != nil {
		r.phong.Delete()
	}
	if r.csm != nil {
		r.csm.Delete()
	}
	for _, p := range []*gfx.Program{&r.flatProg, &r.normalProg, &r.gbufferProg, &r.depthProg, &r.viewProg} {
		if *p != 0 {
			r.dev.DeleteProgram(*p)
			*p = 0
		}
	}
	if r.quad != 0 {
		r.dev.DeleteVertexArray(r.quad)
		r.quad = 0
	}
	r.bg.delete(r.dev)
}
