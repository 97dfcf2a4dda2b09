package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/internal/gfx"
	"rendering-engine/scene"
)

// Strategy is one forward shading technique. The renderer drives it through
// a frame: options, camera, light, optional depth pass, facets, background,
// then DeleteBuffer to drop the frame's shadow resources.
type Strategy interface {
	SetOptions(opts Options)
	UpdateCamera(cam *scene.Camera)
	UpdateLight(light *scene.DirectionalLight)
	// GenDepthMap renders shadow depth from light. It is only called when
	// shadows are enabled; its resources live until DeleteBuffer.
	GenDepthMap(light *scene.DirectionalLight, cam *scene.Camera, meshes []*scene.Mesh) error
	RenderFacet(mesh *scene.Mesh)
	RenderBackground()
	// RenderDebugView draws a technique specific overlay in place of a facet.
	RenderDebugView()
	// DeleteBuffer releases per-frame shadow resources. Safe to repeat.
	DeleteBuffer()
	// Delete releases everything the strategy owns.
	Delete()
}

// noDebugView is embedded by strategies without a debug overlay.
type noDebugView struct{}

func (noDebugView) RenderDebugView() {}

// shadowPass holds what every strategy needs to render depth from a light.
type shadowPass struct {
	dev        gfx.Device
	depth      gfx.Program
	bg         *background
	resolution int32
	// viewport is owned by the renderer and restored after each pass.
	viewport *gfx.Rect
	opts     Options
}

func (s *shadowPass) SetOptions(opts Options) { s.opts = opts }

func (s *shadowPass) shadowRect() gfx.Rect {
	return gfx.Rect{Width: s.resolution, Height: s.resolution}
}

// begin binds fb at shadow resolution with front faces culled.
func (s *shadowPass) begin(fb gfx.Framebuffer) {
	s.dev.Viewport(s.shadowRect())
	s.dev.BindFramebuffer(fb)
	s.dev.SetCullFace(gfx.FrontFace)
}

// drawDepth renders the visible meshes, when facets are shown, and the
// background plane into the bound depth target.
func (s *shadowPass) drawDepth(lightSpace mgl32.Mat4, meshes []*scene.Mesh) {
	s.dev.UseProgram(s.depth)
	s.dev.SetMat4(s.depth, "lightSpaceMatrix", lightSpace)
	if s.opts.DisplayFacet {
		for _, m := range meshes {
			if !m.Visible || !m.Uploaded() {
				continue
			}
			s.dev.SetMat4(s.depth, "model", m.Model())
			s.dev.DrawElements(m.VertexArray, gfx.Triangles, m.IndexCount())
		}
	}
	s.dev.SetMat4(s.depth, "model", mgl32.Ident4())
	s.bg.draw(s.dev)
}

// end restores back-face culling, the default target and the viewport, and
// clears the default target for the main pass.
func (s *shadowPass) end() {
	s.dev.SetCullFace(gfx.BackFace)
	s.dev.BindFramebuffer(gfx.DefaultFramebuffer)
	s.dev.Viewport(*s.viewport)
	s.dev.Clear(true, true)
}
