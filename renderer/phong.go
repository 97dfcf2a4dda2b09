package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/internal/gfx"
	"rendering-engine/scene"
)

// Light frustum of the single shadow map, in light view space.
const (
	phongShadowExtent = 10
	phongShadowNear   = 0.1
	phongShadowFar    = 30
)

// PhongLightSpace is the light view-projection of the single shadow map:
// an orthographic box looking from the light direction at the origin.
func PhongLightSpace(direction mgl32.Vec3) mgl32.Mat4 {
	proj := mgl32.Ortho(-phongShadowExtent, phongShadowExtent, -phongShadowExtent, phongShadowExtent,
		phongShadowNear, phongShadowFar)
	view := mgl32.LookAtV(direction, mgl32.Vec3{}, lightUp(direction))
	return proj.Mul4(view)
}

// PhongShading is Blinn-Phong lighting with one orthographic shadow map.
type PhongShading struct {
	shadowPass
	noDebugView

	prog       gfx.Program
	lightSpace mgl32.Mat4

	depthMap gfx.Texture
	fbo      gfx.Framebuffer
}

func newPhongShading(pass shadowPass, prog gfx.Program) *PhongShading {
	return &PhongShading{shadowPass: pass, prog: prog, lightSpace: mgl32.Ident4()}
}

func (p *PhongShading) UpdateCamera(cam *scene.Camera) {
	p.dev.UseProgram(p.prog)
	setCamera(p.dev, p.prog, cam)
	p.dev.SetVec3(p.prog, "viewPos", cam.Position)
}

func (p *PhongShading) UpdateLight(l *scene.DirectionalLight) {
	p.dev.UseProgram(p.prog)
	setLight(p.dev, p.prog, l)
}

func (p *PhongShading) GenDepthMap(l *scene.DirectionalLight, _ *scene.Camera, meshes []*scene.Mesh) error {
	p.DeleteBuffer()
	p.lightSpace = PhongLightSpace(l.Direction)

	tex, err := p.dev.NewDepthTexture(p.resolution, p.resolution)
	if err != nil {
		return fmt.Errorf("phong depth map: %w", err)
	}
	p.depthMap = tex
	p.fbo = p.dev.NewFramebuffer()
	p.dev.AttachDepth(p.fbo, p.depthMap, -1)
	p.dev.DrawBuffers(p.fbo, 0)
	if err := p.dev.CheckFramebuffer(p.fbo); err != nil {
		p.DeleteBuffer()
		p.dev.BindFramebuffer(gfx.DefaultFramebuffer)
		return fmt.Errorf("phong depth map: %w", err)
	}

	p.begin(p.fbo)
	p.dev.Clear(false, true)
	p.drawDepth(p.lightSpace, meshes)
	p.end()
	return nil
}

// bindShadow points shadowMap at unit 0 and enables sampling only when a
// depth map exists this frame.
func (p *PhongShading) bindShadow() {
	p.dev.SetMat4(p.prog, "lightSpaceMatrix", p.lightSpace)
	p.dev.SetInt(p.prog, "shadowMap", shadowUnit)
	p.dev.SetBool(p.prog, "useShadow", p.opts.UseShadow && p.depthMap != 0)
	if p.depthMap != 0 {
		p.dev.BindTexture(shadowUnit, gfx.Texture2D, p.depthMap)
	}
}

func (p *PhongShading) RenderFacet(m *scene.Mesh) {
	if !m.Uploaded() {
		return
	}
	p.dev.UseProgram(p.prog)
	setMaterial(p.dev, p.prog, scene.AsPhong(m.Material))
	p.dev.SetMat4(p.prog, "model", m.Model())
	setTextureFlags(p.dev, p.prog, bindMeshTextures(p.dev, p.prog, m, p.opts.UseNormalMap))
	p.bindShadow()
	p.dev.DrawElements(m.VertexArray, gfx.Triangles, m.IndexCount())
}

func (p *PhongShading) RenderBackground() {
	p.dev.UseProgram(p.prog)
	p.bindShadow()
	p.bg.drawLit(p.dev, p.prog)
}

func (p *PhongShading) DeleteBuffer() {
	if p.fbo != 0 {
		p.dev.DeleteFramebuffer(p.fbo)
		p.fbo = 0
	}
	if p.depthMap != 0 {
		p.dev.DeleteTexture(p.depthMap)
		p.depthMap = 0
	}
}

func (p *PhongShading) Delete() {
	p.DeleteBuffer()
	if p.prog != 0 {
		p.dev.DeleteProgram(p.prog)
		p.prog = 0
	}
}

var _ Strategy = (*PhongShading)(nil)
