package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/internal/gfx"
	"rendering-engine/scene"
)

// fallbackFovY is the sub-frustum angle used when the camera is orthographic.
var fallbackFovY = mgl32.DegToRad(45)

// CascadedShading is Blinn-Phong lighting with cascaded shadow maps. Each
// frame the camera frustum is split into CascadeCount slices, each shadowed
// by its own layer of a depth texture array.
type CascadedShading struct {
	shadowPass

	prog      gfx.Program
	debugProg gfx.Program
	// quad is the renderer's screen quad; not owned.
	quad gfx.VertexArray

	splits   []float32
	matrices []mgl32.Mat4

	depthArray gfx.Texture
	fbo        gfx.Framebuffer
}

func newCascadedShading(pass shadowPass, prog, debugProg gfx.Program, quad gfx.VertexArray) *CascadedShading {
	return &CascadedShading{shadowPass: pass, prog: prog, debugProg: debugProg, quad: quad}
}

// frustumParams returns the fovy and aspect the cascades are cut from.
func (c *CascadedShading) frustumParams(cam *scene.Camera) (fovY, aspect float32) {
	if p, ok := cam.Perspective(); ok {
		return p.FovY, p.Aspect
	}
	aspect = 1
	if c.viewport.Height > 0 {
		aspect = float32(c.viewport.Width) / float32(c.viewport.Height)
	}
	return fallbackFovY, aspect
}

func (c *CascadedShading) UpdateCamera(cam *scene.Camera) {
	c.dev.UseProgram(c.prog)
	setCamera(c.dev, c.prog, cam)
	c.dev.SetVec3(c.prog, "viewPos", cam.Position)
	c.dev.SetFloat(c.prog, "farPlane", cam.Far)

	c.splits = CascadeSplits(cam.Far)
	for i, s := range c.splits {
		c.dev.SetFloat(c.prog, fmt.Sprintf("cascadePlaneDistances[%d]", i), s)
	}
	c.dev.SetInt(c.prog, "cascadeCount", int32(len(c.splits)))
}

func (c *CascadedShading) UpdateLight(l *scene.DirectionalLight) {
	c.dev.UseProgram(c.prog)
	setLight(c.dev, c.prog, l)
}

func (c *CascadedShading) GenDepthMap(l *scene.DirectionalLight, cam *scene.Camera, meshes []*scene.Mesh) error {
	c.DeleteBuffer()
	fovY, aspect := c.frustumParams(cam)
	c.matrices = LightSpaceMatrices(fovY, aspect, cam.Near, cam.Far, cam.View(), l.Direction)

	tex, err := c.dev.NewDepthTextureArray(c.resolution, c.resolution, int32(len(c.matrices)))
	if err != nil {
		return fmt.Errorf("csm depth array: %w", err)
	}
	c.depthArray = tex
	c.fbo = c.dev.NewFramebuffer()
	c.dev.AttachDepth(c.fbo, c.depthArray, 0)
	c.dev.DrawBuffers(c.fbo, 0)
	if err := c.dev.CheckFramebuffer(c.fbo); err != nil {
		c.DeleteBuffer()
		c.dev.BindFramebuffer(gfx.DefaultFramebuffer)
		return fmt.Errorf("csm depth array: %w", err)
	}

	c.begin(c.fbo)
	for i, m := range c.matrices {
		c.dev.AttachDepth(c.fbo, c.depthArray, int32(i))
		c.dev.Clear(false, true)
		c.drawDepth(m, meshes)
	}
	c.end()

	c.dev.UseProgram(c.prog)
	for i, m := range c.matrices {
		c.dev.SetMat4(c.prog, fmt.Sprintf("lightSpaceMatrices[%d]", i), m)
	}
	return nil
}

func (c *CascadedShading) bindShadow() {
	c.dev.SetInt(c.prog, "shadowMap", shadowUnit)
	c.dev.SetBool(c.prog, "useShadow", c.opts.UseShadow && c.depthArray != 0)
	c.dev.SetBool(c.prog, "layerVisualization", c.opts.CSMLayerVisualization)
	if c.depthArray != 0 {
		c.dev.BindTexture(shadowUnit, gfx.Texture2DArray, c.depthArray)
	}
}

func (c *CascadedShading) RenderFacet(m *scene.Mesh) {
	if !m.Uploaded() {
		return
	}
	c.dev.UseProgram(c.prog)
	setMaterial(c.dev, c.prog, scene.AsPhong(m.Material))
	c.dev.SetMat4(c.prog, "model", m.Model())
	setTextureFlags(c.dev, c.prog, bindMeshTextures(c.dev, c.prog, m, c.opts.UseNormalMap))
	c.bindShadow()
	c.dev.DrawElements(m.VertexArray, gfx.Triangles, m.IndexCount())
}

func (c *CascadedShading) RenderBackground() {
	c.dev.UseProgram(c.prog)
	c.bindShadow()
	c.bg.drawLit(c.dev, c.prog)
}

// RenderDebugView shows one layer of the cascade array on a full-screen quad.
func (c *CascadedShading) RenderDebugView() {
	if c.depthArray == 0 {
		return
	}
	layer := min(max(c.opts.CSMDebugLayer, 0), CascadeCount-1)
	c.dev.UseProgram(c.debugProg)
	c.dev.SetInt(c.debugProg, "depthMap", shadowUnit)
	c.dev.SetInt(c.debugProg, "layer", int32(layer))
	c.dev.BindTexture(shadowUnit, gfx.Texture2DArray, c.depthArray)
	drawScreenQuad(c.dev, c.quad)
}

// LightSpace returns the matrices of the last depth pass.
func (c *CascadedShading) LightSpace() []mgl32.Mat4 { return c.matrices }

func (c *CascadedShading) DeleteBuffer() {
	if c.fbo != 0 {
		c.dev.DeleteFramebuffer(c.fbo)
		c.fbo = 0
	}
	if c.depthArray != 0 {
		c.dev.DeleteTexture(c.depthArray)
		c.depthArray = 0
	}
}

func (c *CascadedShading) Delete() {
	c.DeleteBuffer()
	for _, p := range []*gfx.Program{&c.prog, &c.debugProg} {
		if *p != 0 {
			c.dev.DeleteProgram(*p)
			*p = 0
		}
	}
}

var _ Strategy = (*CascadedShading)(nil)
