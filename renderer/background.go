package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/internal/gfx"
	"rendering-engine/scene"
)

// backgroundVertices is the ground plane: two triangles at y=-1 spanning
// ±125 with texcoords repeating 25 times. Layout: position, normal, uv.
var backgroundVertices = []float32{
	125, -1, 125, 0, 1, 0, 25, 0,
	-125, -1, 125, 0, 1, 0, 0, 0,
	-125, -1, -125, 0, 1, 0, 0, 25,

	125, -1, 125, 0, 1, 0, 25, 0,
	-125, -1, -125, 0, 1, 0, 0, 25,
	125, -1, -125, 0, 1, 0, 25, 25,
}

var backgroundLayout = []int32{3, 3, 2}

const backgroundVertexCount = 6

// backgroundMaterial is untextured and has no highlight.
var backgroundMaterial = scene.PhongMaterial{
	Name:      "background",
	Ambient:   mgl32.Vec3{0.1, 0.1, 0.1},
	Diffuse:   mgl32.Vec3{0.5, 0.5, 0.5},
	Specular:  mgl32.Vec3{0, 0, 0},
	Shininess: 32,
}

// background is the shared ground plane. Strategies draw it read-only; the
// renderer creates and deletes it.
type background struct {
	va gfx.VertexArray
}

func newBackground(dev gfx.Device) (*background, error) {
	va, err := dev.NewVertexArray(backgroundVertices, backgroundLayout, nil)
	if err != nil {
		return nil, err
	}
	return &background{va: va}, nil
}

func (b *background) draw(dev gfx.Device) {
	dev.DrawArrays(b.va, gfx.Triangles, 0, backgroundVertexCount)
}

// drawLit uploads the background material with textures off and draws the
// plane filled.
func (b *background) drawLit(dev gfx.Device, prog gfx.Program) {
	dev.SetPolygonMode(gfx.Fill)
	dev.UseProgram(prog)
	dev.SetMat4(prog, "model", mgl32.Ident4())
	mat := backgroundMaterial
	setMaterial(dev, prog, &mat)
	setTextureFlags(dev, prog, textureFlags{})
	b.draw(dev)
}

func (b *background) delete(dev gfx.Device) {
	if b == nil || b.va == 0 {
		return
	}
	dev.DeleteVertexArray(b.va)
	b.va = 0
}

// screenQuad is a full-screen triangle strip: position, texcoord.
var screenQuad = []float32{
	-1, 1, 0, 0, 1,
	-1, -1, 0, 0, 0,
	1, 1, 0, 1, 1,
	1, -1, 0, 1, 0,
}

const screenQuadVertexCount = 4

func newScreenQuad(dev gfx.Device) (gfx.VertexArray, error) {
	return dev.NewVertexArray(screenQuad, []int32{3, 2}, nil)
}

// drawScreenQuad fills the current viewport with the bound program.
func drawScreenQuad(dev gfx.Device, quad gfx.VertexArray) {
	dev.SetPolygonMode(gfx.Fill)
	dev.DrawArrays(quad, gfx.TriangleStrip, 0, screenQuadVertexCount)
}
