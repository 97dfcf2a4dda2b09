package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/core"
	"rendering-engine/internal/gfx"
	"rendering-engine/scene"
)

const lightMarkerSize = 5

var lightMarkerColor = core.ColorYellow

// drawNormals renders the vertex normals of m as short line segments.
func (r *Renderer) drawNormals(m *scene.Mesh) {
	if !m.Uploaded() {
		return
	}
	r.dev.UseProgram(r.normalProg)
	r.dev.SetMat4(r.normalProg, "model", m.Model())
	r.dev.DrawElements(m.VertexArray, gfx.Triangles, m.IndexCount())
}

// drawLightMarker draws the light position as a single point. The vertex
// array lives for this call only.
func (r *Renderer) drawLightMarker(l *scene.DirectionalLight) {
	p := l.Position
	va, err := r.dev.NewVertexArray([]float32{p.X(), p.Y(), p.Z()}, []int32{3}, nil)
	if err != nil {
		r.log.Warn("light marker skipped", "err", err)
		return
	}
	defer r.dev.DeleteVertexArray(va)

	r.dev.UseProgram(r.flatProg)
	r.dev.SetMat4(r.flatProg, "model", mgl32.Ident4())
	r.dev.SetVec3(r.flatProg, "material.color", lightMarkerColor.Vec3())
	r.dev.SetPointSize(lightMarkerSize)
	r.dev.DrawArrays(va, gfx.Points, 0, 1)
}
