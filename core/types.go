package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorBlack  = Color{0, 0, 0, 1}
	ColorYellow = Color{1, 1, 0, 1}
)

// Vec3 drops alpha.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// MaxBoneInfluence is the number of bone slots carried per vertex.
const MaxBoneInfluence = 4

// Vertex is the interleaved layout uploaded for every mesh.
// Bone slots are filled by skinned glTF assets and passed through to the GPU
// untouched; no shader in this engine reads them yet.
type Vertex struct {
	Position    mgl32.Vec3
	Normal      mgl32.Vec3
	UV          mgl32.Vec2
	Tangent     mgl32.Vec3
	Bitangent   mgl32.Vec3
	BoneIDs     [MaxBoneInfluence]float32
	BoneWeights [MaxBoneInfluence]float32
}

// VertexLayout lists the component count of each attribute location of Vertex
// in declaration order: position, normal, uv, tangent, bitangent, bone ids, bone weights.
var VertexLayout = []int32{3, 3, 2, 3, 3, MaxBoneInfluence, MaxBoneInfluence}

// FlattenVertices packs vertices into the float stream described by VertexLayout.
func FlattenVertices(vertices []Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*(14+2*MaxBoneInfluence))
	for _, v := range vertices {
		out = append(out, v.Position[:]...)
		out = append(out, v.Normal[:]...)
		out = append(out, v.UV[:]...)
		out = append(out, v.Tangent[:]...)
		out = append(out, v.Bitangent[:]...)
		out = append(out, v.BoneIDs[:]...)
		out = append(out, v.BoneWeights[:]...)
	}
	return out
}

type WindowConfig struct {
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Title      string `yaml:"title" toml:"title"`
	Resizable  bool   `yaml:"resizable" toml:"resizable"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	// Samples is the MSAA sample count of the default framebuffer (0 disables).
	Samples int `yaml:"samples" toml:"samples"`
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:      1920,
		Height:     1080,
		Title:      "Rendering Engine",
		Resizable:  true,
		VSync:      true,
		Fullscreen: false,
		Samples:    4,
	}
}
