package renderer

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/internal/gfx"
	"rendering-engine/scene"
)

// shadowUnit is reserved for the shadow map or cascade array; mesh textures
// start at the unit after it.
const shadowUnit = 0

// meshSamplers are the sampler2D uniforms the lit programs read. They are
// parked on units past shadowUnit at construction, because a sampler2D left
// on unit 0 would clash with the sampler2DArray of the csm program.
var meshSamplers = []string{"texture_diffuse1", "texture_specular1", "texture_normal1"}

// initSamplers points every mesh sampler of prog at its own unit.
func initSamplers(dev gfx.Device, prog gfx.Program) {
	for i, name := range meshSamplers {
		dev.SetInt(prog, name, int32(shadowUnit+1+i))
	}
}

// SamplerNames returns the sampler uniform of each texture in order,
// numbered per kind from 1: texture_diffuse1, texture_diffuse2, texture_specular1...
func SamplerNames(textures []*scene.Texture) []string {
	counts := map[scene.TextureKind]int{}
	names := make([]string, len(textures))
	for i, t := range textures {
		counts[t.Kind]++
		names[i] = t.Kind.String() + strconv.Itoa(counts[t.Kind])
	}
	return names
}

// textureFlags records which texture roles a mesh supplied.
type textureFlags struct {
	diffuse, specular, normal bool
}

// bindMeshTextures binds mesh textures to units 1..n and points their
// samplers there. Normal maps only count when useNormalMap is set.
func bindMeshTextures(dev gfx.Device, prog gfx.Program, m *scene.Mesh, useNormalMap bool) textureFlags {
	for i, name := range SamplerNames(m.Textures) {
		unit := int32(shadowUnit + 1 + i)
		dev.SetInt(prog, name, unit)
		dev.BindTexture(unit, gfx.Texture2D, m.Textures[i].Handle)
	}
	return textureFlags{
		diffuse:  m.HasTexture(scene.TextureDiffuse),
		specular: m.HasTexture(scene.TextureSpecular),
		normal:   useNormalMap && m.HasTexture(scene.TextureNormal),
	}
}

func setTextureFlags(dev gfx.Device, prog gfx.Program, f textureFlags) {
	dev.SetBool(prog, "use_texture_kd", f.diffuse)
	dev.SetBool(prog, "use_texture_ks", f.specular)
	dev.SetBool(prog, "use_texture_normal", f.normal)
}

func setMaterial(dev gfx.Device, prog gfx.Program, m *scene.PhongMaterial) {
	dev.SetVec3(prog, "material.ambient", m.Ambient)
	dev.SetVec3(prog, "material.diffuse", m.Diffuse)
	dev.SetVec3(prog, "material.specular", m.Specular)
	dev.SetFloat(prog, "material.shininess", m.Shininess)
}

// setCamera uploads the matrices every camera-aware program shares.
func setCamera(dev gfx.Device, prog gfx.Program, cam *scene.Camera) {
	dev.SetMat4(prog, "projection", cam.ProjectionMatrix())
	dev.SetMat4(prog, "view", cam.View())
}

// setLight uploads the directional light. Ambient is a fifth of the light
// colour; diffuse and specular use it unscaled.
func setLight(dev gfx.Device, prog gfx.Program, l *scene.DirectionalLight) {
	c := l.Color.Vec3()
	dev.SetVec3(prog, "dLight.direction", l.Direction)
	dev.SetVec3(prog, "dLight.ambient", c.Mul(0.2))
	dev.SetVec3(prog, "dLight.diffuse", c)
	dev.SetVec3(prog, "dLight.specular", c)
	dev.SetFloat(prog, "dLight.intensity", l.Intensity)
}

// lightUp picks an up vector that is not parallel to dir.
func lightUp(dir mgl32.Vec3) mgl32.Vec3 {
	up := mgl32.Vec3{0, 1, 0}
	if d := dir.Normalize(); d.Dot(up) > 0.999 || d.Dot(up) < -0.999 {
		return mgl32.Vec3{0, 0, 1}
	}
	return up
}
