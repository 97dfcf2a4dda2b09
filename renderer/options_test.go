package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendering-engine/scene"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.DisplayFacet)
	assert.True(t, o.UseShadow)
	assert.True(t, o.UseCSM)
	assert.True(t, o.UseNormalMap)
	assert.False(t, o.Wire)
	assert.False(t, o.DisplayNormal)
	assert.False(t, o.CSMDebug)
	assert.Equal(t, Forward, o.RenderType)
	assert.Equal(t, ShaderPhong, o.ForwardShader)
	assert.Equal(t, DisplayPosition, o.GBufferDisplay)
}

func TestOptionEnumsText(t *testing.T) {
	var rt RenderType
	require.NoError(t, rt.UnmarshalText([]byte("Deferred")))
	assert.Equal(t, Deferred, rt)

	var fs ForwardShader
	require.NoError(t, fs.UnmarshalText([]byte(" csm ")))
	assert.Equal(t, ShaderCSM, fs)

	var gd GBufferDisplay
	require.NoError(t, gd.UnmarshalText([]byte("all")))
	assert.Equal(t, DisplayShowAll, gd)
	b, err := gd.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "all", string(b))

	assert.Error(t, gd.UnmarshalText([]byte("albedo")))
	assert.Equal(t, DisplayShowAll, gd, "a bad value keeps the previous one")
	assert.Error(t, rt.UnmarshalText([]byte("raytraced")))
	assert.Equal(t, Deferred, rt)
	assert.Error(t, fs.UnmarshalText([]byte("")))
	assert.Equal(t, ShaderCSM, fs)
	assert.Equal(t, "unknown(9)", RenderType(9).String())
}

func TestSamplerNames(t *testing.T) {
	textures := []*scene.Texture{
		{Kind: scene.TextureDiffuse},
		{Kind: scene.TextureSpecular},
		{Kind: scene.TextureDiffuse},
		{Kind: scene.TextureNormal},
		{Kind: scene.TextureHeight},
	}
	assert.Equal(t, []string{
		"texture_diffuse1",
		"texture_specular1",
		"texture_diffuse2",
		"texture_normal1",
		"texture_height1",
	}, SamplerNames(textures))
}
