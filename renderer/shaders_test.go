package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendering-engine/internal/gfx/gfxtest"
	"rendering-engine/scene"
)

func TestBuiltinProgramsComplete(t *testing.T) {
	for _, name := range programOrder {
		src, err := programSource("", name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, src.Vertex, name)
		assert.NotEmpty(t, src.Fragment, name)
	}
	src, _ := programSource("", progNormal)
	assert.NotEmpty(t, src.Geometry)

	assert.Contains(t, builtinPrograms[progCSM].Fragment, fmt.Sprintf("#define MAX_CASCADES %d\n", maxCascades))

	_, err := programSource("", "bloom")
	assert.Error(t, err)
}

func TestProgramSourceOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "phong.frag"), []byte("// custom"), 0o644))

	src, err := programSource(dir, progPhong)
	require.NoError(t, err)
	assert.Equal(t, "// custom", src.Fragment)
	assert.Equal(t, builtinPrograms[progPhong].Vertex, src.Vertex)
}

func TestBindMeshTexturesUnits(t *testing.T) {
	dev := gfxtest.NewDevice()
	prog, err := dev.NewProgram(progPhong, builtinPrograms[progPhong])
	require.NoError(t, err)

	m := scene.CreateCube(1)
	m.Textures = []*scene.Texture{
		scene.NewSolidTexture("a", scene.TextureDiffuse, 255, 0, 0, 255),
		scene.NewSolidTexture("b", scene.TextureNormal, 128, 128, 255, 255),
	}
	require.NoError(t, m.Upload(dev))

	flags := bindMeshTextures(dev, prog, m, false)
	assert.True(t, flags.diffuse)
	assert.False(t, flags.normal, "normal maps are off")

	unit, ok := dev.Uniform(progPhong, "texture_diffuse1")
	require.True(t, ok)
	assert.Equal(t, int32(1), unit)
	unit, _ = dev.Uniform(progPhong, "texture_normal1")
	assert.Equal(t, int32(2), unit)
	assert.Equal(t, m.Textures[0].Handle, dev.Bound[1])

	assert.True(t, bindMeshTextures(dev, prog, m, true).normal)
}
