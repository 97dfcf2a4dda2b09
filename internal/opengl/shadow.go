package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"rendering-engine/internal/gfx"
)

// Depth targets sample with NEAREST filtering and clamp to a white border so
// lookups outside the light frustum read as fully lit.
var depthBorder = [4]float32{1, 1, 1, 1}

func (d *Device) NewDepthTexture(width, height int32) (gfx.Texture, error) {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, width, height, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	depthParams(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gfx.Texture(id), nil
}

// NewDepthTextureArray allocates one depth layer per cascade.
func (d *Device) NewDepthTextureArray(width, height, layers int32) (gfx.Texture, error) {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, id)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.DEPTH_COMPONENT32F, width, height, layers, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	depthParams(gl.TEXTURE_2D_ARRAY)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)
	return gfx.Texture(id), nil
}

func depthParams(target uint32) {
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	gl.TexParameterfv(target, gl.TEXTURE_BORDER_COLOR, &depthBorder[0])
}
