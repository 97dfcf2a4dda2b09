package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"rendering-engine/internal/gfx"
)

// NewTexture2D uploads RGBA8 pixels with mipmaps and repeat wrapping.
func (d *Device) NewTexture2D(width, height int32, rgba []byte) (gfx.Texture, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if len(rgba) != int(width*height*4) {
		return 0, fmt.Errorf("texture has %d bytes of pixel data, want %d", len(rgba), width*height*4)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gfx.Texture(id), nil
}

// NewColorTarget allocates an unfiltered render target for offscreen passes.
func (d *Device) NewColorTarget(width, height int32, format gfx.TargetFormat) (gfx.Texture, error) {
	internal, typ := int32(gl.RGBA8), uint32(gl.UNSIGNED_BYTE)
	if format == gfx.RGBA16F {
		internal, typ = gl.RGBA16F, gl.FLOAT
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, width, height, 0, gl.RGBA, typ, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gfx.Texture(id), nil
}

func (d *Device) DeleteTexture(t gfx.Texture) {
	if t == 0 {
		return
	}
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (d *Device) BindTexture(unit int32, target gfx.TextureTarget, t gfx.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	if target == gfx.Texture2DArray {
		gl.BindTexture(gl.TEXTURE_2D_ARRAY, uint32(t))
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}
