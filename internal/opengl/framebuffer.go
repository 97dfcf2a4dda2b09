package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"rendering-engine/internal/gfx"
)

func (d *Device) NewFramebuffer() gfx.Framebuffer {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return gfx.Framebuffer(fbo)
}

func (d *Device) AttachDepth(fb gfx.Framebuffer, t gfx.Texture, layer int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	if layer < 0 {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, uint32(t), 0)
		return
	}
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, uint32(t), 0, layer)
}

func (d *Device) AttachColor(fb gfx.Framebuffer, index int, t gfx.Texture) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(index), gl.TEXTURE_2D, uint32(t), 0)
}

func (d *Device) DrawBuffers(fb gfx.Framebuffer, count int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	if count == 0 {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
		return
	}
	attachments := make([]uint32, count)
	for i := range attachments {
		attachments[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(int32(count), &attachments[0])
}

func (d *Device) CheckFramebuffer(fb gfx.Framebuffer) error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	if st := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); st != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer %d incomplete: status=0x%X", fb, st)
	}
	return nil
}

func (d *Device) DeleteFramebuffer(fb gfx.Framebuffer) {
	if fb == 0 {
		return
	}
	fbo := uint32(fb)
	gl.DeleteFramebuffers(1, &fbo)
}

func (d *Device) BindFramebuffer(fb gfx.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}
