package renderer

import (
	"errors"
	"fmt"

	"rendering-engine/internal/gfx"
)

// GBuffer channels in attachment order.
const (
	ChannelPosition = iota
	ChannelDiffuse
	ChannelNormal
	ChannelTexCoord
	channelCount
)

var channelFormats = [channelCount]gfx.TargetFormat{
	ChannelPosition: gfx.RGBA16F,
	ChannelDiffuse:  gfx.RGBA8,
	ChannelNormal:   gfx.RGBA16F,
	ChannelTexCoord: gfx.RGBA16F,
}

// GBuffer is the geometry buffer of one deferred frame: four color
// targets and a depth texture sized to the viewport.
type GBuffer struct {
	dev    gfx.Device
	fbo    gfx.Framebuffer
	colors [channelCount]gfx.Texture
	depth  gfx.Texture
	size   gfx.Rect
}

// NewGBuffer allocates the targets. On failure everything allocated so far
// is released.
func NewGBuffer(dev gfx.Device, width, height int32) (*GBuffer, error) {
	g := &GBuffer{dev: dev, size: gfx.Rect{Width: width, Height: height}}
	g.fbo = dev.NewFramebuffer()
	for i, f := range channelFormats {
		t, err := dev.NewColorTarget(width, height, f)
		if err != nil {
			g.Delete()
			return nil, fmt.Errorf("gbuffer channel %d: %w", i, err)
		}
		g.colors[i] = t
		dev.AttachColor(g.fbo, i, t)
	}
	depth, err := dev.NewDepthTexture(width, height)
	if err != nil {
		g.Delete()
		return nil, fmt.Errorf("gbuffer depth: %w", err)
	}
	g.depth = depth
	dev.AttachDepth(g.fbo, depth, -1)
	dev.DrawBuffers(g.fbo, channelCount)
	if err := dev.CheckFramebuffer(g.fbo); err != nil {
		g.Delete()
		return nil, fmt.Errorf("gbuffer: %w", err)
	}
	dev.BindFramebuffer(gfx.DefaultFramebuffer)
	return g, nil
}

// BindForWriting makes the gbuffer the draw target and clears it.
func (g *GBuffer) BindForWriting() {
	g.dev.BindFramebuffer(g.fbo)
	g.dev.Viewport(g.size)
	g.dev.Clear(true, true)
}

// Show draws each region's channel through prog on quad, one viewport per
// region, into the bound framebuffer. The window framebuffer may be
// multisampled, which rules out glBlitFramebuffer as a copy.
func (g *GBuffer) Show(prog gfx.Program, quad gfx.VertexArray, regions []BlitRegion) {
	g.dev.UseProgram(prog)
	g.dev.SetInt(prog, "channel", 0)
	for _, r := range regions {
		g.dev.Viewport(r.Dest)
		g.dev.BindTexture(0, gfx.Texture2D, g.colors[r.Channel])
		drawScreenQuad(g.dev, quad)
	}
}

// Delete releases every target. Safe to call twice.
func (g *GBuffer) Delete() {
	if g.fbo != 0 {
		g.dev.DeleteFramebuffer(g.fbo)
		g.fbo = 0
	}
	for i, t := range g.colors {
		if t != 0 {
			g.dev.DeleteTexture(t)
			g.colors[i] = 0
		}
	}
	if g.depth != 0 {
		g.dev.DeleteTexture(g.depth)
		g.depth = 0
	}
}

// BlitRegion is one channel shown in a destination rectangle.
type BlitRegion struct {
	Channel int
	Dest    gfx.Rect
}

var errEmptyViewport = errors.New("empty viewport")

// BlitLayout returns where each displayed channel lands on a screen of the
// given size. ShowAll tiles the four channels: position bottom-left, diffuse
// top-left, normal top-right, texcoord bottom-right. Odd sizes give the extra
// pixel to the right and top tiles so the tiles never overlap.
func BlitLayout(display GBufferDisplay, screen gfx.Rect) ([]BlitRegion, error) {
	if screen.Width <= 0 || screen.Height <= 0 {
		return nil, errEmptyViewport
	}
	switch display {
	case DisplayPosition:
		return []BlitRegion{{ChannelPosition, screen}}, nil
	case DisplayDiffuse:
		return []BlitRegion{{ChannelDiffuse, screen}}, nil
	case DisplayNormal:
		return []BlitRegion{{ChannelNormal, screen}}, nil
	case DisplayTexCoord:
		return []BlitRegion{{ChannelTexCoord, screen}}, nil
	case DisplayShowAll:
		lw, lh := screen.Width/2, screen.Height/2
		rw, rh := screen.Width-lw, screen.Height-lh
		x, y := screen.X, screen.Y
		return []BlitRegion{
			{ChannelPosition, gfx.Rect{X: x, Y: y, Width: lw, Height: lh}},
			{ChannelDiffuse, gfx.Rect{X: x, Y: y + lh, Width: lw, Height: rh}},
			{ChannelNormal, gfx.Rect{X: x + lw, Y: y + lh, Width: rw, Height: rh}},
			{ChannelTexCoord, gfx.Rect{X: x + lw, Y: y, Width: rw, Height: lh}},
		}, nil
	default:
		return nil, fmt.Errorf("unknown gbuffer display %d", display)
	}
}
