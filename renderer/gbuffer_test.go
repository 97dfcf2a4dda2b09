package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendering-engine/internal/gfx"
	"rendering-engine/internal/gfx/gfxtest"
)

func TestBlitLayoutSingleChannel(t *testing.T) {
	screen := gfx.Rect{Width: 1280, Height: 720}
	tests := []struct {
		display GBufferDisplay
		channel int
	}{
		{DisplayPosition, ChannelPosition},
		{DisplayDiffuse, ChannelDiffuse},
		{DisplayNormal, ChannelNormal},
		{DisplayTexCoord, ChannelTexCoord},
	}
	for _, tt := range tests {
		regions, err := BlitLayout(tt.display, screen)
		require.NoError(t, err)
		require.Len(t, regions, 1)
		assert.Equal(t, BlitRegion{Channel: tt.channel, Dest: screen}, regions[0])
	}
}

func TestBlitLayoutShowAll(t *testing.T) {
	for _, screen := range []gfx.Rect{{Width: 1280, Height: 720}, {Width: 801, Height: 601}} {
		regions, err := BlitLayout(DisplayShowAll, screen)
		require.NoError(t, err)
		require.Len(t, regions, 4)

		var area int64
		for i, a := range regions {
			area += a.Dest.Area()
			for j, b := range regions {
				if i != j {
					assert.False(t, a.Dest.Overlaps(b.Dest), "%v overlaps %v", a, b)
				}
			}
		}
		assert.Equal(t, screen.Area(), area)

		byChannel := map[int]gfx.Rect{}
		for _, r := range regions {
			byChannel[r.Channel] = r.Dest
		}
		assert.Zero(t, byChannel[ChannelPosition].X)
		assert.Zero(t, byChannel[ChannelPosition].Y)
		assert.Zero(t, byChannel[ChannelDiffuse].X)
		assert.Positive(t, byChannel[ChannelDiffuse].Y)
		assert.Positive(t, byChannel[ChannelNormal].X)
		assert.Positive(t, byChannel[ChannelNormal].Y)
		assert.Positive(t, byChannel[ChannelTexCoord].X)
		assert.Zero(t, byChannel[ChannelTexCoord].Y)
	}
}

func TestBlitLayoutEmptyViewport(t *testing.T) {
	_, err := BlitLayout(DisplayShowAll, gfx.Rect{})
	assert.Error(t, err)
}

func TestGBufferLifecycle(t *testing.T) {
	dev := gfxtest.NewDevice()
	gb, err := NewGBuffer(dev, 640, 480)
	require.NoError(t, err)
	assert.Equal(t, 4, dev.Created["color"])
	assert.Equal(t, 1, dev.Created["depth"])
	assert.Len(t, dev.Framebuffers, 1)

	gb.Delete()
	gb.Delete()
	assert.Empty(t, dev.Textures)
	assert.Empty(t, dev.Framebuffers)
	assert.Empty(t, dev.Failures)
}

func TestGBufferShowDrawsSelectedChannel(t *testing.T) {
	dev := gfxtest.NewDevice()
	prog, err := dev.NewProgram(progGBufView, builtinPrograms[progGBufView])
	require.NoError(t, err)
	quad, err := newScreenQuad(dev)
	require.NoError(t, err)

	gb, err := NewGBuffer(dev, 640, 480)
	require.NoError(t, err)
	defer gb.Delete()

	screen := gfx.Rect{Width: 640, Height: 480}
	regions, err := BlitLayout(DisplayNormal, screen)
	require.NoError(t, err)
	gb.Show(prog, quad, regions)

	require.Len(t, dev.Draws, 1)
	d := dev.Draws[0]
	assert.Equal(t, progGBufView, d.Program)
	assert.Equal(t, gb.colors[ChannelNormal], d.Unit0)
	assert.Equal(t, screen, d.Viewport)
	assert.Equal(t, int32(screenQuadVertexCount), d.Count)

	unit, _ := dev.Uniform(progGBufView, "channel")
	assert.Equal(t, int32(0), unit)
}
