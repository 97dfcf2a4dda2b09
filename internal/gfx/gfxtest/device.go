// Package gfxtest provides a gfx.Device that records calls instead of issuing them.
package gfxtest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/internal/gfx"
)

// Draw is one recorded draw call.
type Draw struct {
	Program     string
	VertexArray gfx.VertexArray
	Mode        gfx.Primitive
	Count       int32
	Framebuffer gfx.Framebuffer
	Polygon     gfx.PolygonMode
	Viewport    gfx.Rect
	// Unit0 is the texture bound to unit 0 at draw time.
	Unit0       gfx.Texture
}

// Attachment is one recorded AttachDepth call.
type Attachment struct {
	Framebuffer gfx.Framebuffer
	Texture     gfx.Texture
	Layer       int32
}

// TextureInfo describes a live texture.
type TextureInfo struct {
	Width, Height, Layers int32
	Depth                 bool
}

// Device is a recording gfx.Device. It tracks live objects so tests can assert
// allocation balance, and collects misuse (double deletes, unknown handles) in
// Failures.
type Device struct {
	next uint32

	Programs     map[gfx.Program]string
	VertexArrays map[gfx.VertexArray]int
	Textures     map[gfx.Texture]TextureInfo
	Framebuffers map[gfx.Framebuffer]bool

	// Created counts every allocation ever made per kind.
	Created map[string]int

	Uniforms map[string]map[string]any

	Draws       []Draw
	Attachments []Attachment
	Viewports   []gfx.Rect
	Bound       map[int32]gfx.Texture
	PointSize   float32
	Cull        gfx.Face
	Polygon     gfx.PolygonMode
	Failures    []string

	// FailPrograms makes NewProgram fail for the named programs.
	FailPrograms map[string]bool
	// Pending is returned (and cleared) by the next Errors call.
	Pending []error

	current  gfx.Program
	fb       gfx.Framebuffer
	viewport gfx.Rect
}

func NewDevice() *Device {
	return &Device{
		Programs:     map[gfx.Program]string{},
		VertexArrays: map[gfx.VertexArray]int{},
		Textures:     map[gfx.Texture]TextureInfo{},
		Framebuffers: map[gfx.Framebuffer]bool{},
		Created:      map[string]int{},
		Uniforms:     map[string]map[string]any{},
		Bound:        map[int32]gfx.Texture{},
		FailPrograms: map[string]bool{},
	}
}

func (d *Device) id(kind string) uint32 {
	d.next++
	d.Created[kind]++
	return d.next
}

func (d *Device) fail(format string, args ...any) {
	d.Failures = append(d.Failures, fmt.Sprintf(format, args...))
}

// Uniform returns the last value set for name on the named program.
func (d *Device) Uniform(program, name string) (any, bool) {
	v, ok := d.Uniforms[program][name]
	return v, ok
}

// DepthTextures counts live depth textures and arrays.
func (d *Device) DepthTextures() int {
	n := 0
	for _, t := range d.Textures {
		if t.Depth {
			n++
		}
	}
	return n
}

// DrawsFor returns the draws issued with the named program.
func (d *Device) DrawsFor(program string) []Draw {
	var out []Draw
	for _, dr := range d.Draws {
		if dr.Program == program {
			out = append(out, dr)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps live objects.
func (d *Device) Reset() {
	d.Draws = nil
	d.Attachments = nil
	d.Viewports = nil
	d.Created = map[string]int{}
	d.Uniforms = map[string]map[string]any{}
}

func (d *Device) NewProgram(name string, src gfx.ProgramSource) (gfx.Program, error) {
	if d.FailPrograms[name] {
		return 0, fmt.Errorf("%s: link failed", name)
	}
	if src.Vertex == "" || src.Fragment == "" {
		return 0, fmt.Errorf("%s: missing stage", name)
	}
	p := gfx.Program(d.id("program"))
	d.Programs[p] = name
	return p, nil
}

func (d *Device) DeleteProgram(p gfx.Program) {
	if _, ok := d.Programs[p]; !ok {
		d.fail("delete unknown program %d", p)
		return
	}
	delete(d.Programs, p)
}

func (d *Device) UseProgram(p gfx.Program) { d.current = p }

func (d *Device) set(p gfx.Program, name string, v any) {
	prog, ok := d.Programs[p]
	if !ok {
		d.fail("uniform %q on unknown program %d", name, p)
		return
	}
	if d.Uniforms[prog] == nil {
		d.Uniforms[prog] = map[string]any{}
	}
	d.Uniforms[prog][name] = v
}

func (d *Device) SetInt(p gfx.Program, name string, v int32) { d.set(p, name, v) }
func (d *Device) SetBool(p gfx.Program, name string, v bool) { d.set(p, name, v) }
func (d *Device) SetFloat(p gfx.Program, name string, v float32) { d.set(p, name, v) }
func (d *Device) SetVec3(p gfx.Program, name string, v mgl32.Vec3) { d.set(p, name, v) }
func (d *Device) SetMat4(p gfx.Program, name string, m mgl32.Mat4) { d.set(p, name, m) }

func (d *Device) NewVertexArray(vertices []float32, layout []int32, indices []uint32) (gfx.VertexArray, error) {
	stride := int32(0)
	for _, n := range layout {
		stride += n
	}
	if stride == 0 || len(vertices)%int(stride) != 0 {
		return 0, fmt.Errorf("vertex data does not match layout")
	}
	va := gfx.VertexArray(d.id("vertexarray"))
	d.VertexArrays[va] = len(vertices) / int(stride)
	return va, nil
}

func (d *Device) DeleteVertexArray(va gfx.VertexArray) {
	if _, ok := d.VertexArrays[va]; !ok {
		d.fail("delete unknown vertex array %d", va)
		return
	}
	delete(d.VertexArrays, va)
}

func (d *Device) draw(va gfx.VertexArray, mode gfx.Primitive, count int32) {
	if _, ok := d.VertexArrays[va]; !ok {
		d.fail("draw with unknown vertex array %d", va)
	}
	d.Draws = append(d.Draws, Draw{
		Program:     d.Programs[d.current],
		VertexArray: va,
		Mode:        mode,
		Count:       count,
		Framebuffer: d.fb,
		Polygon:     d.Polygon,
		Viewport:    d.viewport,
		Unit0:       d.Bound[0],
	})
}

func (d *Device) DrawElements(va gfx.VertexArray, mode gfx.Primitive, count int32) {
	d.draw(va, mode, count)
}

func (d *Device) DrawArrays(va gfx.VertexArray, mode gfx.Primitive, first, count int32) {
	d.draw(va, mode, count)
}

func (d *Device) newTexture(kind string, info TextureInfo) gfx.Texture {
	t := gfx.Texture(d.id(kind))
	d.Textures[t] = info
	return t
}

func (d *Device) NewTexture2D(width, height int32, rgba []byte) (gfx.Texture, error) {
	if int(width*height*4) != len(rgba) {
		return 0, fmt.Errorf("pixel data is %d bytes, want %d", len(rgba), width*height*4)
	}
	return d.newTexture("texture", TextureInfo{Width: width, Height: height, Layers: 1}), nil
}

func (d *Device) NewDepthTexture(width, height int32) (gfx.Texture, error) {
	return d.newTexture("depth", TextureInfo{Width: width, Height: height, Layers: 1, Depth: true}), nil
}

func (d *Device) NewDepthTextureArray(width, height, layers int32) (gfx.Texture, error) {
	return d.newTexture("deptharray", TextureInfo{Width: width, Height: height, Layers: layers, Depth: true}), nil
}

func (d *Device) NewColorTarget(width, height int32, format gfx.TargetFormat) (gfx.Texture, error) {
	return d.newTexture("color", TextureInfo{Width: width, Height: height, Layers: 1}), nil
}

func (d *Device) DeleteTexture(t gfx.Texture) {
	if _, ok := d.Textures[t]; !ok {
		d.fail("delete unknown texture %d", t)
		return
	}
	delete(d.Textures, t)
}

func (d *Device) BindTexture(unit int32, target gfx.TextureTarget, t gfx.Texture) {
	d.Bound[unit] = t
}

func (d *Device) NewFramebuffer() gfx.Framebuffer {
	fb := gfx.Framebuffer(d.id("framebuffer"))
	d.Framebuffers[fb] = true
	return fb
}

func (d *Device) AttachDepth(fb gfx.Framebuffer, t gfx.Texture, layer int32) {
	if _, ok := d.Textures[t]; !ok {
		d.fail("attach unknown texture %d", t)
	}
	d.fb = fb
	d.Attachments = append(d.Attachments, Attachment{Framebuffer: fb, Texture: t, Layer: layer})
}

func (d *Device) AttachColor(fb gfx.Framebuffer, index int, t gfx.Texture) {
	if _, ok := d.Textures[t]; !ok {
		d.fail("attach unknown texture %d", t)
	}
	d.fb = fb
}

func (d *Device) DrawBuffers(fb gfx.Framebuffer, count int) {}

func (d *Device) CheckFramebuffer(fb gfx.Framebuffer) error {
	if !d.Framebuffers[fb] {
		return fmt.Errorf("framebuffer %d incomplete", fb)
	}
	return nil
}

func (d *Device) DeleteFramebuffer(fb gfx.Framebuffer) {
	if !d.Framebuffers[fb] {
		d.fail("delete unknown framebuffer %d", fb)
		return
	}
	delete(d.Framebuffers, fb)
}

func (d *Device) BindFramebuffer(fb gfx.Framebuffer) {
	if fb != gfx.DefaultFramebuffer && !d.Framebuffers[fb] {
		d.fail("bind unknown framebuffer %d", fb)
	}
	d.fb = fb
}

func (d *Device) Viewport(r gfx.Rect) {
	d.viewport = r
	d.Viewports = append(d.Viewports, r)
}
func (d *Device) SetClearColor(r, g, b, a float32) {}
func (d *Device) Clear(color, depth bool) {}
func (d *Device) SetPolygonMode(m gfx.PolygonMode) { d.Polygon = m }
func (d *Device) SetCullFace(f gfx.Face) { d.Cull = f }
func (d *Device) SetPointSize(size float32) { d.PointSize = size }

func (d *Device) Errors() []error {
	errs := d.Pending
	d.Pending = nil
	return errs
}

// Framebuffer reports the currently bound framebuffer.
func (d *Device) Framebuffer() gfx.Framebuffer { return d.fb }

var _ gfx.Device = (*Device)(nil)
