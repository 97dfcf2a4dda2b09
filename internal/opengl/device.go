// Package opengl implements gfx.Device on top of OpenGL 4.1 core.
package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/internal/gfx"
)

// Device issues gfx calls against the OpenGL context current on the calling
// thread. It is not safe for concurrent use.
type Device struct {
	// uniform locations per program, resolved on first use
	locations map[gfx.Program]map[string]int32
	programs  map[gfx.Program]string

	buffers map[gfx.VertexArray]vertexBuffers
}

// NewDevice loads the GL function pointers.
// Must be called after the GLFW window context is made current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.MULTISAMPLE)

	return &Device{
		locations: make(map[gfx.Program]map[string]int32),
		programs:  make(map[gfx.Program]string),
		buffers:   make(map[gfx.VertexArray]vertexBuffers),
	}, nil
}

// Version returns the GL_VERSION string.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Renderer returns the GL_VENDOR and GL_RENDERER strings joined.
func (d *Device) Renderer() string {
	return gl.GoStr(gl.GetString(gl.VENDOR)) + " " + gl.GoStr(gl.GetString(gl.RENDERER))
}

// ── Programs ──────────────────────────────────────────────────────────────────

func (d *Device) NewProgram(name string, src gfx.ProgramSource) (gfx.Program, error) {
	stages := []struct {
		src  string
		kind uint32
		tag  string
	}{
		{src.Vertex, gl.VERTEX_SHADER, "vertex"},
		{src.Geometry, gl.GEOMETRY_SHADER, "geometry"},
		{src.Fragment, gl.FRAGMENT_SHADER, "fragment"},
	}

	prog := gl.CreateProgram()
	var shaders []uint32
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, st := range stages {
		if st.src == "" {
			if st.kind == gl.GEOMETRY_SHADER {
				continue
			}
			gl.DeleteProgram(prog)
			return 0, fmt.Errorf("%s: missing %s stage", name, st.tag)
		}
		s, err := compileShader(st.src, st.kind)
		if err != nil {
			gl.DeleteProgram(prog)
			return 0, fmt.Errorf("%s %s: %w", name, st.tag, err)
		}
		shaders = append(shaders, s)
		gl.AttachShader(prog, s)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("%s: link failed: %v", name, strings.TrimRight(log, "\x00"))
	}

	p := gfx.Program(prog)
	d.programs[p] = name
	d.locations[p] = make(map[string]int32)
	return p, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *Device) DeleteProgram(p gfx.Program) {
	if p == 0 {
		return
	}
	gl.DeleteProgram(uint32(p))
	delete(d.programs, p)
	delete(d.locations, p)
}

func (d *Device) UseProgram(p gfx.Program) {
	gl.UseProgram(uint32(p))
}

// location resolves and caches a uniform location. Unknown names resolve to
// -1, which GL ignores on upload.
func (d *Device) location(p gfx.Program, name string) int32 {
	cache := d.locations[p]
	if cache == nil {
		cache = make(map[string]int32)
		d.locations[p] = cache
	}
	if loc, ok := cache[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
	cache[name] = loc
	return loc
}

// Uniform setters bind p first so callers need not track the active program.

func (d *Device) SetInt(p gfx.Program, name string, v int32) {
	gl.UseProgram(uint32(p))
	gl.Uniform1i(d.location(p, name), v)
}

func (d *Device) SetBool(p gfx.Program, name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	d.SetInt(p, name, i)
}

func (d *Device) SetFloat(p gfx.Program, name string, v float32) {
	gl.UseProgram(uint32(p))
	gl.Uniform1f(d.location(p, name), v)
}

func (d *Device) SetVec3(p gfx.Program, name string, v mgl32.Vec3) {
	gl.UseProgram(uint32(p))
	gl.Uniform3f(d.location(p, name), v[0], v[1], v[2])
}

func (d *Device) SetMat4(p gfx.Program, name string, m mgl32.Mat4) {
	gl.UseProgram(uint32(p))
	gl.UniformMatrix4fv(d.location(p, name), 1, false, &m[0])
}

// ── Render state ──────────────────────────────────────────────────────────────

func (d *Device) Viewport(r gfx.Rect) {
	gl.Viewport(r.X, r.Y, r.Width, r.Height)
}

func (d *Device) SetClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear(color, depth bool) {
	var mask uint32
	if color {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

func (d *Device) SetPolygonMode(m gfx.PolygonMode) {
	if m == gfx.Line {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

func (d *Device) SetCullFace(f gfx.Face) {
	if f == gfx.FrontFace {
		gl.CullFace(gl.FRONT)
		return
	}
	gl.CullFace(gl.BACK)
}

func (d *Device) SetPointSize(size float32) {
	gl.PointSize(size)
}

var _ gfx.Device = (*Device)(nil)
