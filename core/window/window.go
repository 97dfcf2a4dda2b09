// Package window wraps the GLFW window and its OpenGL context.
package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"rendering-engine/core"
)

func init() {
	// GLFW and the GL context must stay on the main OS thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	resizeCb ResizeCallback
}

// New opens a window with a current OpenGL 4.1 core context.
func New(config core.WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	if config.Samples > 0 {
		glfw.WindowHint(glfw.Samples, config.Samples)
	}

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Title:  config.Title,
	}
	// Framebuffer size differs from window size on HiDPI displays; the
	// renderer works in framebuffer pixels.
	window.Width, window.Height = handle.GetFramebufferSize()

	handle.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		if window.resizeCb != nil {
			window.resizeCb(width, height)
		}
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// Time returns seconds since GLFW was initialised.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) IsMouseButtonPressed(button int) bool {
	return w.Handle.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

func (w *Window) GetCursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	w.Handle.SetScrollCallback(func(win *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

// KeyCallback receives key presses only; repeats and releases are dropped.
type KeyCallback func(key int, shift bool)

func (w *Window) SetKeyCallback(cb KeyCallback) {
	w.Handle.SetKeyCallback(func(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		cb(int(key), mods&glfw.ModShift != 0)
	})
}

// ResizeCallback is invoked with the new framebuffer size in pixels.
type ResizeCallback func(width, height int)

func (w *Window) SetResizeCallback(cb ResizeCallback) {
	w.resizeCb = cb
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const (
	MouseButtonLeft  = int(glfw.MouseButtonLeft)
	MouseButtonRight = int(glfw.MouseButtonRight)
)

const (
	Key0         = int(glfw.Key0)
	Key1         = int(glfw.Key1)
	Key2         = int(glfw.Key2)
	Key3         = int(glfw.Key3)
	Key4         = int(glfw.Key4)
	Key5         = int(glfw.Key5)
	KeyA         = int(glfw.KeyA)
	KeyB         = int(glfw.KeyB)
	KeyC         = int(glfw.KeyC)
	KeyD         = int(glfw.KeyD)
	KeyE         = int(glfw.KeyE)
	KeyF         = int(glfw.KeyF)
	KeyH         = int(glfw.KeyH)
	KeyL         = int(glfw.KeyL)
	KeyM         = int(glfw.KeyM)
	KeyN         = int(glfw.KeyN)
	KeyQ         = int(glfw.KeyQ)
	KeyR         = int(glfw.KeyR)
	KeyS         = int(glfw.KeyS)
	KeyV         = int(glfw.KeyV)
	KeyW         = int(glfw.KeyW)
	KeyEscape    = int(glfw.KeyEscape)
	KeyTab       = int(glfw.KeyTab)
	KeyRight     = int(glfw.KeyRight)
	KeyLeft      = int(glfw.KeyLeft)
	KeyDown      = int(glfw.KeyDown)
	KeyUp        = int(glfw.KeyUp)
	KeyPageUp    = int(glfw.KeyPageUp)
	KeyPageDown  = int(glfw.KeyPageDown)
	KeyF1        = int(glfw.KeyF1)
	KeyF2        = int(glfw.KeyF2)
	KeyF3        = int(glfw.KeyF3)
	KeyLeftShift = int(glfw.KeyLeftShift)
)
