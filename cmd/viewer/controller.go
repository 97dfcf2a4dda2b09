package main

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"rendering-engine/core/window"
	"rendering-engine/scene"
)

const (
	maxPitch    = 1.5
	minDistance = 0.1

	orbitSpeed = 0.01
	panSpeed   = 0.002
	zoomStep   = 0.1
	keyOrbit   = 0.05

	// frameMargin is the framing distance per unit of box diagonal.
	frameMargin = 1.5
)

// springAxis eases one controller value towards its goal.
type springAxis struct {
	pos, vel, goal float64
}

func (a *springAxis) step(s harmonica.Spring) {
	a.pos, a.vel = s.Update(a.pos, a.vel, a.goal)
}

func (a *springAxis) settle(v float64) {
	a.pos, a.vel, a.goal = v, 0, v
}

// orbitController moves the camera on a sphere around a target. Input sets
// goals; each frame a critically damped spring pulls the camera there.
type orbitController struct {
	cam    *scene.Camera
	spring harmonica.Spring

	yaw, pitch, distance springAxis
	target               [3]springAxis

	dragging     bool
	lastX, lastY float64
}

func newOrbitController(cam *scene.Camera, target mgl32.Vec3, fps int) *orbitController {
	c := &orbitController{
		cam:    cam,
		spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
	}
	offset := cam.Position.Sub(target)
	dist := offset.Len()
	if dist < minDistance {
		dist = minDistance
		offset = mgl32.Vec3{0, 0, dist}
	}
	c.distance.settle(float64(dist))
	c.pitch.settle(float64(math32.Asin(offset.Y() / dist)))
	c.yaw.settle(float64(math32.Atan2(offset.X(), offset.Z())))
	for i := range c.target {
		c.target[i].settle(float64(target[i]))
	}
	c.apply()
	return c
}

func (c *orbitController) Orbit(dYaw, dPitch float32) {
	c.yaw.goal += float64(dYaw)
	c.pitch.goal = float64(mgl32.Clamp(float32(c.pitch.goal)+dPitch, -maxPitch, maxPitch))
}

// Zoom scales the goal distance; positive steps move closer.
func (c *orbitController) Zoom(steps float32) {
	d := float32(c.distance.goal) * (1 - steps*zoomStep)
	c.distance.goal = float64(max(d, minDistance))
}

// Pan shifts the target in the camera plane, scaled by distance.
func (c *orbitController) Pan(dx, dy float32) {
	scale := float32(c.distance.goal) * panSpeed
	offset := c.cam.Right().Mul(-dx * scale).Add(c.cam.Up().Mul(dy * scale))
	for i := range c.target {
		c.target[i].goal += float64(offset[i])
	}
}

// Frame retargets the orbit at the centre of box, backing off far enough
// to keep the whole box in view. Invalid boxes are ignored.
func (c *orbitController) Frame(box scene.BoundingBox) {
	if !box.Valid() {
		return
	}
	center := box.Center()
	for i := range c.target {
		c.target[i].goal = float64(center[i])
	}
	c.distance.goal = float64(max(box.Size().Len()*frameMargin, minDistance))
}

// Target returns the current (eased) orbit centre.
func (c *orbitController) Target() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.target[0].pos), float32(c.target[1].pos), float32(c.target[2].pos)}
}

// Update reads mouse and arrow keys, then advances the springs one frame.
func (c *orbitController) Update(w *window.Window) {
	left := w.IsMouseButtonPressed(window.MouseButtonLeft)
	right := w.IsMouseButtonPressed(window.MouseButtonRight)
	x, y := w.GetCursorPos()
	if (left || right) && c.dragging {
		dx, dy := float32(x-c.lastX), float32(y-c.lastY)
		if right || w.IsKeyPressed(window.KeyLeftShift) {
			c.Pan(dx, dy)
		} else {
			c.Orbit(-dx*orbitSpeed, dy*orbitSpeed)
		}
	}
	c.dragging = left || right
	c.lastX, c.lastY = x, y

	switch {
	case w.IsKeyPressed(window.KeyLeft):
		c.Orbit(-keyOrbit, 0)
	case w.IsKeyPressed(window.KeyRight):
		c.Orbit(keyOrbit, 0)
	}
	switch {
	case w.IsKeyPressed(window.KeyUp):
		c.Orbit(0, keyOrbit)
	case w.IsKeyPressed(window.KeyDown):
		c.Orbit(0, -keyOrbit)
	}
	c.Step()
}

// Step advances the springs and places the camera.
func (c *orbitController) Step() {
	c.yaw.step(c.spring)
	c.pitch.step(c.spring)
	c.distance.step(c.spring)
	for i := range c.target {
		c.target[i].step(c.spring)
	}
	c.apply()
}

func (c *orbitController) apply() {
	yaw, pitch := float32(c.yaw.pos), float32(c.pitch.pos)
	dist := max(float32(c.distance.pos), minDistance)
	sy, cy := math32.Sincos(yaw)
	sp, cp := math32.Sincos(pitch)

	target := c.Target()
	c.cam.Position = target.Add(mgl32.Vec3{cp * sy, sp, cp * cy}.Mul(dist))
	c.cam.LookAt(target, mgl32.Vec3{0, 1, 0})
}
