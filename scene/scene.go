package scene

import (
	"errors"

	"rendering-engine/internal/gfx"
)

// Scene is the flat list of drawables and lights for one session.
type Scene struct {
	Meshes            []*Mesh
	DirectionalLights []*DirectionalLight
	PointLights       []PointLight
	SpotLights        []SpotLight

	// Box is the union of every mesh's world box. It only grows.
	Box BoundingBox
}

func New() *Scene {
	return &Scene{Box: EmptyBox()}
}

// Add appends meshes and grows Box to cover them.
func (s *Scene) Add(meshes ...*Mesh) {
	for _, m := range meshes {
		s.Meshes = append(s.Meshes, m)
		s.Box = s.Box.Union(m.WorldBox())
	}
}

func (s *Scene) AddDirectionalLight(l *DirectionalLight) {
	s.DirectionalLights = append(s.DirectionalLights, l)
}

// DirectionalLight returns the light the pipeline honors, or nil.
func (s *Scene) DirectionalLight() *DirectionalLight {
	if len(s.DirectionalLights) == 0 {
		return nil
	}
	return s.DirectionalLights[0]
}

// UpdateDirectionalLight places every directional light relative to the
// scene box: beyond its max corner, shining back towards the origin.
func (s *Scene) UpdateDirectionalLight() {
	if !s.Box.Valid() {
		return
	}
	for _, l := range s.DirectionalLights {
		l.Position = s.Box.Max.Mul(1.5)
		l.SetDirection(l.Position)
	}
}

// Visible returns the meshes flagged visible, in order.
func (s *Scene) Visible() []*Mesh {
	out := make([]*Mesh, 0, len(s.Meshes))
	for _, m := range s.Meshes {
		if m.Visible {
			out = append(out, m)
		}
	}
	return out
}

// Upload pushes every mesh to dev, collecting failures.
func (s *Scene) Upload(dev gfx.Device) error {
	var errs []error
	for _, m := range s.Meshes {
		if err := m.Upload(dev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scene) Release(dev gfx.Device) {
	for _, m := range s.Meshes {
		m.Release(dev)
	}
}
