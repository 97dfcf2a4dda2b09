package renderer

import (
	"fmt"
	"strings"
)

// RenderType selects the top-level path of a frame.
type RenderType int

const (
	Forward RenderType = iota
	Deferred
)

// ForwardShader selects the shading strategy of the forward path.
type ForwardShader int

const (
	ShaderPhong ForwardShader = iota
	ShaderCSM
)

// GBufferDisplay selects what the deferred path shows.
type GBufferDisplay int

const (
	DisplayPosition GBufferDisplay = iota
	DisplayDiffuse
	DisplayNormal
	DisplayTexCoord
	DisplayShowAll
)

var (
	renderTypeNames     = []string{"forward", "deferred"}
	forwardShaderNames  = []string{"phong", "csm"}
	gbufferDisplayNames = []string{"position", "diffuse", "normal", "texcoord", "all"}
)

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("unknown(%d)", v)
	}
	return names[v]
}

// parseEnum matches text case-insensitively against names. Callers keep
// their current value on error.
func parseEnum(kind string, names []string, text []byte) (int, error) {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

func (t RenderType) String() string { return enumName(renderTypeNames, int(t)) }
func (t RenderType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (t *RenderType) UnmarshalText(b []byte) error {
	v, err := parseEnum("render type", renderTypeNames, b)
	if err != nil {
		return err
	}
	*t = RenderType(v)
	return nil
}

func (s ForwardShader) String() string { return enumName(forwardShaderNames, int(s)) }
func (s ForwardShader) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *ForwardShader) UnmarshalText(b []byte) error {
	v, err := parseEnum("forward shader", forwardShaderNames, b)
	if err != nil {
		return err
	}
	*s = ForwardShader(v)
	return nil
}

func (d GBufferDisplay) String() string { return enumName(gbufferDisplayNames, int(d)) }
func (d GBufferDisplay) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
func (d *GBufferDisplay) UnmarshalText(b []byte) error {
	v, err := parseEnum("gbuffer display", gbufferDisplayNames, b)
	if err != nil {
		return err
	}
	*d = GBufferDisplay(v)
	return nil
}

// Options is the per-frame snapshot of user toggles. It is copied by value
// into Render, so a frame never observes a half-applied change.
type Options struct {
	DisplayFacet          bool           `yaml:"display_facet" toml:"display_facet"`
	DisplayNormal         bool           `yaml:"display_normal" toml:"display_normal"`
	Wire                  bool           `yaml:"wire" toml:"wire"`
	UseShadow             bool           `yaml:"use_shadow" toml:"use_shadow"`
	UseCSM                bool           `yaml:"use_csm" toml:"use_csm"`
	CSMDebug              bool           `yaml:"csm_debug" toml:"csm_debug"`
	CSMLayerVisualization bool           `yaml:"csm_layer_visualization" toml:"csm_layer_visualization"`
	CSMDebugLayer         int            `yaml:"csm_debug_layer" toml:"csm_debug_layer"`
	UseNormalMap          bool           `yaml:"use_normal_map" toml:"use_normal_map"`
	RenderType            RenderType     `yaml:"render_type" toml:"render_type"`
	ForwardShader         ForwardShader  `yaml:"forward_shader" toml:"forward_shader"`
	GBufferDisplay        GBufferDisplay `yaml:"gbuffer_display" toml:"gbuffer_display"`
}

func DefaultOptions() Options {
	return Options{
		DisplayFacet:   true,
		UseShadow:      true,
		UseCSM:         true,
		UseNormalMap:   true,
		RenderType:     Forward,
		ForwardShader:  ShaderPhong,
		GBufferDisplay: DisplayPosition,
	}
}

// csmDebugActive reports whether facets are replaced by the cascade debug quad.
// The quad samples this frame's depth array, so shadows must be on.
func (o Options) csmDebugActive() bool {
	return o.ForwardShader == ShaderCSM && o.UseCSM && o.CSMDebug && o.UseShadow
}
