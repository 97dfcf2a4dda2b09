package main

import (
	"fmt"
	"log/slog"
	"sort"

	"rendering-engine/core/window"
	"rendering-engine/renderer"
)

// hotkey toggles one field of the options snapshot. It returns the new value
// for logging.
type hotkey struct {
	key   string
	name  string
	apply func(o *renderer.Options, shift bool) any
}

func toggle(field func(o *renderer.Options) *bool) func(*renderer.Options, bool) any {
	return func(o *renderer.Options, _ bool) any {
		p := field(o)
		*p = !*p
		return *p
	}
}

func debugLayer(n int) hotkey {
	return hotkey{
		key:  fmt.Sprint(n),
		name: fmt.Sprintf("csm debug layer %d", n),
		apply: func(o *renderer.Options, _ bool) any {
			o.CSMDebugLayer = n
			return n
		},
	}
}

// hotkeys stands in for an options panel: each key edits the snapshot the
// next frame renders with.
var hotkeys = map[int]hotkey{
	window.KeyF: {"F", "display facet", toggle(func(o *renderer.Options) *bool { return &o.DisplayFacet })},
	window.KeyN: {"N", "display normal", toggle(func(o *renderer.Options) *bool { return &o.DisplayNormal })},
	window.KeyV: {"V", "wireframe", toggle(func(o *renderer.Options) *bool { return &o.Wire })},
	window.KeyS: {"S", "shadow", toggle(func(o *renderer.Options) *bool { return &o.UseShadow })},
	window.KeyB: {"B", "cascades", toggle(func(o *renderer.Options) *bool { return &o.UseCSM })},
	window.KeyD: {"D", "csm debug view", toggle(func(o *renderer.Options) *bool { return &o.CSMDebug })},
	window.KeyL: {"L", "csm layer colours", toggle(func(o *renderer.Options) *bool { return &o.CSMLayerVisualization })},
	window.KeyM: {"M", "normal map", toggle(func(o *renderer.Options) *bool { return &o.UseNormalMap })},
	window.KeyR: {"R", "render type", func(o *renderer.Options, _ bool) any {
		o.RenderType = (o.RenderType + 1) % 2
		return o.RenderType
	}},
	window.KeyC: {"C", "forward shader", func(o *renderer.Options, _ bool) any {
		o.ForwardShader = (o.ForwardShader + 1) % 2
		return o.ForwardShader
	}},
	window.KeyTab: {"Tab", "gbuffer display", func(o *renderer.Options, shift bool) any {
		const n = renderer.DisplayShowAll + 1
		step := renderer.GBufferDisplay(1)
		if shift {
			step = n - 1
		}
		o.GBufferDisplay = (o.GBufferDisplay + step) % n
		return o.GBufferDisplay
	}},
	window.Key0: debugLayer(0),
	window.Key1: debugLayer(1),
	window.Key2: debugLayer(2),
	window.Key3: debugLayer(3),
	window.Key4: debugLayer(4),
}

// applyHotkey edits opts for key and reports whether it was bound.
func applyHotkey(opts *renderer.Options, key int, shift bool, log *slog.Logger) bool {
	hk, ok := hotkeys[key]
	if !ok {
		return false
	}
	v := hk.apply(opts, shift)
	log.Info("option", "name", hk.name, "value", v)
	return true
}

// logHotkeys prints the key bindings at debug level.
func logHotkeys(log *slog.Logger) {
	bindings := make([]string, 0, len(hotkeys))
	for _, hk := range hotkeys {
		bindings = append(bindings, hk.key+"="+hk.name)
	}
	sort.Strings(bindings)
	log.Debug("hotkeys", "bindings", bindings)
}
