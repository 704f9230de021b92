package config

import (
	"fmt"
	"sort"
	"strings"
)

const DefaultPreset = "windowed"

// Preset is a named starting point for the window section. Values set in
// YAML always win over the preset.
type Preset struct {
	Modes       []string
	InitialMode string
	Flags       []string
	Clamp       bool
}

// BuiltinPresets returns the built-in window presets.
//
// These are always available without being defined in YAML.
func BuiltinPresets() map[string]Preset {
	return map[string]Preset{
		"windowed": {
			Modes:       []string{"windowed", "maximized", "fullscreen", "borderless"},
			InitialMode: "windowed",
			Flags:       []string{"main"},
			Clamp:       true,
		},
		"resizable": {
			Modes:       []string{"windowed", "maximized", "fullscreen", "borderless", "minimized"},
			InitialMode: "windowed",
			Flags:       []string{"main", "resizable"},
			Clamp:       true,
		},
		"maximized": {
			Modes:       []string{"windowed", "maximized"},
			InitialMode: "maximized",
			Flags:       []string{"main", "resizable"},
			Clamp:       true,
		},
		"fullscreen": {
			Modes:       []string{"fullscreen", "windowed"},
			InitialMode: "fullscreen",
			Flags:       []string{"main", "always_on_top"},
			Clamp:       false,
		},
		"borderless": {
			Modes:       []string{"borderless", "windowed"},
			InitialMode: "borderless",
			Flags:       []string{"main"},
			Clamp:       true,
		},
	}
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	presets := BuiltinPresets()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func applyPreset(cfg *Config, p Preset) {
	cfg.Window.Modes = append([]string(nil), p.Modes...)
	cfg.Window.InitialMode = p.InitialMode
	cfg.Window.Flags = append([]string(nil), p.Flags...)
	cfg.Viewport.Clamp = p.Clamp
}

// WithPreset returns a copy of c with the named preset's window settings
// applied over it.
func (c *Config) WithPreset(name string) (*Config, error) {
	p, ok := BuiltinPresets()[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	out := c.Clone()
	out.Preset = name
	applyPreset(out, p)
	return out, nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Window.Modes = append([]string(nil), c.Window.Modes...)
	out.Window.Flags = append([]string(nil), c.Window.Flags...)
	if c.Window.Position != nil {
		pos := *c.Window.Position
		out.Window.Position = &pos
	}
	return &out
}
