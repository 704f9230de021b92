package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawSize struct {
	Width  *uint32 `yaml:"width"`
	Height *uint32 `yaml:"height"`
}

type RawPoint struct {
	X *int32 `yaml:"x"`
	Y *int32 `yaml:"y"`
}

type RawWindow struct {
	Modes        []string  `yaml:"modes"`
	InitialMode  *string   `yaml:"initial_mode"`
	Flags        []string  `yaml:"flags"`
	Style        *uint32   `yaml:"style"`
	ExStyle      *uint32   `yaml:"ex_style"`
	Position     *RawPoint `yaml:"position"`
	Size         *RawSize  `yaml:"size"`
	NativeHandle *uint64   `yaml:"native_handle"`
}

type RawViewport struct {
	Extents  *RawSize `yaml:"extents"`
	TileSize *RawSize `yaml:"tile_size"`
	Clamp    *bool    `yaml:"clamp"`
}

type RawLoggingConfig struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

type RawConfig struct {
	Include  IncludeList       `yaml:"include"`
	Preset   *string           `yaml:"preset"`
	Name     *string           `yaml:"name"`
	Title    *string           `yaml:"title"`
	Window   *RawWindow        `yaml:"window"`
	Viewport *RawViewport      `yaml:"viewport"`
	Logging  *RawLoggingConfig `yaml:"logging"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Preset != nil {
		out.Preset = overlay.Preset
	}
	if overlay.Name != nil {
		out.Name = overlay.Name
	}
	if overlay.Title != nil {
		out.Title = overlay.Title
	}

	if overlay.Window != nil {
		base := RawWindow{}
		if out.Window != nil {
			base = *out.Window
		}
		merged := mergeRawWindow(base, *overlay.Window)
		out.Window = &merged
	}

	if overlay.Viewport != nil {
		base := RawViewport{}
		if out.Viewport != nil {
			base = *out.Viewport
		}
		merged := mergeRawViewport(base, *overlay.Viewport)
		out.Viewport = &merged
	}

	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		} else {
			cp := *out.Logging
			out.Logging = &cp
		}
		if overlay.Logging.Level != nil {
			out.Logging.Level = overlay.Logging.Level
		}
		if overlay.Logging.Format != nil {
			out.Logging.Format = overlay.Logging.Format
		}
	}

	return out
}

func mergeRawWindow(base RawWindow, overlay RawWindow) RawWindow {
	out := base
	// Lists replace rather than append.
	if overlay.Modes != nil {
		out.Modes = overlay.Modes
	}
	if overlay.InitialMode != nil {
		out.InitialMode = overlay.InitialMode
	}
	if overlay.Flags != nil {
		out.Flags = overlay.Flags
	}
	if overlay.Style != nil {
		out.Style = overlay.Style
	}
	if overlay.ExStyle != nil {
		out.ExStyle = overlay.ExStyle
	}
	if overlay.Position != nil {
		merged := mergeRawPoint(derefPoint(out.Position), *overlay.Position)
		out.Position = &merged
	}
	if overlay.Size != nil {
		merged := mergeRawSize(derefSize(out.Size), *overlay.Size)
		out.Size = &merged
	}
	if overlay.NativeHandle != nil {
		out.NativeHandle = overlay.NativeHandle
	}
	return out
}

func mergeRawViewport(base RawViewport, overlay RawViewport) RawViewport {
	out := base
	if overlay.Extents != nil {
		merged := mergeRawSize(derefSize(out.Extents), *overlay.Extents)
		out.Extents = &merged
	}
	if overlay.TileSize != nil {
		merged := mergeRawSize(derefSize(out.TileSize), *overlay.TileSize)
		out.TileSize = &merged
	}
	if overlay.Clamp != nil {
		out.Clamp = overlay.Clamp
	}
	return out
}

func mergeRawSize(base RawSize, overlay RawSize) RawSize {
	out := base
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	return out
}

func mergeRawPoint(base RawPoint, overlay RawPoint) RawPoint {
	out := base
	if overlay.X != nil {
		out.X = overlay.X
	}
	if overlay.Y != nil {
		out.Y = overlay.Y
	}
	return out
}

func derefSize(p *RawSize) RawSize {
	if p == nil {
		return RawSize{}
	}
	return *p
}

func derefPoint(p *RawPoint) RawPoint {
	if p == nil {
		return RawPoint{}
	}
	return *p
}
