package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tilewin/internal/geometry"
)

// presetPaths are the values a preset supplies when YAML leaves them unset.
var presetPaths = map[string]bool{
	"window.modes":        true,
	"window.initial_mode": true,
	"window.flags":        true,
	"viewport.clamp":      true,
}

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	preset
//	name
//	title
//	window.modes
//	window.initial_mode
//	window.flags
//	window.style
//	window.position.x
//	window.size.width
//	window.native_handle
//	viewport.extents.height
//	viewport.tile_size.width
//	viewport.clamp
//	logging.level
//	logging.format
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	if path == "title" {
		if src, ok := res.Sources["name"]; ok {
			return value, src, nil
		}
	}
	if presetPaths[path] {
		return value, Source{Kind: SourceBuiltin, Name: res.Config.Preset}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	switch parts[0] {
	case "preset":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.Preset, nil
	case "name":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.Name, nil
	case "title":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.Title, nil
	case "window":
		if len(parts) == 1 {
			return cfg.Window, nil
		}
		return lookupWindow(&cfg.Window, path, parts[1:])
	case "viewport":
		if len(parts) == 1 {
			return cfg.Viewport, nil
		}
		switch parts[1] {
		case "extents":
			return lookupSize(cfg.Viewport.Extents, path, parts[2:])
		case "tile_size":
			return lookupSize(cfg.Viewport.TileSize, path, parts[2:])
		case "clamp":
			if len(parts) != 2 {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			return cfg.Viewport.Clamp, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	case "logging":
		if len(parts) == 1 {
			return cfg.Logging, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "level":
			return cfg.Logging.Level, nil
		case "format":
			return cfg.Logging.Format, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

func lookupWindow(w *WindowConfig, path string, parts []string) (any, error) {
	leaf := len(parts) == 1
	switch parts[0] {
	case "modes":
		if !leaf {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return w.Modes, nil
	case "initial_mode":
		if !leaf {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return w.InitialMode, nil
	case "flags":
		if !leaf {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return w.Flags, nil
	case "style":
		if !leaf {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return w.Style, nil
	case "ex_style":
		if !leaf {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return w.ExStyle, nil
	case "native_handle":
		if !leaf {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return w.NativeHandle, nil
	case "size":
		return lookupSize(w.Size, path, parts[1:])
	case "position":
		if leaf {
			if w.Position == nil {
				return "centered", nil
			}
			return *w.Position, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		if w.Position == nil {
			return nil, fmt.Errorf("%s: position is not set (window is centered)", path)
		}
		switch parts[1] {
		case "x":
			return w.Position.X, nil
		case "y":
			return w.Position.Y, nil
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

func lookupSize(s geometry.Size, path string, rest []string) (any, error) {
	if len(rest) == 0 {
		return s, nil
	}
	if len(rest) != 1 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch rest[0] {
	case "width":
		return s.Width, nil
	case "height":
		return s.Height, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
