package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tilewin/internal/geometry"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig layers raw over the defaults and the selected preset.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Preset != nil {
		name := strings.TrimSpace(*raw.Preset)
		preset, ok := BuiltinPresets()[name]
		if !ok {
			return nil, &ValidationError{Path: "preset", Err: fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))}
		}
		cfg.Preset = name
		applyPreset(cfg, preset)
	}

	if raw.Name != nil {
		cfg.Name = *raw.Name
		// Title follows name unless set explicitly.
		cfg.Title = *raw.Name
	}
	if raw.Title != nil {
		cfg.Title = *raw.Title
	}

	if w := raw.Window; w != nil {
		if w.Modes != nil {
			cfg.Window.Modes = normalizeNames(w.Modes)
		}
		if w.InitialMode != nil {
			cfg.Window.InitialMode = strings.ToLower(strings.TrimSpace(*w.InitialMode))
		}
		if w.Flags != nil {
			cfg.Window.Flags = normalizeNames(w.Flags)
		}
		if w.Style != nil {
			cfg.Window.Style = *w.Style
		}
		if w.ExStyle != nil {
			cfg.Window.ExStyle = *w.ExStyle
		}
		if w.Position != nil {
			if w.Position.X == nil || w.Position.Y == nil {
				return nil, &ValidationError{Path: "window.position", Err: fmt.Errorf("position needs both x and y")}
			}
			cfg.Window.Position = &geometry.Point{X: *w.Position.X, Y: *w.Position.Y}
		}
		if w.Size != nil {
			cfg.Window.Size = applyRawSize(cfg.Window.Size, *w.Size)
		}
		if w.NativeHandle != nil {
			cfg.Window.NativeHandle = *w.NativeHandle
		}
	}

	if v := raw.Viewport; v != nil {
		if v.Extents != nil {
			cfg.Viewport.Extents = applyRawSize(cfg.Viewport.Extents, *v.Extents)
		}
		if v.TileSize != nil {
			cfg.Viewport.TileSize = applyRawSize(cfg.Viewport.TileSize, *v.TileSize)
		}
		if v.Clamp != nil {
			cfg.Viewport.Clamp = *v.Clamp
		}
	}

	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*raw.Logging.Level))
		}
		if raw.Logging.Format != nil {
			cfg.Logging.Format = strings.ToLower(strings.TrimSpace(*raw.Logging.Format))
		}
	}

	return cfg, nil
}

func applyRawSize(base geometry.Size, patch RawSize) geometry.Size {
	out := base
	if patch.Width != nil {
		out.Width = *patch.Width
	}
	if patch.Height != nil {
		out.Height = *patch.Height
	}
	return out
}

func normalizeNames(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, name := range in {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
