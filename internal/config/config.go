package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tilewin/internal/geometry"
	"github.com/1broseidon/tilewin/internal/platform"
)

// WindowConfig describes the main window as written in YAML.
type WindowConfig struct {
	Modes       []string `yaml:"modes"`
	InitialMode string   `yaml:"initial_mode"`
	Flags       []string `yaml:"flags"`

	// Style and ExStyle override the bits derived from the initial mode
	// when non-zero.
	Style   uint32 `yaml:"style,omitempty"`
	ExStyle uint32 `yaml:"ex_style,omitempty"`

	// Position is the outer top-left corner. nil centers the window on the
	// work area.
	Position *geometry.Point `yaml:"position,omitempty"`
	// Size is the outer frame in pixels. Zero derives it from the viewport.
	Size geometry.Size `yaml:"size"`

	// NativeHandle embeds the window into an existing native window.
	NativeHandle uint64 `yaml:"native_handle,omitempty"`
}

// ViewportConfig describes the tile grid shown in the client area.
type ViewportConfig struct {
	// Extents is the grid size in tiles. Zero fills the largest client
	// area the display allows.
	Extents  geometry.Size `yaml:"extents"`
	TileSize geometry.Size `yaml:"tile_size"`
	// Clamp limits Extents to what fits on the display.
	Clamp bool `yaml:"clamp"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// Config is the effective application specification.
type Config struct {
	Preset   string         `yaml:"preset"`
	Name     string         `yaml:"name"`
	Title    string         `yaml:"title"`
	Window   WindowConfig   `yaml:"window"`
	Viewport ViewportConfig `yaml:"viewport"`
	Logging  LoggingConfig  `yaml:"logging"`
}

const (
	DefaultName = "tilewin"
	DefaultTile = 32
)

func DefaultConfig() *Config {
	cfg := &Config{
		Preset: DefaultPreset,
		Name:   DefaultName,
		Title:  DefaultName,
		Viewport: ViewportConfig{
			TileSize: geometry.Size{Width: DefaultTile, Height: DefaultTile},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
	applyPreset(cfg, BuiltinPresets()[DefaultPreset])
	return cfg
}

// AllowedModes returns the union of the configured window modes.
func (c *Config) AllowedModes() (platform.Mode, error) {
	var out platform.Mode
	for _, name := range c.Window.Modes {
		m, err := platform.ParseMode(name)
		if err != nil {
			return 0, err
		}
		out |= m
	}
	return out, nil
}

func (c *Config) InitialMode() (platform.Mode, error) {
	return platform.ParseMode(c.Window.InitialMode)
}

func (c *Config) WindowFlags() (platform.Flags, error) {
	var out platform.Flags
	for _, name := range c.Window.Flags {
		f, err := platform.ParseFlag(name)
		if err != nil {
			return 0, err
		}
		out |= f
	}
	return out, nil
}

// SlogLevel maps Logging.Level onto a slog level. Unknown values log at info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save writes the effective config to the default path.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Path: "name", Err: fmt.Errorf("name is required")}
	}
	if _, ok := BuiltinPresets()[c.Preset]; !ok {
		return &ValidationError{Path: "preset", Err: fmt.Errorf("preset must be one of: %s", strings.Join(PresetNames(), ", "))}
	}

	if len(c.Window.Modes) == 0 {
		return &ValidationError{Path: "window.modes", Err: fmt.Errorf("window.modes must not be empty")}
	}
	allowed, err := c.AllowedModes()
	if err != nil {
		return &ValidationError{Path: "window.modes", Err: err}
	}
	initial, err := c.InitialMode()
	if err != nil {
		return &ValidationError{Path: "window.initial_mode", Err: err}
	}
	if !allowed.Has(initial) {
		return &ValidationError{Path: "window.initial_mode", Err: fmt.Errorf("initial_mode %q is not listed in window.modes", c.Window.InitialMode)}
	}
	if _, err := c.WindowFlags(); err != nil {
		return &ValidationError{Path: "window.flags", Err: err}
	}
	if partial(c.Window.Size) {
		return &ValidationError{Path: "window.size", Err: fmt.Errorf("width and height must both be set or both be 0")}
	}

	if c.Viewport.TileSize.Width == 0 || c.Viewport.TileSize.Height == 0 {
		return &ValidationError{Path: "viewport.tile_size", Err: fmt.Errorf("tile_size must be > 0 on both axes")}
	}
	if partial(c.Viewport.Extents) {
		return &ValidationError{Path: "viewport.extents", Err: fmt.Errorf("width and height must both be set or both be 0")}
	}
	if _, err := geometry.ClientSizeForViewport(c.Viewport.Extents, c.Viewport.TileSize); err != nil {
		return &ValidationError{Path: "viewport.extents", Err: err}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("logging.level must be one of: debug, info, warn, error")}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("logging.format must be one of: text, json")}
	}

	return nil
}

func partial(s geometry.Size) bool {
	return (s.Width == 0) != (s.Height == 0)
}
