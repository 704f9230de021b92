package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/tilewin/internal/geometry"
	"github.com/1broseidon/tilewin/internal/platform"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(data)+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Preset != DefaultPreset {
		t.Fatalf("expected preset %q, got %q", DefaultPreset, cfg.Preset)
	}
	initial, err := cfg.InitialMode()
	if err != nil || initial != platform.ModeWindowed {
		t.Fatalf("expected windowed initial mode, got %v (%v)", initial, err)
	}
	if !cfg.Viewport.Extents.IsZero() {
		t.Fatalf("expected default viewport to be derived, got %s", cfg.Viewport.Extents)
	}
}

func TestBuiltinPresets_AllValidate(t *testing.T) {
	for _, name := range PresetNames() {
		cfg := DefaultConfig()
		cfg.Preset = name
		applyPreset(cfg, BuiltinPresets()[name])
		if err := cfg.Validate(); err != nil {
			t.Fatalf("preset %q does not validate: %v", name, err)
		}
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Name != DefaultName {
		t.Fatalf("expected name %q, got %q", DefaultName, res.Config.Name)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	writeFile(t, path, "# empty")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Viewport.TileSize != (geometry.Size{Width: DefaultTile, Height: DefaultTile}) {
		t.Fatalf("unexpected tile size %s", res.Config.Viewport.TileSize)
	}
}

func TestLoadFromPath_FullSpecification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	writeFile(t, path, `
name: dungeon
title: Dungeon of Tiles
window:
  modes: [windowed, Fullscreen]
  initial_mode: fullscreen
  flags: [main, always_on_top]
  position: {x: -1920, y: 0}
  size: {width: 1296, height: 743}
viewport:
  extents: {width: 40, height: 22}
  tile_size: {width: 16, height: 24}
  clamp: false
logging:
  level: DEBUG
  format: json
`)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Name != "dungeon" || cfg.Title != "Dungeon of Tiles" {
		t.Fatalf("unexpected name/title %q/%q", cfg.Name, cfg.Title)
	}
	allowed, err := cfg.AllowedModes()
	if err != nil {
		t.Fatalf("allowed modes: %v", err)
	}
	if allowed != platform.ModeWindowed|platform.ModeFullscreen {
		t.Fatalf("unexpected allowed modes %s", allowed)
	}
	flags, err := cfg.WindowFlags()
	if err != nil || flags != platform.FlagMain|platform.FlagAlwaysOnTop {
		t.Fatalf("unexpected flags %v (%v)", flags, err)
	}
	if cfg.Window.Position == nil || *cfg.Window.Position != (geometry.Point{X: -1920, Y: 0}) {
		t.Fatalf("unexpected position %v", cfg.Window.Position)
	}
	if cfg.Viewport.TileSize != (geometry.Size{Width: 16, Height: 24}) {
		t.Fatalf("unexpected tile size %s", cfg.Viewport.TileSize)
	}
	if cfg.Viewport.Clamp {
		t.Fatalf("expected clamp false")
	}
	if cfg.SlogLevel() != slog.LevelDebug || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromPath_TitleFollowsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	writeFile(t, path, "name: roguelike")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Title != "roguelike" {
		t.Fatalf("expected title to follow name, got %q", res.Config.Title)
	}
	_, src, err := Explain(res, "title")
	if err != nil {
		t.Fatalf("explain title: %v", err)
	}
	if src.Kind != SourceFile || src.File != res.Files[0] {
		t.Fatalf("expected title source to be the name line, got %#v", src)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	writeFile(t, path, "window:\n  colour: red")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "colour") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
	}{
		{"initial mode not allowed", "window:\n  modes: [windowed]\n  initial_mode: fullscreen", "window.initial_mode"},
		{"unknown mode", "window:\n  modes: [windowed, tiled]", "window.modes"},
		{"unknown flag", "window:\n  flags: [sticky]", "window.flags"},
		{"zero tile", "viewport:\n  tile_size: {width: 0, height: 16}", "viewport.tile_size"},
		{"half viewport", "viewport:\n  extents: {width: 40}", "viewport.extents"},
		{"viewport pixels overflow", "preset: fullscreen\nviewport:\n  extents: {width: 134217728, height: 22}", "viewport.extents"},
		{"half size", "window:\n  size: {height: 600}", "window.size"},
		{"bad level", "logging:\n  level: loud", "logging.level"},
		{"bad format", "logging:\n  format: xml", "logging.format"},
		{"empty name", "name: \"\"", "name"},
		{"unknown preset", "preset: cinema", "preset"},
		{"half position", "window:\n  position: {x: 10}", "window.position"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "app.yaml")
			writeFile(t, path, tt.data)

			_, err := LoadFromPath(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
			if !strings.Contains(err.Error(), path+":") {
				t.Fatalf("expected source context in %v", err)
			}
		})
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.d", "10-base.yaml"), "title: base\nviewport:\n  tile_size: {width: 8, height: 8}")
	writeFile(t, filepath.Join(dir, "app.d", "20-override.yaml"), "title: override\nviewport:\n  tile_size: {height: 12}")
	writeFile(t, filepath.Join(dir, "app.d", "notes.txt"), "ignored")
	main := filepath.Join(dir, "app.yaml")
	writeFile(t, main, "include: app.d\ntitle: main")

	res, err := LoadFromPath(main)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Title != "main" {
		t.Fatalf("expected main file to override includes, got %q", res.Config.Title)
	}
	if res.Config.Viewport.TileSize != (geometry.Size{Width: 8, Height: 12}) {
		t.Fatalf("expected field-wise merge of tile_size, got %s", res.Config.Viewport.TileSize)
	}
	if len(res.Files) != 3 || res.Files[2] != main {
		t.Fatalf("expected includes then main, got %v", res.Files)
	}

	_, src, err := Explain(res, "viewport.tile_size.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if filepath.Base(src.File) != "10-base.yaml" {
		t.Fatalf("expected width from 10-base.yaml, got %#v", src)
	}
}

func TestLoadFromPath_SharedIncludeMergedOnce(t *testing.T) {
	dir := t.TempDir()
	common := filepath.Join(dir, "common.yaml")
	writeFile(t, common, "name: shared\ntitle: common")
	writeFile(t, filepath.Join(dir, "a.yaml"), "include: common.yaml\ntitle: a")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: [common.yaml]")
	main := filepath.Join(dir, "app.yaml")
	writeFile(t, main, "include: [a.yaml, b.yaml]")

	res, err := LoadFromPath(main)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var names []string
	for _, f := range res.Files {
		names = append(names, filepath.Base(f))
	}
	if strings.Join(names, ",") != "common.yaml,a.yaml,b.yaml,app.yaml" {
		t.Fatalf("unexpected load order %v", names)
	}
	if res.Config.Name != "shared" || res.Config.Title != "a" {
		t.Fatalf("expected name from common and title from a, got %q/%q", res.Config.Name, res.Config.Title)
	}

	_, src, err := Explain(res, "title")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if filepath.Base(src.File) != "a.yaml" || src.Line != 2 {
		t.Fatalf("expected title from a.yaml:2, got %#v", src)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	writeFile(t, path, "include: missing.yaml")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for missing include")
	}
	if !strings.Contains(err.Error(), path+":1:") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include context, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml")
	writeFile(t, b, "include: a.yaml")

	_, err := LoadFromPath(a)
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadFromPath_PresetAndExplainSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	writeFile(t, path, "preset: fullscreen\nwindow:\n  flags: [main]")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Window.InitialMode != "fullscreen" {
		t.Fatalf("expected preset initial mode, got %q", res.Config.Window.InitialMode)
	}

	_, src, err := Explain(res, "window.initial_mode")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if src.Kind != SourceBuiltin || src.Name != "fullscreen" {
		t.Fatalf("expected builtin preset source, got %#v", src)
	}

	val, src, err := Explain(res, "window.flags")
	if err != nil {
		t.Fatalf("explain flags: %v", err)
	}
	if flags, ok := val.([]string); !ok || len(flags) != 1 || flags[0] != "main" {
		t.Fatalf("unexpected flags %#v", val)
	}
	if src.Kind != SourceFile {
		t.Fatalf("expected file source for flags, got %#v", src)
	}

	_, src, err = Explain(res, "logging.level")
	if err != nil {
		t.Fatalf("explain logging: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}
}

func TestExplain_UnknownPaths(t *testing.T) {
	res := &LoadResult{Config: DefaultConfig(), Sources: map[string]Source{}}
	for _, path := range []string{"", "window.colour", "viewport.extents.depth", "logging.level.x", "window.position.x"} {
		if _, _, err := Explain(res, path); err == nil {
			t.Fatalf("expected error for %q", path)
		}
	}
	val, _, err := Explain(res, "window.position")
	if err != nil || val != "centered" {
		t.Fatalf("expected centered position, got %#v (%v)", val, err)
	}
}

func TestLoadFromPathWithProject_MergesAppAndLocal(t *testing.T) {
	root := t.TempDir()
	globalPath := filepath.Join(root, "app.yaml")
	writeFile(t, globalPath, "name: global\nviewport:\n  tile_size: {width: 16, height: 16}")

	projectRoot := filepath.Join(root, "project")
	appPath := filepath.Join(projectRoot, ".tilewin", "app.yaml")
	localPath := filepath.Join(projectRoot, ".tilewin", "local.yaml")
	writeFile(t, appPath, "name: project\nwindow:\n  initial_mode: maximized")
	writeFile(t, localPath, "viewport:\n  extents: {width: 80, height: 45}")

	res, err := LoadFromPathWithProject(globalPath, projectRoot)
	if err != nil {
		t.Fatalf("load with project: %v", err)
	}
	if res.Config.Name != "project" {
		t.Fatalf("expected project name override, got %q", res.Config.Name)
	}
	if res.Config.Window.InitialMode != "maximized" {
		t.Fatalf("expected maximized, got %q", res.Config.Window.InitialMode)
	}
	if res.Config.Viewport.TileSize.Width != 16 || res.Config.Viewport.Extents.Width != 80 {
		t.Fatalf("unexpected viewport %+v", res.Config.Viewport)
	}

	src, ok := res.Sources["viewport.extents.width"]
	if !ok || src.File != localPath {
		t.Fatalf("expected extents source %q, got %#v", localPath, src)
	}
	if len(res.Files) != 3 || res.Files[1] != appPath || res.Files[2] != localPath {
		t.Fatalf("expected [global, app, local], got %v", res.Files)
	}
}

func TestLoadFromPathWithProject_NoProjectDir(t *testing.T) {
	root := t.TempDir()
	res, err := LoadFromPathWithProject(filepath.Join(root, "missing.yaml"), root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Name != DefaultName {
		t.Fatalf("expected defaults, got %q", res.Config.Name)
	}
}

func TestRawMerge_DoesNotAliasBase(t *testing.T) {
	level := "debug"
	base := RawConfig{Logging: &RawLoggingConfig{Level: &level}}
	format := "json"
	merged := base.merge(RawConfig{Logging: &RawLoggingConfig{Format: &format}})

	if base.Logging.Format != nil {
		t.Fatalf("merge mutated the base config")
	}
	if merged.Logging.Level == nil || *merged.Logging.Level != "debug" || *merged.Logging.Format != "json" {
		t.Fatalf("unexpected merged logging %+v", merged.Logging)
	}
}

func TestSaveWritesDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.Name = "saved"
	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadWithSources()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if res.Config.Name != "saved" {
		t.Fatalf("expected saved name, got %q", res.Config.Name)
	}
}

func TestWithPreset_CopiesAndOverrides(t *testing.T) {
	base := DefaultConfig()
	base.Window.Position = &geometry.Point{X: 10, Y: 20}

	got, err := base.WithPreset("fullscreen")
	if err != nil {
		t.Fatalf("WithPreset: %v", err)
	}
	if got.Window.InitialMode != "fullscreen" || got.Viewport.Clamp {
		t.Fatalf("preset not applied: %+v", got.Window)
	}
	if base.Window.InitialMode != "windowed" || base.Preset != DefaultPreset {
		t.Fatalf("base config modified: %+v", base.Window)
	}
	got.Window.Position.X = 99
	if base.Window.Position.X != 10 {
		t.Fatal("clone aliases the base position")
	}

	if _, err := base.WithPreset("tiled"); err == nil {
		t.Fatal("expected unknown preset error")
	}
}
