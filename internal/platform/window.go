package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/1broseidon/tilewin/internal/geometry"
)

// SpecificationVersion is the newest Specification layout this build
// understands. Callers built against an older layout keep working as long
// as their version is within range.
const SpecificationVersion = 1

var (
	ErrInvalidSpecification = errors.New("invalid window specification")
	ErrAlreadyInitialized   = errors.New("window already initialized")
	ErrNotInitialized       = errors.New("window not initialized")
	ErrAlreadyStarted       = errors.New("window already started")
	ErrUnsupportedPlatform  = errors.New("no window provider for this platform")
)

// NativeHandle is an OS window handle: an HWND on windows, an X11 window
// id on linux. Zero means no handle.
type NativeHandle uintptr

// Window is the engine's main-window contract. Exactly one implementation
// is compiled into each binary; obtain it through QueryInstance.
type Window interface {
	// InterfaceID identifies the Window contract itself.
	InterfaceID() uuid.UUID
	// ImplementationID identifies the provider compiled into this build.
	ImplementationID() uuid.UUID

	// Initialize creates the native window described by spec. It succeeds
	// at most once per process.
	Initialize(spec *Specification) error
	// Startup shows the window created by Initialize.
	Startup() error
	// Shutdown marks the end of the window's use. The OS reclaims the
	// native window when the process exits, so nothing is torn down here.
	Shutdown() error

	State() State
	Handle() NativeHandle
	// Specification returns the copy taken by Initialize.
	Specification() Specification

	// Wait blocks until the native window is closed or ctx is done.
	Wait(ctx context.Context) error
}

// State is the provider lifecycle position. Transitions only move forward.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mode is a window display mode. Modes are bit flags so a set of allowed
// modes fits in one value.
type Mode uint32

const (
	ModeWindowed Mode = 1 << iota
	ModeMaximized
	ModeFullscreen
	ModeBorderless
	ModeMinimized

	modeAll = ModeWindowed | ModeMaximized | ModeFullscreen | ModeBorderless | ModeMinimized
)

var modeNames = []struct {
	mode Mode
	name string
}{
	{ModeWindowed, "windowed"},
	{ModeMaximized, "maximized"},
	{ModeFullscreen, "fullscreen"},
	{ModeBorderless, "borderless"},
	{ModeMinimized, "minimized"},
}

// ParseMode converts a config name such as "fullscreen" into a Mode.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range modeNames {
		if m.name == name {
			return m.mode, nil
		}
	}
	return 0, fmt.Errorf("unknown window mode %q", name)
}

// Has reports whether every bit of other is set in m.
func (m Mode) Has(other Mode) bool {
	return other != 0 && m&other == other
}

// single reports whether m names exactly one mode.
func (m Mode) single() bool {
	return m != 0 && m&(m-1) == 0 && m&^modeAll == 0
}

func (m Mode) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, n := range modeNames {
		if m&n.mode != 0 {
			parts = append(parts, n.name)
		}
	}
	if rest := m &^ modeAll; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// Flags carry behavioral hints for the window.
type Flags uint32

const (
	FlagMain Flags = 1 << iota
	FlagResizable
	FlagAlwaysOnTop
)

var flagNames = map[string]Flags{
	"main":          FlagMain,
	"resizable":     FlagResizable,
	"always_on_top": FlagAlwaysOnTop,
}

// ParseFlag converts a config name such as "main" into a Flags bit.
func ParseFlag(name string) (Flags, error) {
	f, ok := flagNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown window flag %q", name)
	}
	return f, nil
}

// Specification describes the window to create. It is assembled once at
// startup and copied by Initialize; later changes by the caller have no
// effect on the window.
type Specification struct {
	// Version guards against callers filling an older, smaller layout.
	Version uint32

	Name  string
	Title string

	AllowedModes Mode
	InitialMode  Mode

	// Viewport is the client area in tiles; TileSize is one tile in pixels.
	Viewport geometry.Size
	TileSize geometry.Size

	Flags   Flags
	Style   uint32
	ExStyle uint32

	// NativeHandle, when set, embeds the window into an existing one.
	NativeHandle NativeHandle

	// Position and Size describe the outer frame rectangle.
	Position geometry.Point
	Size     geometry.Size
	// ClientSize is the content area inside the frame. Providers whose OS
	// takes client extents at creation time use it instead of Size.
	ClientSize geometry.Size
}

// ValidateSpecification checks spec structurally. It does not consult the
// OS; every error wraps ErrInvalidSpecification.
func ValidateSpecification(spec *Specification) error {
	if spec == nil {
		return fmt.Errorf("%w: specification is nil", ErrInvalidSpecification)
	}
	if spec.Version == 0 || spec.Version > SpecificationVersion {
		return fmt.Errorf("%w: version %d not in 1..%d", ErrInvalidSpecification, spec.Version, SpecificationVersion)
	}
	if strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidSpecification)
	}
	if spec.AllowedModes == 0 || spec.AllowedModes&^modeAll != 0 {
		return fmt.Errorf("%w: allowed modes %s", ErrInvalidSpecification, spec.AllowedModes)
	}
	if !spec.InitialMode.single() {
		return fmt.Errorf("%w: initial mode %s must be exactly one mode", ErrInvalidSpecification, spec.InitialMode)
	}
	if !spec.AllowedModes.Has(spec.InitialMode) {
		return fmt.Errorf("%w: initial mode %s not in allowed modes %s", ErrInvalidSpecification, spec.InitialMode, spec.AllowedModes)
	}
	if !spec.Viewport.IsZero() && (spec.TileSize.Width == 0 || spec.TileSize.Height == 0) {
		return fmt.Errorf("%w: tile size %s must be non-zero with a viewport", ErrInvalidSpecification, spec.TileSize)
	}
	if spec.Size.Width == 0 || spec.Size.Height == 0 {
		return fmt.Errorf("%w: window size %s must be non-zero", ErrInvalidSpecification, spec.Size)
	}
	return nil
}
