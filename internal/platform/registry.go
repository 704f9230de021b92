package platform

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/1broseidon/tilewin/internal/geometry"
)

// InterfaceID identifies the Window contract. Every provider reports it
// from Window.InterfaceID.
var InterfaceID = uuid.MustParse("6f0a2c8e-3b1d-4f57-9c7e-1d2b5a8e4c10")

// Identified is satisfied by anything that carries interface and
// implementation identities.
type Identified interface {
	InterfaceID() uuid.UUID
	ImplementationID() uuid.UUID
}

// Implements reports whether v declares id as either its interface or its
// implementation identity.
func Implements(v any, id uuid.UUID) bool {
	ident, ok := v.(Identified)
	if !ok || id == uuid.Nil {
		return false
	}
	return ident.InterfaceID() == id || ident.ImplementationID() == id
}

var (
	instanceOnce sync.Once
	instance     Window
)

// QueryInstance returns the process-wide window. The concrete type is the
// one provider compiled for this target; the first call creates it and
// every later call returns the same value.
func QueryInstance() Window {
	instanceOnce.Do(func() {
		instance = newPlatformWindow()
	})
	return instance
}

// DisplayMetrics returns the geometry metrics source for this target.
func DisplayMetrics() geometry.Metrics {
	return newPlatformMetrics()
}

// Display describes a physical display and its usable work area.
type Display struct {
	Name   string        `json:"name"`
	Bounds geometry.Rect `json:"bounds"`
	Usable geometry.Rect `json:"usable"`
}

// PrimaryDisplay returns the display new windows are placed on.
func PrimaryDisplay() (Display, error) {
	return primaryDisplay()
}

var logger atomic.Pointer[slog.Logger]

// SetLogger sets the logger providers use for lifecycle lines. A nil
// logger restores slog.Default.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func lifecycleLogger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
