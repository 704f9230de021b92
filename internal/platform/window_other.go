//go:build !linux && !windows

package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"

	"github.com/1broseidon/tilewin/internal/geometry"
)

// ImplementationID identifies the placeholder provider used on targets
// without a native window backend.
var ImplementationID = uuid.MustParse("0d8b4e7a-5c21-4a9f-b36e-7f2d1c9a8e53")

// unsupportedWindow satisfies Window on targets with no backend. Validation
// still runs so callers see the same errors for a malformed specification.
type unsupportedWindow struct {
	lifecycle
}

var _ Window = (*unsupportedWindow)(nil)

func newPlatformWindow() Window {
	return &unsupportedWindow{}
}

func (w *unsupportedWindow) InterfaceID() uuid.UUID      { return InterfaceID }
func (w *unsupportedWindow) ImplementationID() uuid.UUID { return ImplementationID }

func (w *unsupportedWindow) Initialize(spec *Specification) error {
	if err := w.begin(spec); err != nil {
		return err
	}
	w.abort()
	return fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, runtime.GOOS, runtime.GOARCH)
}

func (w *unsupportedWindow) Startup() error {
	return w.checkStart()
}

func (w *unsupportedWindow) Shutdown() error { return nil }

func (w *unsupportedWindow) Wait(ctx context.Context) error {
	return ErrNotInitialized
}

type unsupportedMetrics struct{}

func newPlatformMetrics() geometry.Metrics {
	return unsupportedMetrics{}
}

func (unsupportedMetrics) MaximizedSize() geometry.Size { return geometry.Size{} }

func (unsupportedMetrics) WorkArea() (geometry.Rect, error) {
	return geometry.Rect{}, ErrUnsupportedPlatform
}

func (unsupportedMetrics) FrameInsets(style, exStyle uint32) (geometry.Insets, error) {
	return geometry.Insets{}, ErrUnsupportedPlatform
}

func primaryDisplay() (Display, error) {
	return Display{}, ErrUnsupportedPlatform
}
