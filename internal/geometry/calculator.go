package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a pixel size does not fit in 32 bits.
var ErrOverflow = errors.New("pixel size overflows uint32")

// Metrics is the read-only view of OS display state the calculator needs.
// Implementations live with each platform provider; tests use a fake.
type Metrics interface {
	// MaximizedSize returns the outer size a maximized top-level window
	// gets on the primary display. This is not the raw screen resolution:
	// taskbar reservations and border overhang are already applied.
	MaximizedSize() Size

	// WorkArea returns the primary display region not covered by
	// persistent OS chrome such as taskbars, docks and panels.
	WorkArea() (Rect, error)

	// FrameInsets returns the non-client thickness the window manager adds
	// around a client area for the given style flags.
	FrameInsets(style, exStyle uint32) (Insets, error)
}

// MaximizedExtents returns the size a window would have if maximized on the
// primary display.
func MaximizedExtents(m Metrics) Size {
	if m == nil {
		panic("geometry: MaximizedExtents called with nil Metrics")
	}
	return m.MaximizedSize()
}

// InitialPosition returns the top-left corner that centers a window of the
// desired size inside the work area. Placement is best-effort: when the
// work area cannot be queried the origin is returned.
func InitialPosition(m Metrics, desired Size) Point {
	if m == nil {
		panic("geometry: InitialPosition called with nil Metrics")
	}
	wa, err := m.WorkArea()
	if err != nil {
		return Point{}
	}
	return centerIn(wa, desired)
}

func centerIn(area Rect, desired Size) Point {
	dx := (int64(area.Width) - int64(desired.Width)) / 2
	dy := (int64(area.Height) - int64(desired.Height)) / 2
	return Point{
		X: int32(int64(area.X) + dx),
		Y: int32(int64(area.Y) + dy),
	}
}

// ClientArea returns the client-area pixel size of a maximized window with
// the given style. ok is false when the frame insets cannot be determined.
func ClientArea(m Metrics, style, exStyle uint32) (size Size, ok bool) {
	if m == nil {
		panic("geometry: ClientArea called with nil Metrics")
	}
	outer := MaximizedExtents(m)
	insets, err := m.FrameInsets(style, exStyle)
	if err != nil {
		return Size{}, false
	}
	return Size{
		Width:  saturatingSub(outer.Width, insets.Horizontal()),
		Height: saturatingSub(outer.Height, insets.Vertical()),
	}, true
}

// MaximumViewportExtents returns how many whole tiles fit in the client area
// of a maximized window with the given style. A zero result means the size
// could not be determined; callers fall back to a default viewport.
//
// A zero tile axis is a programming error and panics.
func MaximumViewportExtents(m Metrics, style, exStyle uint32, tile Size) Size {
	if tile.Width == 0 || tile.Height == 0 {
		panic("geometry: MaximumViewportExtents called with zero tile size " + tile.String())
	}
	client, ok := ClientArea(m, style, exStyle)
	if !ok {
		return Size{}
	}
	return Size{
		Width:  client.Width / tile.Width,
		Height: client.Height / tile.Height,
	}
}

// ClientSizeForViewport returns the client-area pixel size that holds
// exactly viewport tiles of the given size.
func ClientSizeForViewport(viewport, tile Size) (Size, error) {
	return pixelSize(
		uint64(viewport.Width)*uint64(tile.Width),
		uint64(viewport.Height)*uint64(tile.Height),
		viewport, tile,
	)
}

// WindowSizeForViewport returns the outer window size whose client area
// holds exactly viewport tiles of the given size.
func WindowSizeForViewport(viewport, tile Size, insets Insets) (Size, error) {
	return pixelSize(
		uint64(viewport.Width)*uint64(tile.Width)+uint64(insets.Left)+uint64(insets.Right),
		uint64(viewport.Height)*uint64(tile.Height)+uint64(insets.Top)+uint64(insets.Bottom),
		viewport, tile,
	)
}

func pixelSize(w, h uint64, viewport, tile Size) (Size, error) {
	if w > math.MaxUint32 || h > math.MaxUint32 {
		return Size{}, fmt.Errorf("viewport %s of %s tiles: %w", viewport, tile, ErrOverflow)
	}
	return Size{Width: uint32(w), Height: uint32(h)}, nil
}

// ClampViewport limits want to limit on each axis. A zero limit axis means
// the limit is unknown and leaves that axis untouched.
func ClampViewport(want, limit Size) Size {
	out := want
	if limit.Width > 0 && out.Width > limit.Width {
		out.Width = limit.Width
	}
	if limit.Height > 0 && out.Height > limit.Height {
		out.Height = limit.Height
	}
	return out
}

func saturatingSub(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}
