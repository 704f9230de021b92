package geometry

import "fmt"

// Size is a width/height pair. Both fields share one unit per call site:
// pixels for window extents, tiles for viewport extents.
type Size struct {
	Width  uint32 `json:"width" yaml:"width"`
	Height uint32 `json:"height" yaml:"height"`
}

// IsZero reports whether both axes are zero.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Point is a screen position. Coordinates are signed because monitors
// left of or above the primary one have negative origins.
type Point struct {
	X int32 `json:"x" yaml:"x"`
	Y int32 `json:"y" yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Size returns the rectangle extents.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Contains reports whether the point lies inside r (right/bottom exclusive).
func (r Rect) Contains(p Point) bool {
	x, y := int64(p.X), int64(p.Y)
	return x >= int64(r.X) && x < int64(r.X)+int64(r.Width) &&
		y >= int64(r.Y) && y < int64(r.Y)+int64(r.Height)
}

// Intersect returns the overlap of r and o. The result is the zero Rect
// when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(int64(r.X), int64(o.X))
	y1 := max(int64(r.Y), int64(o.Y))
	x2 := min(int64(r.X)+int64(r.Width), int64(o.X)+int64(o.Width))
	y2 := min(int64(r.Y)+int64(r.Height), int64(o.Y)+int64(o.Height))

	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{
		X:      int32(x1),
		Y:      int32(y1),
		Width:  uint32(x2 - x1),
		Height: uint32(y2 - y1),
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Insets is the non-client thickness on each edge of a window: borders,
// title bar, menu. All values are positive pixel counts regardless of how
// the OS reports them.
type Insets struct {
	Left   uint32 `json:"left"`
	Top    uint32 `json:"top"`
	Right  uint32 `json:"right"`
	Bottom uint32 `json:"bottom"`
}

// Horizontal returns the total width the frame adds.
func (i Insets) Horizontal() uint32 {
	return i.Left + i.Right
}

// Vertical returns the total height the frame adds.
func (i Insets) Vertical() uint32 {
	return i.Top + i.Bottom
}

// InsetsFromAdjustedRect converts the rectangle produced by inflating a
// zero-sized client rect (left/top negative, right/bottom positive) into
// per-edge insets.
func InsetsFromAdjustedRect(left, top, right, bottom int32) Insets {
	return Insets{
		Left:   uint32(max(-left, 0)),
		Top:    uint32(max(-top, 0)),
		Right:  uint32(max(right, 0)),
		Bottom: uint32(max(bottom, 0)),
	}
}
