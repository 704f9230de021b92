package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tilewin/internal/geometry"
)

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (s dockStruts) empty() bool {
	return s.left == 0 && s.right == 0 && s.top == 0 && s.bottom == 0
}

// applyDockStruts shrinks bounds by the space docks reserve on it. ok is
// false when no dock reserves anything on this monitor.
func (c *Connection) applyDockStruts(bounds geometry.Rect) (geometry.Rect, bool) {
	root, err := c.rootGeometry()
	if err != nil {
		return geometry.Rect{}, false
	}
	rootWidth := int(root.Width)
	rootHeight := int(root.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return geometry.Rect{}, false
	}

	var struts dockStruts
	for _, windowID := range clients {
		if !c.isDock(windowID) {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			updateStrutsForMonitor(bounds, rootWidth, rootHeight, sp, &struts)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			updateStrutsForMonitor(bounds, rootWidth, rootHeight, fullSpanStrut(s, rootWidth, rootHeight), &struts)
		}
	}

	if struts.empty() {
		return geometry.Rect{}, false
	}
	return shrinkByStruts(bounds, struts), true
}

func (c *Connection) isDock(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func fullSpanStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) *ewmh.WmStrutPartial {
	return &ewmh.WmStrutPartial{
		Left:         s.Left,
		Right:        s.Right,
		Top:          s.Top,
		Bottom:       s.Bottom,
		LeftStartY:   0,
		LeftEndY:     uint(rootHeight - 1),
		RightStartY:  0,
		RightEndY:    uint(rootHeight - 1),
		TopStartX:    0,
		TopEndX:      uint(rootWidth - 1),
		BottomStartX: 0,
		BottomEndX:   uint(rootWidth - 1),
	}
}

func shrinkByStruts(bounds geometry.Rect, struts dockStruts) geometry.Rect {
	width := int(bounds.Width) - (struts.left + struts.right)
	height := int(bounds.Height) - (struts.top + struts.bottom)
	return geometry.Rect{
		X:      bounds.X + int32(struts.left),
		Y:      bounds.Y + int32(struts.top),
		Width:  uint32(max(width, 1)),
		Height: uint32(max(height, 1)),
	}
}

// updateStrutsForMonitor folds the part of one dock's reservation that
// overlaps the monitor into acc. Strut ranges are inclusive pixel spans in
// root coordinates.
func updateStrutsForMonitor(monitor geometry.Rect, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *dockStruts) {
	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		r := spanRect(int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top))
		if isect := monitor.Intersect(r); !isect.Empty() {
			acc.top = max(acc.top, int(isect.Height))
		}
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		r := spanRect(int(sp.BottomStartX), rootHeight-int(sp.Bottom), int(sp.BottomEndX)+1, rootHeight)
		if isect := monitor.Intersect(r); !isect.Empty() {
			acc.bottom = max(acc.bottom, int(isect.Height))
		}
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		r := spanRect(0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1)
		if isect := monitor.Intersect(r); !isect.Empty() {
			acc.left = max(acc.left, int(isect.Width))
		}
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		r := spanRect(rootWidth-int(sp.Right), int(sp.RightStartY), rootWidth, int(sp.RightEndY)+1)
		if isect := monitor.Intersect(r); !isect.Empty() {
			acc.right = max(acc.right, int(isect.Width))
		}
	}
}

func spanRect(x1, y1, x2, y2 int) geometry.Rect {
	if x2 <= x1 || y2 <= y1 {
		return geometry.Rect{}
	}
	return geometry.Rect{
		X:      int32(x1),
		Y:      int32(y1),
		Width:  uint32(x2 - x1),
		Height: uint32(y2 - y1),
	}
}
