package x11

import (
	"fmt"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/motif"

	"github.com/1broseidon/tilewin/internal/geometry"
)

const (
	frameProbeTimeout = 250 * time.Millisecond
	frameProbePoll    = 10 * time.Millisecond
)

// FrameExtents returns the decoration sizes the window manager has applied
// to a mapped window.
func (c *Connection) FrameExtents(windowID xproto.Window) (geometry.Insets, error) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return geometry.Insets{}, fmt.Errorf("failed to get _NET_FRAME_EXTENTS: %w", err)
	}
	return geometry.Insets{
		Left:   uint32(max(extents.Left, 0)),
		Top:    uint32(max(extents.Top, 0)),
		Right:  uint32(max(extents.Right, 0)),
		Bottom: uint32(max(extents.Bottom, 0)),
	}, nil
}

// EstimateFrameExtents asks the window manager which decorations it would
// give a new window, without mapping one. An unmapped probe window is
// created, _NET_REQUEST_FRAME_EXTENTS is sent for it, and the reply
// property is polled briefly. Window managers that do not implement the
// request make this return an error.
func (c *Connection) EstimateFrameExtents(decorated bool) (geometry.Insets, error) {
	probe, err := c.createProbe(decorated)
	if err != nil {
		return geometry.Insets{}, err
	}
	defer xproto.DestroyWindow(c.XUtil.Conn(), probe)

	if err := c.sendRootMessage(probe, "_NET_REQUEST_FRAME_EXTENTS", nil); err != nil {
		return geometry.Insets{}, err
	}

	deadline := time.Now().Add(frameProbeTimeout)
	for {
		insets, err := c.FrameExtents(probe)
		if err == nil {
			return insets, nil
		}
		if time.Now().After(deadline) {
			return geometry.Insets{}, fmt.Errorf("window manager did not answer _NET_REQUEST_FRAME_EXTENTS: %w", err)
		}
		time.Sleep(frameProbePoll)
	}
}

func (c *Connection) createProbe(decorated bool) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate probe window id: %w", err)
	}
	screen := c.XUtil.Screen()
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, wid, c.Root,
		0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange},
	).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create probe window: %w", err)
	}
	if !decorated {
		_ = motif.WmHintsSet(c.XUtil, wid, undecoratedHints())
	}
	return wid, nil
}

func undecoratedHints() *motif.Hints {
	return &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationNone,
	}
}
