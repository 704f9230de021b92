package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/1broseidon/tilewin/internal/geometry"
)

// WindowOptions is everything CreateMainWindow needs, already resolved by
// the caller. No geometry is derived here.
type WindowOptions struct {
	Name  string
	Title string

	// Parent embeds the window into an existing one; zero means the root.
	Parent xproto.Window

	Position   geometry.Point
	ClientSize geometry.Size
	// TileSize, when set on a resizable window, makes the window manager
	// resize in whole tiles.
	TileSize geometry.Size

	Decorated   bool
	Resizable   bool
	Maximized   bool
	Fullscreen  bool
	Minimized   bool
	AlwaysOnTop bool
}

// MainWindow is a created, not yet mapped, top-level window.
type MainWindow struct {
	conn *Connection
	ID   xproto.Window
}

// CreateMainWindow creates the native window and sets its ICCCM/EWMH
// properties. The window stays unmapped until Map.
func (c *Connection) CreateMainWindow(opts WindowOptions) (*MainWindow, error) {
	conn := c.XUtil.Conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	parent := opts.Parent
	if parent == 0 {
		parent = c.Root
	}

	screen := c.XUtil.Screen()
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, wid, parent,
		clampInt16(opts.Position.X), clampInt16(opts.Position.Y),
		clampUint16(opts.ClientSize.Width), clampUint16(opts.ClientSize.Height),
		0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			screen.BlackPixel,
			xproto.EventMaskStructureNotify | xproto.EventMaskExposure | xproto.EventMaskPropertyChange,
		},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w := &MainWindow{conn: c, ID: wid}
	if err := w.setProperties(opts); err != nil {
		xproto.DestroyWindow(conn, wid)
		return nil, err
	}
	return w, nil
}

func (w *MainWindow) setProperties(opts WindowOptions) error {
	xu := w.conn.XUtil

	if err := icccm.WmNameSet(xu, w.ID, opts.Title); err != nil {
		return fmt.Errorf("failed to set WM_NAME: %w", err)
	}
	if err := ewmh.WmNameSet(xu, w.ID, opts.Title); err != nil {
		return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmClassSet(xu, w.ID, &icccm.WmClass{Instance: opts.Name, Class: opts.Name}); err != nil {
		return fmt.Errorf("failed to set WM_CLASS: %w", err)
	}
	if err := icccm.WmProtocolsSet(xu, w.ID, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}
	if err := icccm.WmNormalHintsSet(xu, w.ID, normalHints(opts)); err != nil {
		return fmt.Errorf("failed to set WM_NORMAL_HINTS: %w", err)
	}
	if err := ewmh.WmWindowTypeSet(xu, w.ID, []string{"_NET_WM_WINDOW_TYPE_NORMAL"}); err != nil {
		return fmt.Errorf("failed to set _NET_WM_WINDOW_TYPE: %w", err)
	}
	if states := wmStates(opts); len(states) > 0 {
		if err := ewmh.WmStateSet(xu, w.ID, states); err != nil {
			return fmt.Errorf("failed to set _NET_WM_STATE: %w", err)
		}
	}
	if !opts.Decorated {
		if err := motif.WmHintsSet(xu, w.ID, undecoratedHints()); err != nil {
			return fmt.Errorf("failed to set _MOTIF_WM_HINTS: %w", err)
		}
	}
	if opts.Minimized {
		if err := icccm.WmHintsSet(xu, w.ID, &icccm.Hints{
			Flags:        icccm.HintState,
			InitialState: icccm.StateIconic,
		}); err != nil {
			return fmt.Errorf("failed to set WM_HINTS: %w", err)
		}
	}
	return nil
}

// Map shows the window.
func (w *MainWindow) Map() error {
	if err := xproto.MapWindowChecked(w.conn.XUtil.Conn(), w.ID).Check(); err != nil {
		return fmt.Errorf("failed to map window: %w", err)
	}
	return nil
}

// OnClose registers fn to run when the window manager asks the window to
// close or the window is destroyed. Events are delivered by EventLoop.
func (w *MainWindow) OnClose(fn func()) error {
	xu := w.conn.XUtil
	deleteAtom, err := xprop.Atm(xu, "WM_DELETE_WINDOW")
	if err != nil {
		return fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}

	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if ev.Format == 32 && xproto.Atom(ev.Data.Data32[0]) == deleteAtom {
			fn()
		}
	}).Connect(xu, w.ID)
	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, _ xevent.DestroyNotifyEvent) {
		fn()
	}).Connect(xu, w.ID)
	return nil
}

func wmStates(opts WindowOptions) []string {
	var states []string
	if opts.Fullscreen {
		states = append(states, "_NET_WM_STATE_FULLSCREEN")
	} else if opts.Maximized {
		states = append(states, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ")
	}
	if opts.Minimized {
		states = append(states, "_NET_WM_STATE_HIDDEN")
	}
	if opts.AlwaysOnTop {
		states = append(states, "_NET_WM_STATE_ABOVE")
	}
	return states
}

func normalHints(opts WindowOptions) *icccm.NormalHints {
	hints := &icccm.NormalHints{
		Flags:  icccm.SizeHintUSPosition | icccm.SizeHintUSSize,
		X:      int(opts.Position.X),
		Y:      int(opts.Position.Y),
		Width:  uint(opts.ClientSize.Width),
		Height: uint(opts.ClientSize.Height),
	}
	if !opts.Resizable {
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = hints.Width, hints.Width
		hints.MinHeight, hints.MaxHeight = hints.Height, hints.Height
		return hints
	}
	if opts.TileSize.Width > 0 && opts.TileSize.Height > 0 {
		hints.Flags |= icccm.SizeHintPResizeInc | icccm.SizeHintPBaseSize | icccm.SizeHintPMinSize
		hints.WidthInc = uint(opts.TileSize.Width)
		hints.HeightInc = uint(opts.TileSize.Height)
		hints.MinWidth = uint(opts.TileSize.Width)
		hints.MinHeight = uint(opts.TileSize.Height)
	}
	return hints
}

func clampInt16(v int32) int16 {
	return int16(min(max(v, math.MinInt16), math.MaxInt16))
}

func clampUint16(v uint32) uint16 {
	if v == 0 {
		return 1
	}
	return uint16(min(v, math.MaxUint16))
}
