//go:build linux

package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/uuid"

	"github.com/1broseidon/tilewin/internal/geometry"
	"github.com/1broseidon/tilewin/internal/x11"
)

// ImplementationID identifies the X11 provider.
var ImplementationID = uuid.MustParse("3c9e7f21-8a4b-4d6e-b0f2-5e1a9c7d3b84")

const implName = "x11"

// x11Window is the linux provider. It owns one X connection for the life
// of the process.
type x11Window struct {
	lifecycle

	conn   *x11.Connection
	window *x11.MainWindow

	loopOnce  sync.Once
	closeOnce sync.Once
	closed    chan struct{}
}

var _ Window = (*x11Window)(nil)

func newPlatformWindow() Window {
	return &x11Window{closed: make(chan struct{})}
}

func (w *x11Window) InterfaceID() uuid.UUID      { return InterfaceID }
func (w *x11Window) ImplementationID() uuid.UUID { return ImplementationID }

func (w *x11Window) Initialize(spec *Specification) error {
	if err := w.begin(spec); err != nil {
		return err
	}

	conn, err := x11.NewConnection()
	if err != nil {
		w.abort()
		return fmt.Errorf("failed to connect to X11: %w", err)
	}

	client := spec.ClientSize
	if client.IsZero() {
		client = spec.Size
	}
	win, err := conn.CreateMainWindow(x11.WindowOptions{
		Name:        spec.Name,
		Title:       spec.Title,
		Parent:      xproto.Window(spec.NativeHandle),
		Position:    spec.Position,
		ClientSize:  client,
		TileSize:    spec.TileSize,
		Decorated:   spec.InitialMode != ModeBorderless && spec.InitialMode != ModeFullscreen && Decorated(spec.Style),
		Resizable:   spec.Flags&FlagResizable != 0,
		Maximized:   spec.InitialMode == ModeMaximized,
		Fullscreen:  spec.InitialMode == ModeFullscreen,
		Minimized:   spec.InitialMode == ModeMinimized,
		AlwaysOnTop: spec.Flags&FlagAlwaysOnTop != 0,
	})
	if err != nil {
		conn.Close()
		w.abort()
		return err
	}
	if err := win.OnClose(w.markClosed); err != nil {
		conn.Close()
		w.abort()
		return err
	}

	w.conn = conn
	w.window = win
	w.commit(spec, NativeHandle(win.ID))
	return nil
}

func (w *x11Window) Startup() error {
	if err := w.checkStart(); err != nil {
		return err
	}
	if err := w.window.Map(); err != nil {
		return err
	}
	w.markRunning()
	w.logStartup(implName)
	return nil
}

func (w *x11Window) Shutdown() error {
	w.logShutdown(implName)
	return nil
}

func (w *x11Window) Wait(ctx context.Context) error {
	if w.State() == StateUninitialized {
		return ErrNotInitialized
	}
	w.loopOnce.Do(func() {
		go w.conn.EventLoop()
	})

	select {
	case <-w.closed:
		w.conn.QuitEventLoop()
		return nil
	case <-ctx.Done():
		w.conn.QuitEventLoop()
		return ctx.Err()
	}
}

func (w *x11Window) markClosed() {
	w.closeOnce.Do(func() { close(w.closed) })
}

// x11Metrics answers geometry queries on short-lived connections so that
// defaults can be computed before any window exists.
type x11Metrics struct{}

func newPlatformMetrics() geometry.Metrics {
	return x11Metrics{}
}

// MaximizedSize reports the primary work area: an EWMH window manager sizes
// a maximized frame to exactly that region.
func (m x11Metrics) MaximizedSize() geometry.Size {
	area, err := m.WorkArea()
	if err != nil {
		return geometry.Size{}
	}
	return area.Size()
}

func (x11Metrics) WorkArea() (geometry.Rect, error) {
	return withConnection(func(c *x11.Connection) (geometry.Rect, error) {
		return c.PrimaryWorkArea()
	})
}

func (x11Metrics) FrameInsets(style, exStyle uint32) (geometry.Insets, error) {
	if !Decorated(style) {
		return geometry.Insets{}, nil
	}
	return withConnection(func(c *x11.Connection) (geometry.Insets, error) {
		return c.EstimateFrameExtents(true)
	})
}

func primaryDisplay() (Display, error) {
	return withConnection(func(c *x11.Connection) (Display, error) {
		mon, err := c.PrimaryMonitor()
		if err != nil {
			return Display{}, err
		}
		usable, err := c.WorkArea(mon)
		if err != nil {
			usable = mon.Bounds
		}
		return Display{Name: mon.Name, Bounds: mon.Bounds, Usable: usable}, nil
	})
}

func withConnection[T any](fn func(*x11.Connection) (T, error)) (T, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}
