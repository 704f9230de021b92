package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tilewin/internal/geometry"
)

// Monitor represents a physical display
type Monitor struct {
	ID      int
	Name    string
	Primary bool
	Bounds  geometry.Rect
}

// GetMonitors retrieves all active monitors using XRandR. When RandR is not
// available the root window is reported as a single primary monitor.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return c.rootMonitor()
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primaryOutput randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primaryOutput = reply.Output
	}

	var monitors []Monitor

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		primary := false
		for _, out := range crtcInfo.Outputs {
			if primaryOutput != 0 && out == primaryOutput {
				primary = true
				break
			}
		}

		monitors = append(monitors, Monitor{
			ID:      i,
			Name:    outputName,
			Primary: primary,
			Bounds: geometry.Rect{
				X:      int32(crtcInfo.X),
				Y:      int32(crtcInfo.Y),
				Width:  uint32(crtcInfo.Width),
				Height: uint32(crtcInfo.Height),
			},
		})
	}

	if len(monitors) == 0 {
		return c.rootMonitor()
	}
	return monitors, nil
}

func (c *Connection) rootMonitor() ([]Monitor, error) {
	root, err := c.rootGeometry()
	if err != nil {
		return nil, err
	}
	return []Monitor{{Name: "screen", Primary: true, Bounds: root}}, nil
}

func (c *Connection) rootGeometry() (geometry.Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return geometry.Rect{Width: uint32(geom.Width), Height: uint32(geom.Height)}, nil
}

// PrimaryMonitor returns the RandR primary output, or the monitor at the
// screen origin when no output is flagged primary.
func (c *Connection) PrimaryMonitor() (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}
	return pickPrimary(monitors)
}

func pickPrimary(monitors []Monitor) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}
	for _, m := range monitors {
		if m.Primary {
			return m, nil
		}
	}
	for _, m := range monitors {
		if m.Bounds.Contains(geometry.Point{}) {
			return m, nil
		}
	}
	return monitors[0], nil
}

// WorkArea returns the part of monitor not reserved by docks and panels.
// Dock struts are preferred because _NET_WORKAREA spans every monitor on
// multi-head setups; the EWMH work area is the fallback.
func (c *Connection) WorkArea(monitor Monitor) (geometry.Rect, error) {
	if area, ok := c.applyDockStruts(monitor.Bounds); ok {
		return area, nil
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return geometry.Rect{}, fmt.Errorf("failed to get _NET_WORKAREA: %w", errOrEmpty(err))
	}

	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}

	wa := workArea[desktopIndex]
	area := monitor.Bounds.Intersect(geometry.Rect{
		X:      int32(wa.X),
		Y:      int32(wa.Y),
		Width:  uint32(wa.Width),
		Height: uint32(wa.Height),
	})
	if area.Empty() {
		return monitor.Bounds, nil
	}
	return area, nil
}

// PrimaryWorkArea returns the work area of the primary monitor.
func (c *Connection) PrimaryWorkArea() (geometry.Rect, error) {
	mon, err := c.PrimaryMonitor()
	if err != nil {
		return geometry.Rect{}, err
	}
	return c.WorkArea(mon)
}

func errOrEmpty(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("property is empty")
}
