package engine

import (
	"fmt"
	"sync"

	"github.com/1broseidon/tilewin/internal/config"
	"github.com/1broseidon/tilewin/internal/geometry"
	"github.com/1broseidon/tilewin/internal/platform"
)

// DefaultViewport is used when neither the config nor the display can
// supply a viewport.
var DefaultViewport = geometry.Size{Width: 40, Height: 22}

// Plan is every intermediate value that goes into the window
// specification. It doubles as the report printed by "tilewin geometry".
type Plan struct {
	Mode    string `json:"mode"`
	Style   uint32 `json:"style"`
	ExStyle uint32 `json:"ex_style"`

	Maximized  geometry.Size   `json:"maximized"`
	WorkArea   geometry.Rect   `json:"work_area"`
	WorkAreaOK bool            `json:"work_area_ok"`
	Insets     geometry.Insets `json:"insets"`
	InsetsOK   bool            `json:"insets_ok"`

	TileSize    geometry.Size `json:"tile_size"`
	MaxViewport geometry.Size `json:"max_viewport"`
	Viewport    geometry.Size `json:"viewport"`

	WindowSize geometry.Size  `json:"window_size"`
	ClientSize geometry.Size  `json:"client_size"`
	Position   geometry.Point `json:"position"`
	Centered   bool           `json:"centered"`
}

// PlanGeometry resolves app against the display described by m.
func PlanGeometry(app *config.Config, m geometry.Metrics) (Plan, error) {
	if app == nil {
		return Plan{}, fmt.Errorf("application config is nil")
	}
	initial, err := app.InitialMode()
	if err != nil {
		return Plan{}, err
	}
	flags, err := app.WindowFlags()
	if err != nil {
		return Plan{}, err
	}

	m = newMemoMetrics(m)

	style, exStyle := platform.StyleForMode(initial, flags)
	if app.Window.Style != 0 {
		style = app.Window.Style
	}
	if app.Window.ExStyle != 0 {
		exStyle = app.Window.ExStyle
	}

	p := Plan{
		Mode:      initial.String(),
		Style:     style,
		ExStyle:   exStyle,
		Maximized: geometry.MaximizedExtents(m),
		TileSize:  app.Viewport.TileSize,
	}
	if wa, err := m.WorkArea(); err == nil {
		p.WorkArea, p.WorkAreaOK = wa, true
	}
	if in, err := m.FrameInsets(style, exStyle); err == nil {
		p.Insets, p.InsetsOK = in, true
	}

	p.MaxViewport = geometry.MaximumViewportExtents(m, style, exStyle, p.TileSize)

	p.Viewport = app.Viewport.Extents
	if p.Viewport.IsZero() {
		p.Viewport = p.MaxViewport
	}
	if p.Viewport.IsZero() {
		p.Viewport = DefaultViewport
	}
	if app.Viewport.Clamp {
		p.Viewport = geometry.ClampViewport(p.Viewport, p.MaxViewport)
	}

	if app.Window.Size.IsZero() {
		if p.ClientSize, err = geometry.ClientSizeForViewport(p.Viewport, p.TileSize); err != nil {
			return Plan{}, err
		}
		if p.WindowSize, err = geometry.WindowSizeForViewport(p.Viewport, p.TileSize, p.Insets); err != nil {
			return Plan{}, err
		}
	} else {
		p.WindowSize = app.Window.Size
		p.ClientSize = geometry.Size{
			Width:  subFloor(p.WindowSize.Width, p.Insets.Horizontal()),
			Height: subFloor(p.WindowSize.Height, p.Insets.Vertical()),
		}
	}

	if app.Window.Position != nil {
		p.Position = *app.Window.Position
	} else {
		p.Position = geometry.InitialPosition(m, p.WindowSize)
		p.Centered = true
	}

	return p, nil
}

// BuildSpecification converts the application config into the window
// specification handed to Window.Initialize.
func BuildSpecification(app *config.Config, m geometry.Metrics) (platform.Specification, error) {
	p, err := PlanGeometry(app, m)
	if err != nil {
		return platform.Specification{}, err
	}
	return specFromPlan(app, p)
}

func specFromPlan(app *config.Config, p Plan) (platform.Specification, error) {
	allowed, err := app.AllowedModes()
	if err != nil {
		return platform.Specification{}, err
	}
	initial, err := app.InitialMode()
	if err != nil {
		return platform.Specification{}, err
	}
	flags, err := app.WindowFlags()
	if err != nil {
		return platform.Specification{}, err
	}

	return platform.Specification{
		Version:      platform.SpecificationVersion,
		Name:         app.Name,
		Title:        app.Title,
		AllowedModes: allowed,
		InitialMode:  initial,
		Viewport:     p.Viewport,
		TileSize:     p.TileSize,
		Flags:        flags,
		Style:        p.Style,
		ExStyle:      p.ExStyle,
		NativeHandle: platform.NativeHandle(app.Window.NativeHandle),
		Position:     p.Position,
		Size:         p.WindowSize,
		ClientSize:   p.ClientSize,
	}, nil
}

func subFloor(a, b uint32) uint32 {
	if b >= a {
		return 1
	}
	return a - b
}

// memoMetrics answers each distinct query once. Every query on X11 opens
// a connection and frame insets also map a throwaway window.
type memoMetrics struct {
	geometry.Metrics

	mu        sync.Mutex
	maximized *geometry.Size
	wa        *workAreaResult
	insets map[[2]uint32]insetsResult
}

type workAreaResult struct {
	rect geometry.Rect
	err  error
}

type insetsResult struct {
	insets geometry.Insets
	err    error
}

func newMemoMetrics(m geometry.Metrics) geometry.Metrics {
	if m == nil {
		// Leave nil in place so the calculator reports the contract violation.
		return nil
	}
	if _, ok := m.(*memoMetrics); ok {
		return m
	}
	return &memoMetrics{Metrics: m, insets: make(map[[2]uint32]insetsResult)}
}

func (c *memoMetrics) MaximizedSize() geometry.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maximized == nil {
		s := c.Metrics.MaximizedSize()
		c.maximized = &s
	}
	return *c.maximized
}

func (c *memoMetrics) WorkArea() (geometry.Rect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wa == nil {
		r, err := c.Metrics.WorkArea()
		c.wa = &workAreaResult{rect: r, err: err}
	}
	return c.wa.rect, c.wa.err
}

func (c *memoMetrics) FrameInsets(style, exStyle uint32) (geometry.Insets, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := [2]uint32{style, exStyle}
	r, ok := c.insets[key]
	if !ok {
		r.insets, r.err = c.Metrics.FrameInsets(style, exStyle)
		c.insets[key] = r
	}
	return r.insets, r.err
}
