package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/tilewin/internal/config"
	"github.com/1broseidon/tilewin/internal/geometry"
	"github.com/1broseidon/tilewin/internal/platform"
)

// Options overrides the engine's platform collaborators. Zero values use
// the build-selected provider.
type Options struct {
	Metrics geometry.Metrics
	Window  platform.Window
	Logger  *slog.Logger
}

// Engine brings the main window up and down.
type Engine struct {
	cfg     *config.Config
	metrics geometry.Metrics
	window  platform.Window
	logger  *slog.Logger

	mu      sync.RWMutex
	plan    Plan
	started time.Time
	stopped bool
}

// Status is a point-in-time view of the main window.
type Status struct {
	Name             string         `json:"name"`
	Title            string         `json:"title"`
	InterfaceID      string         `json:"interface_id"`
	ImplementationID string         `json:"implementation_id"`
	State            string         `json:"state"`
	Mode             string         `json:"mode"`
	Handle           string         `json:"handle"`
	Position         geometry.Point `json:"position"`
	Size             geometry.Size  `json:"size"`
	ClientSize       geometry.Size  `json:"client_size"`
	Viewport         geometry.Size  `json:"viewport"`
	TileSize         geometry.Size  `json:"tile_size"`
	UptimeSeconds    int64          `json:"uptime_seconds"`
}

func New(cfg *config.Config, opts Options) *Engine {
	if opts.Metrics == nil {
		opts.Metrics = platform.DisplayMetrics()
	}
	if opts.Window == nil {
		opts.Window = platform.QueryInstance()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		cfg:     cfg,
		metrics: opts.Metrics,
		window:  opts.Window,
		logger:  opts.Logger,
	}
}

// Start computes the specification, creates the window and shows it.
func (e *Engine) Start() error {
	plan, err := PlanGeometry(e.cfg, e.metrics)
	if err != nil {
		return fmt.Errorf("failed to plan window geometry: %w", err)
	}
	spec, err := specFromPlan(e.cfg, plan)
	if err != nil {
		return fmt.Errorf("failed to build window specification: %w", err)
	}

	e.logger.Debug("window plan",
		"mode", plan.Mode,
		"maximized", plan.Maximized.String(),
		"work_area", plan.WorkArea.String(),
		"work_area_ok", plan.WorkAreaOK,
		"insets_ok", plan.InsetsOK,
		"max_viewport", plan.MaxViewport.String(),
		"viewport", plan.Viewport.String(),
	)

	if !platform.Implements(e.window, platform.InterfaceID) {
		return fmt.Errorf("window provider does not implement interface %s", platform.InterfaceID)
	}
	if err := e.window.Initialize(&spec); err != nil {
		return fmt.Errorf("failed to initialize window: %w", err)
	}
	if err := e.window.Startup(); err != nil {
		return fmt.Errorf("failed to start window: %w", err)
	}

	e.mu.Lock()
	e.plan = plan
	e.started = time.Now()
	e.mu.Unlock()

	e.logger.Info("engine started",
		"name", spec.Name,
		"mode", spec.InitialMode.String(),
		"size", spec.Size.String(),
		"position", spec.Position.String(),
		"viewport", spec.Viewport.String(),
		"impl", e.window.ImplementationID().String(),
	)
	return nil
}

// Wait blocks until the window closes or ctx is done. Cancellation is a
// normal exit and returns nil.
func (e *Engine) Wait(ctx context.Context) error {
	err := e.window.Wait(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Run starts the window, waits for it to close and stops it.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(); err != nil {
		return err
	}
	waitErr := e.Wait(ctx)
	if err := e.Stop(); err != nil && waitErr == nil {
		waitErr = err
	}
	return waitErr
}

// Stop shuts the window down. Later calls are no-ops.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return nil
	}
	e.stopped = true
	e.mu.Unlock()

	if err := e.window.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down window: %w", err)
	}
	e.logger.Info("engine stopped", "name", e.cfg.Name)
	return nil
}

// Status reports the current window state.
func (e *Engine) Status() Status {
	spec := e.window.Specification()

	e.mu.RLock()
	started := e.started
	e.mu.RUnlock()

	var uptime int64
	if !started.IsZero() {
		uptime = int64(time.Since(started).Seconds())
	}

	name := spec.Name
	if name == "" {
		name = e.cfg.Name
	}
	return Status{
		Name:             name,
		Title:            spec.Title,
		InterfaceID:      e.window.InterfaceID().String(),
		ImplementationID: e.window.ImplementationID().String(),
		State:            e.window.State().String(),
		Mode:             spec.InitialMode.String(),
		Handle:           fmt.Sprintf("0x%x", uintptr(e.window.Handle())),
		Position:         spec.Position,
		Size:             spec.Size,
		ClientSize:       spec.ClientSize,
		Viewport:         spec.Viewport,
		TileSize:         spec.TileSize,
		UptimeSeconds:    uptime,
	}
}

// Plan returns the geometry plan used at Start.
func (e *Engine) Plan() Plan {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.plan
}

