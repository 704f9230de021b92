package mcp

import (
	"github.com/1broseidon/tilewin/internal/geometry"
)

// styleQuery selects the window style a query is answered for. Empty
// fields use the configured window.
type styleQuery struct {
	Mode  string
	Flags []string
}

// DisplayMetricsInput is the input for the display_metrics tool.
type DisplayMetricsInput struct {
	Mode  string   `json:"mode,omitempty" jsonschema:"Window mode: windowed, maximized, fullscreen, borderless or minimized (default: configured initial mode)"`
	Flags []string `json:"flags,omitempty" jsonschema:"Window flags: main, resizable, always_on_top (default: configured flags)"`
}

// DisplayMetricsOutput is the output for the display_metrics tool.
type DisplayMetricsOutput struct {
	Style      uint32          `json:"style"`
	ExStyle    uint32          `json:"ex_style"`
	Maximized  geometry.Size   `json:"maximized"`
	WorkArea   geometry.Rect   `json:"work_area"`
	WorkAreaOK bool            `json:"work_area_ok"`
	Insets     geometry.Insets `json:"insets"`
	InsetsOK   bool            `json:"insets_ok"`
	ClientArea geometry.Size   `json:"client_area"`
}

// InitialPositionInput is the input for the initial_position tool.
type InitialPositionInput struct {
	Width  uint32 `json:"width" jsonschema:"required,Outer window width in pixels"`
	Height uint32 `json:"height" jsonschema:"required,Outer window height in pixels"`
}

// InitialPositionOutput is the output for the initial_position tool.
type InitialPositionOutput struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	// Centered is false when the work area was unavailable and the origin
	// was returned instead.
	Centered bool `json:"centered"`
}

// MaxViewportInput is the input for the max_viewport tool.
type MaxViewportInput struct {
	Mode       string   `json:"mode,omitempty" jsonschema:"Window mode (default: configured initial mode)"`
	Flags      []string `json:"flags,omitempty" jsonschema:"Window flags (default: configured flags)"`
	TileWidth  uint32   `json:"tile_width,omitempty" jsonschema:"Tile width in pixels (default: configured tile size)"`
	TileHeight uint32   `json:"tile_height,omitempty" jsonschema:"Tile height in pixels (default: configured tile size)"`
}

// MaxViewportOutput is the output for the max_viewport tool.
type MaxViewportOutput struct {
	Columns  uint32        `json:"columns"`
	Rows     uint32        `json:"rows"`
	TileSize geometry.Size `json:"tile_size"`
	// Known is false when the frame insets could not be determined.
	Known bool `json:"known"`
}

// PlanWindowInput is the input for the plan_window tool.
type PlanWindowInput struct {
	Preset  string `json:"preset,omitempty" jsonschema:"Built-in preset to start from: windowed, resizable, maximized, fullscreen, borderless"`
	Columns uint32 `json:"columns,omitempty" jsonschema:"Requested viewport columns (default: largest that fits)"`
	Rows    uint32 `json:"rows,omitempty" jsonschema:"Requested viewport rows (default: largest that fits)"`
}

// WindowStatusInput is the input for the window_status tool.
type WindowStatusInput struct{}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	Closed bool `json:"closed"`
}
