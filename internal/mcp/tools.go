package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilewin/internal/engine"
	"github.com/1broseidon/tilewin/internal/geometry"
	"github.com/1broseidon/tilewin/internal/ipc"
	"github.com/1broseidon/tilewin/internal/platform"
)

// resolveStyle returns the style bits for in, filling gaps from the
// configured window.
func (s *Server) resolveStyle(in styleQuery) (style, exStyle uint32, err error) {
	modeName := in.Mode
	if modeName == "" {
		modeName = s.config.Window.InitialMode
	}
	mode, err := platform.ParseMode(modeName)
	if err != nil {
		return 0, 0, err
	}

	names := in.Flags
	if names == nil {
		names = s.config.Window.Flags
	}
	var flags platform.Flags
	for _, name := range names {
		f, err := platform.ParseFlag(name)
		if err != nil {
			return 0, 0, err
		}
		flags |= f
	}

	style, exStyle = platform.StyleForMode(mode, flags)
	if in.Mode == "" && in.Flags == nil {
		if s.config.Window.Style != 0 {
			style = s.config.Window.Style
		}
		if s.config.Window.ExStyle != 0 {
			exStyle = s.config.Window.ExStyle
		}
	}
	return style, exStyle, nil
}

func (s *Server) handleDisplayMetrics(_ context.Context, _ *mcpsdk.CallToolRequest, args DisplayMetricsInput) (*mcpsdk.CallToolResult, DisplayMetricsOutput, error) {
	style, exStyle, err := s.resolveStyle(styleQuery{Mode: args.Mode, Flags: args.Flags})
	if err != nil {
		return nil, DisplayMetricsOutput{}, err
	}

	out := DisplayMetricsOutput{
		Style:     style,
		ExStyle:   exStyle,
		Maximized: geometry.MaximizedExtents(s.metrics),
	}
	if wa, err := s.metrics.WorkArea(); err == nil {
		out.WorkArea, out.WorkAreaOK = wa, true
	} else {
		s.logger.Debug("work area unavailable", "error", err)
	}
	if in, err := s.metrics.FrameInsets(style, exStyle); err == nil {
		out.Insets, out.InsetsOK = in, true
	} else {
		s.logger.Debug("frame insets unavailable", "error", err)
	}
	out.ClientArea, _ = geometry.ClientArea(s.metrics, style, exStyle)
	return nil, out, nil
}

func (s *Server) handleInitialPosition(_ context.Context, _ *mcpsdk.CallToolRequest, args InitialPositionInput) (*mcpsdk.CallToolResult, InitialPositionOutput, error) {
	desired := geometry.Size{Width: args.Width, Height: args.Height}
	pos := geometry.InitialPosition(s.metrics, desired)
	_, err := s.metrics.WorkArea()
	return nil, InitialPositionOutput{X: pos.X, Y: pos.Y, Centered: err == nil}, nil
}

func (s *Server) handleMaxViewport(_ context.Context, _ *mcpsdk.CallToolRequest, args MaxViewportInput) (*mcpsdk.CallToolResult, MaxViewportOutput, error) {
	style, exStyle, err := s.resolveStyle(styleQuery{Mode: args.Mode, Flags: args.Flags})
	if err != nil {
		return nil, MaxViewportOutput{}, err
	}

	tile := s.config.Viewport.TileSize
	if args.TileWidth != 0 {
		tile.Width = args.TileWidth
	}
	if args.TileHeight != 0 {
		tile.Height = args.TileHeight
	}
	if tile.Width == 0 || tile.Height == 0 {
		return nil, MaxViewportOutput{}, fmt.Errorf("tile size %s must be non-zero", tile)
	}

	_, known := geometry.ClientArea(s.metrics, style, exStyle)
	ext := geometry.MaximumViewportExtents(s.metrics, style, exStyle, tile)
	return nil, MaxViewportOutput{
		Columns:  ext.Width,
		Rows:     ext.Height,
		TileSize: tile,
		Known:    known,
	}, nil
}

func (s *Server) handlePlanWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args PlanWindowInput) (*mcpsdk.CallToolResult, engine.Plan, error) {
	cfg := s.config.Clone()
	if args.Preset != "" {
		var err error
		cfg, err = s.config.WithPreset(args.Preset)
		if err != nil {
			return nil, engine.Plan{}, err
		}
	}
	if args.Columns != 0 || args.Rows != 0 {
		if args.Columns == 0 || args.Rows == 0 {
			return nil, engine.Plan{}, fmt.Errorf("columns and rows must be set together")
		}
		cfg.Viewport.Extents = geometry.Size{Width: args.Columns, Height: args.Rows}
		cfg.Window.Size = geometry.Size{}
	}

	plan, err := engine.PlanGeometry(cfg, s.metrics)
	if err != nil {
		return nil, engine.Plan{}, err
	}
	return nil, plan, nil
}

func (s *Server) handleWindowStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ WindowStatusInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *st, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ WindowStatusInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	if err := s.client.Close(); err != nil {
		return nil, CloseWindowOutput{}, err
	}
	s.logger.Info("close requested over MCP", "window", s.config.Name)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("Close sent to %s", s.config.Name)},
		},
	}, CloseWindowOutput{Closed: true}, nil
}
