package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilewin/internal/config"
	"github.com/1broseidon/tilewin/internal/geometry"
	"github.com/1broseidon/tilewin/internal/ipc"
	"github.com/1broseidon/tilewin/internal/platform"
)

const (
	ServerName    = "tilewin"
	ServerVersion = "0.1.0"
)

// Server exposes the geometry calculator and the running window over MCP.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	metrics   geometry.Metrics
	client    *ipc.Client
	logger    *slog.Logger
}

// NewServer creates an MCP server answering for cfg. A nil metrics uses the
// display of this machine.
func NewServer(cfg *config.Config, metrics geometry.Metrics, logger *slog.Logger) *Server {
	if metrics == nil {
		metrics = platform.DisplayMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		metrics: metrics,
		client:  ipc.NewClient(cfg.Name),
		logger:  logger.With("component", "mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "display_metrics",
		Description: "Report the primary display as the window provider sees it: maximized window size, work area, and frame insets for a window style. Style defaults to the configured window; pass mode and flags to ask about another.",
	}, s.handleDisplayMetrics)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "initial_position",
		Description: "Return the top-left corner that centers a window of the given outer size in the work area. Falls back to (0,0) when the work area is unavailable.",
	}, s.handleInitialPosition)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "max_viewport",
		Description: "Return how many whole tiles fit in the client area of a maximized window. Zero columns and rows with known=false means the frame could not be measured.",
	}, s.handleMaxViewport)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "plan_window",
		Description: "Compute the full window plan (style, viewport, outer and client size, position) the engine would use, optionally starting from a built-in preset or a requested viewport.",
	}, s.handlePlanWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_status",
		Description: "Report the state of the running tilewin window: lifecycle state, mode, native handle, position and sizes. Fails when no window is running.",
	}, s.handleWindowStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Ask the running tilewin window to close.",
	}, s.handleCloseWindow)
}
