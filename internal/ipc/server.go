package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/tilewin/internal/engine"
	"github.com/1broseidon/tilewin/internal/platform"
	"github.com/1broseidon/tilewin/internal/runtimepath"
)

// Source is what the server reports on. *engine.Engine satisfies it.
type Source interface {
	Status() engine.Status
	Plan() engine.Plan
}

// Server answers control requests for a running window.
type Server struct {
	socketPath   string
	listener     net.Listener
	src          Source
	logger       *slog.Logger
	display      func() (platform.Display, error)
	closeChan    chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server on the runtime socket for the named window.
// A CLOSE request sends on closeChan without blocking.
func NewServer(name string, src Source, closeChan chan struct{}, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath(name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, src, closeChan, logger), nil
}

// NewServerAt creates a server on an explicit socket path.
func NewServerAt(socketPath string, src Source, closeChan chan struct{}, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		src:        src,
		logger:     logger.With("component", "ipc"),
		display:    platform.PrimaryDisplay,
		closeChan:  closeChan,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one JSON line request per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", string(req.Command))
	switch req.Command {
	case CommandGetStatus:
		return okOrError(s.src.Status())
	case CommandGetGeometry:
		return okOrError(s.src.Plan())
	case CommandGetDisplay:
		return s.handleGetDisplay()
	case CommandClose:
		return s.handleClose()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetDisplay() *Response {
	d, err := s.display()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to query display: %v", err))
	}
	return okOrError(d)
}

func (s *Server) handleClose() *Response {
	s.logger.Info("IPC close requested")
	select {
	case s.closeChan <- struct{}{}:
	default:
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func okOrError(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
