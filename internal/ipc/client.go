package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tilewin/internal/runtimepath"
)

// Client talks to a running window's control socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the named window.
func NewClient(name string) *Client {
	socketPath, err := runtimepath.SocketPath(name)
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to window: %w (is tilewin running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("window error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) query(cmd CommandType, out interface{}) error {
	resp, err := c.sendRequest(&Request{Command: cmd})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves the window status.
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.query(CommandGetStatus, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetGeometry retrieves the geometry plan the window was created from.
func (c *Client) GetGeometry() (*GeometryData, error) {
	var plan GeometryData
	if err := c.query(CommandGetGeometry, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetDisplay retrieves the primary display as seen by the running window.
func (c *Client) GetDisplay() (*DisplayData, error) {
	var d DisplayData
	if err := c.query(CommandGetDisplay, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Close asks the running window to close.
func (c *Client) Close() error {
	_, err := c.sendRequest(&Request{Command: CommandClose})
	return err
}
