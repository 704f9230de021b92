package ipc

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/tilewin/internal/engine"
	"github.com/1broseidon/tilewin/internal/geometry"
	"github.com/1broseidon/tilewin/internal/platform"
)

type fakeSource struct {
	status engine.Status
	plan   engine.Plan
}

func (f fakeSource) Status() engine.Status { return f.status }
func (f fakeSource) Plan() engine.Plan     { return f.plan }

func primary() (platform.Display, error) {
	return platform.Display{
		Name:   "DP-1",
		Bounds: geometry.Rect{Width: 1920, Height: 1080},
		Usable: geometry.Rect{Width: 1920, Height: 1040},
	}, nil
}

func startServer(t *testing.T, src Source, display func() (platform.Display, error)) (*Server, *Client, chan struct{}) {
	t.Helper()
	closeChan := make(chan struct{}, 1)
	s := NewServerAt(filepath.Join(t.TempDir(), "t.sock"), src, closeChan, nil)
	s.display = display
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(s.Stop)
	return s, NewClientAt(s.SocketPath()), closeChan
}

func TestServer_GetStatus(t *testing.T) {
	src := fakeSource{status: engine.Status{
		Name:     "tilewin",
		State:    "running",
		Handle:   "0x1400003",
		Viewport: geometry.Size{Width: 40, Height: 22},
	}}
	_, c, _ := startServer(t, src, primary)

	got, err := c.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if *got != src.status {
		t.Fatalf("status = %+v, want %+v", *got, src.status)
	}
}

func TestServer_GetGeometryAndDisplay(t *testing.T) {
	src := fakeSource{plan: engine.Plan{
		Mode:        "windowed",
		MaxViewport: geometry.Size{Width: 59, Height: 31},
		Position:    geometry.Point{X: -8, Y: 4},
		Centered:    true,
	}}
	_, c, _ := startServer(t, src, primary)

	plan, err := c.GetGeometry()
	if err != nil {
		t.Fatalf("GetGeometry: %v", err)
	}
	if *plan != src.plan {
		t.Fatalf("plan = %+v, want %+v", *plan, src.plan)
	}

	d, err := c.GetDisplay()
	if err != nil {
		t.Fatalf("GetDisplay: %v", err)
	}
	if d.Name != "DP-1" || d.Usable.Height != 1040 {
		t.Fatalf("unexpected display %+v", d)
	}
}

func TestServer_DisplayError(t *testing.T) {
	noScreen := func() (platform.Display, error) { return platform.Display{}, errors.New("no screen") }
	_, c, _ := startServer(t, fakeSource{}, noScreen)

	_, err := c.GetDisplay()
	if err == nil || !strings.Contains(err.Error(), "no screen") {
		t.Fatalf("expected display error, got %v", err)
	}
}

func TestServer_CloseSignals(t *testing.T) {
	_, c, closeChan := startServer(t, fakeSource{}, primary)

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case <-closeChan:
	case <-time.After(time.Second):
		t.Fatal("close request was not delivered")
	}

	// A second close while the first is unread must not block the server.
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("third Close: %v", err)
	}
}

func TestServer_UnknownCommand(t *testing.T) {
	_, c, _ := startServer(t, fakeSource{}, primary)

	_, err := c.sendRequest(&Request{Command: "TILE"})
	if err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestClient_NoServer(t *testing.T) {
	c := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if _, err := c.GetStatus(); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestParseRequest_Invalid(t *testing.T) {
	if _, err := ParseRequest([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
