package x11

import (
	"reflect"
	"testing"

	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/tilewin/internal/geometry"
)

func TestWmStates(t *testing.T) {
	tests := []struct {
		name string
		opts WindowOptions
		want []string
	}{
		{"windowed", WindowOptions{}, nil},
		{"maximized", WindowOptions{Maximized: true}, []string{"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ"}},
		{"fullscreen wins over maximized", WindowOptions{Maximized: true, Fullscreen: true}, []string{"_NET_WM_STATE_FULLSCREEN"}},
		{"minimized on top", WindowOptions{Minimized: true, AlwaysOnTop: true}, []string{"_NET_WM_STATE_HIDDEN", "_NET_WM_STATE_ABOVE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wmStates(tt.opts); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("wmStates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalHints_FixedSize(t *testing.T) {
	hints := normalHints(WindowOptions{
		Position:   geometry.Point{X: -10, Y: 20},
		ClientSize: geometry.Size{Width: 1280, Height: 704},
	})
	if hints.Flags&icccm.SizeHintPMinSize == 0 || hints.Flags&icccm.SizeHintPMaxSize == 0 {
		t.Fatalf("expected min/max size flags, got %b", hints.Flags)
	}
	if hints.MinWidth != 1280 || hints.MaxWidth != 1280 || hints.MinHeight != 704 || hints.MaxHeight != 704 {
		t.Fatalf("unexpected size bounds %+v", hints)
	}
	if hints.X != -10 || hints.Y != 20 {
		t.Fatalf("unexpected position %d,%d", hints.X, hints.Y)
	}
}

func TestNormalHints_ResizableSnapsToTiles(t *testing.T) {
	hints := normalHints(WindowOptions{
		ClientSize: geometry.Size{Width: 1280, Height: 704},
		TileSize:   geometry.Size{Width: 32, Height: 32},
		Resizable:  true,
	})
	if hints.Flags&icccm.SizeHintPMaxSize != 0 {
		t.Fatal("resizable window must not pin a max size")
	}
	if hints.Flags&icccm.SizeHintPResizeInc == 0 || hints.WidthInc != 32 || hints.HeightInc != 32 {
		t.Fatalf("expected 32px resize increments, got %+v", hints)
	}
}

func TestClampHelpers(t *testing.T) {
	if got := clampInt16(-40000); got != -32768 {
		t.Fatalf("clampInt16(-40000) = %d", got)
	}
	if got := clampInt16(123); got != 123 {
		t.Fatalf("clampInt16(123) = %d", got)
	}
	if got := clampUint16(0); got != 1 {
		t.Fatalf("clampUint16(0) = %d, want 1", got)
	}
	if got := clampUint16(70000); got != 65535 {
		t.Fatalf("clampUint16(70000) = %d", got)
	}
}
