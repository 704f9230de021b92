package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tilewin/internal/geometry"
)

func TestUpdateStrutsForMonitor_BottomPanelOnPrimary(t *testing.T) {
	// Two 1920x1080 monitors side by side; a 40px panel on the left one.
	left := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	sp := &ewmh.WmStrutPartial{Bottom: 40, BottomStartX: 0, BottomEndX: 1919}

	var accLeft, accRight dockStruts
	updateStrutsForMonitor(left, 3840, 1080, sp, &accLeft)
	updateStrutsForMonitor(right, 3840, 1080, sp, &accRight)

	if accLeft.bottom != 40 {
		t.Fatalf("left monitor bottom strut = %d, want 40", accLeft.bottom)
	}
	if !accRight.empty() {
		t.Fatalf("right monitor should be unaffected, got %+v", accRight)
	}

	got := shrinkByStruts(left, accLeft)
	want := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}
	if got != want {
		t.Fatalf("shrinkByStruts() = %v, want %v", got, want)
	}
}

func TestUpdateStrutsForMonitor_KeepsLargestPerEdge(t *testing.T) {
	mon := geometry.Rect{Width: 1920, Height: 1080}
	var acc dockStruts
	updateStrutsForMonitor(mon, 1920, 1080, &ewmh.WmStrutPartial{Top: 24, TopEndX: 1919}, &acc)
	updateStrutsForMonitor(mon, 1920, 1080, &ewmh.WmStrutPartial{Top: 32, TopEndX: 1919}, &acc)
	updateStrutsForMonitor(mon, 1920, 1080, &ewmh.WmStrutPartial{Left: 64, LeftEndY: 1079}, &acc)

	if acc.top != 32 || acc.left != 64 {
		t.Fatalf("unexpected struts %+v", acc)
	}
	got := shrinkByStruts(mon, acc)
	want := geometry.Rect{X: 64, Y: 32, Width: 1856, Height: 1048}
	if got != want {
		t.Fatalf("shrinkByStruts() = %v, want %v", got, want)
	}
}

func TestFullSpanStrut(t *testing.T) {
	sp := fullSpanStrut(&ewmh.WmStrut{Right: 48}, 2560, 1440)
	if sp.RightEndY != 1439 || sp.TopEndX != 2559 {
		t.Fatalf("unexpected span %+v", sp)
	}

	var acc dockStruts
	updateStrutsForMonitor(geometry.Rect{Width: 2560, Height: 1440}, 2560, 1440, sp, &acc)
	if acc.right != 48 {
		t.Fatalf("right strut = %d, want 48", acc.right)
	}
}

func TestShrinkByStruts_NeverCollapses(t *testing.T) {
	got := shrinkByStruts(geometry.Rect{Width: 100, Height: 100}, dockStruts{left: 80, right: 80, top: 200})
	if got.Width != 1 || got.Height != 1 {
		t.Fatalf("expected 1x1 floor, got %v", got)
	}
}

func TestPickPrimary(t *testing.T) {
	tests := []struct {
		name     string
		monitors []Monitor
		want     string
	}{
		{
			name: "flagged primary",
			monitors: []Monitor{
				{Name: "HDMI-1", Bounds: geometry.Rect{Width: 1920, Height: 1080}},
				{Name: "DP-1", Primary: true, Bounds: geometry.Rect{X: 1920, Width: 2560, Height: 1440}},
			},
			want: "DP-1",
		},
		{
			name: "origin monitor",
			monitors: []Monitor{
				{Name: "left", Bounds: geometry.Rect{X: -1920, Width: 1920, Height: 1080}},
				{Name: "center", Bounds: geometry.Rect{Width: 1920, Height: 1080}},
			},
			want: "center",
		},
		{
			name: "first fallback",
			monitors: []Monitor{
				{Name: "a", Bounds: geometry.Rect{X: 100, Width: 10, Height: 10}},
				{Name: "b", Bounds: geometry.Rect{X: 200, Width: 10, Height: 10}},
			},
			want: "a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickPrimary(tt.monitors)
			if err != nil {
				t.Fatalf("pickPrimary: %v", err)
			}
			if got.Name != tt.want {
				t.Fatalf("pickPrimary() = %q, want %q", got.Name, tt.want)
			}
		})
	}

	if _, err := pickPrimary(nil); err == nil {
		t.Fatal("expected error for no monitors")
	}
}
