package geometry

import "testing"

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", Rect{0, 0, 100, 100}, Rect{50, 50, 100, 100}, Rect{50, 50, 50, 50}},
		{"contained", Rect{0, 0, 1920, 1080}, Rect{0, 0, 1920, 1040}, Rect{0, 0, 1920, 1040}},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 10, 10}, Rect{}},
		{"touching edge", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, Rect{}},
		{"negative origin", Rect{-1920, 0, 1920, 1080}, Rect{-100, 0, 3940, 1040}, Rect{-100, 0, 100, 1040}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Fatalf("%v.Intersect(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: -1920, Y: 0, Width: 1920, Height: 1080}
	if !r.Contains(Point{X: -1920, Y: 0}) {
		t.Fatalf("expected %v to contain its origin", r)
	}
	if !r.Contains(Point{X: -960, Y: 540}) {
		t.Fatalf("expected %v to contain its middle", r)
	}
	if r.Contains(Point{X: 0, Y: 0}) {
		t.Fatal("right edge should be exclusive")
	}
}

func TestInsetsFromAdjustedRect(t *testing.T) {
	got := InsetsFromAdjustedRect(-8, -31, 8, 8)
	if got != (Insets{Left: 8, Top: 31, Right: 8, Bottom: 8}) {
		t.Fatalf("InsetsFromAdjustedRect() = %+v", got)
	}
	if got.Horizontal() != 16 || got.Vertical() != 39 {
		t.Fatalf("frame adds %dx%d, want 16x39", got.Horizontal(), got.Vertical())
	}
	if z := InsetsFromAdjustedRect(0, 0, 0, 0); z != (Insets{}) {
		t.Fatalf("zero rect should give zero insets, got %+v", z)
	}
}
