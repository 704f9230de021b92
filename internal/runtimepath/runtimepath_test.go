package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/tilewin-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	tests := []struct {
		name string
		want string
	}{
		{"", "tilewin.sock"},
		{"tilewin", "tilewin.sock"},
		{"roguelike", "tilewin-roguelike.sock"},
	}
	for _, tt := range tests {
		got, err := SocketPath(tt.name)
		if err != nil {
			t.Fatalf("SocketPath(%q) error: %v", tt.name, err)
		}
		if got != filepath.Join(td, tt.want) {
			t.Fatalf("SocketPath(%q) = %q, want %q", tt.name, got, filepath.Join(td, tt.want))
		}
	}
}
