package platform

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestQueryInstance_IdentityStable(t *testing.T) {
	a := QueryInstance()
	b := QueryInstance()
	if a == nil {
		t.Fatal("QueryInstance returned nil")
	}
	if a != b {
		t.Fatal("QueryInstance must return the same instance on every call")
	}
	if a.InterfaceID() != InterfaceID {
		t.Fatalf("InterfaceID() = %s, want %s", a.InterfaceID(), InterfaceID)
	}
	if a.ImplementationID() != ImplementationID {
		t.Fatalf("ImplementationID() = %s, want %s", a.ImplementationID(), ImplementationID)
	}
}

func TestIdentitiesDistinct(t *testing.T) {
	if InterfaceID == ImplementationID {
		t.Fatal("interface and implementation identities must differ")
	}
	if InterfaceID == uuid.Nil || ImplementationID == uuid.Nil {
		t.Fatal("identities must not be nil")
	}
}

func TestImplements(t *testing.T) {
	w := newPlatformWindow()
	if !Implements(w, InterfaceID) {
		t.Fatal("provider must implement the window interface")
	}
	if !Implements(w, ImplementationID) {
		t.Fatal("provider must report its own implementation id")
	}
	if Implements(w, uuid.MustParse("11111111-2222-4333-8444-555555555555")) {
		t.Fatal("unrelated id must not match")
	}
	if Implements(w, uuid.Nil) {
		t.Fatal("nil id must not match")
	}
	if Implements("not a window", InterfaceID) {
		t.Fatal("values without identities implement nothing")
	}
}

func TestInitialize_RejectsInvalidBeforeOS(t *testing.T) {
	w := newPlatformWindow()
	spec := validSpec()
	spec.Version = 0
	if err := w.Initialize(spec); !errors.Is(err, ErrInvalidSpecification) {
		t.Fatalf("expected ErrInvalidSpecification, got %v", err)
	}
	if w.State() != StateUninitialized {
		t.Fatalf("state = %s, want uninitialized", w.State())
	}
	if err := w.Startup(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Startup before Initialize: expected ErrNotInitialized, got %v", err)
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	var l lifecycle
	spec := validSpec()
	if err := l.begin(spec); err != nil {
		t.Fatalf("begin: %v", err)
	}
	l.commit(spec, 0x2a)
	if l.Handle() != 0x2a {
		t.Fatalf("Handle() = %#x, want 0x2a", l.Handle())
	}
	l.logStartup("test")

	out := buf.String()
	for _, want := range []string{"window startup", "name=tilewin", "impl=test", "handle=0x2a", "size=1296x743"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %q missing %q", out, want)
		}
	}
}
