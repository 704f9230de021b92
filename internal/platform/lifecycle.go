package platform

import (
	"fmt"
	"sync"
)

// lifecycle holds the state machine shared by every provider:
// Uninitialized -> Initialized -> Running. Providers call begin before
// touching the OS and commit once the native window exists.
type lifecycle struct {
	mu      sync.Mutex
	state   State
	pending bool
	spec    Specification
	handle  NativeHandle
}

func (l *lifecycle) begin(spec *Specification) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateUninitialized || l.pending {
		return ErrAlreadyInitialized
	}
	if err := ValidateSpecification(spec); err != nil {
		return err
	}
	l.pending = true
	return nil
}

// abort releases a begin whose native window could not be created, so a
// later Initialize may try again.
func (l *lifecycle) abort() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = false
}

func (l *lifecycle) commit(spec *Specification, handle NativeHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.spec = *spec
	l.handle = handle
	l.state = StateInitialized
	l.pending = false
}

func (l *lifecycle) checkStart() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateRunning:
		return ErrAlreadyStarted
	}
	return nil
}

func (l *lifecycle) markRunning() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = StateRunning
}

// State returns the current lifecycle position.
func (l *lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Handle returns the native window, or zero before Initialize succeeds.
func (l *lifecycle) Handle() NativeHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handle
}

// Specification returns the copy taken at Initialize.
func (l *lifecycle) Specification() Specification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.spec
}

func (l *lifecycle) logStartup(impl string) {
	spec := l.Specification()
	handle := l.Handle()
	lifecycleLogger().Info("window startup",
		"name", spec.Name,
		"title", spec.Title,
		"impl", impl,
		"handle", fmt.Sprintf("0x%x", uintptr(handle)),
		"mode", spec.InitialMode.String(),
		"size", spec.Size.String(),
		"position", spec.Position.String(),
		"viewport", spec.Viewport.String(),
	)
}

func (l *lifecycle) logShutdown(impl string) {
	spec := l.Specification()
	lifecycleLogger().Info("window shutdown",
		"name", spec.Name,
		"impl", impl,
		"state", l.State().String(),
	)
}
