//go:build windows

package platform

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/google/uuid"
	"golang.org/x/sys/windows"

	"github.com/1broseidon/tilewin/internal/geometry"
)

// ImplementationID identifies the win32 provider.
var ImplementationID = uuid.MustParse("a41d5b6e-92c3-4f08-8d7a-6e0c3b1f2a95")

const implName = "win32"

// win32Window is the windows provider. The native window and its message
// pump live on one locked OS thread started by Initialize.
type win32Window struct {
	lifecycle

	hwnd windows.HWND

	closeOnce sync.Once
	closed    chan struct{}
}

var _ Window = (*win32Window)(nil)

var (
	classOnce sync.Once
	classAtom uint16
	classErr  error
)

func newPlatformWindow() Window {
	return &win32Window{closed: make(chan struct{})}
}

func (w *win32Window) InterfaceID() uuid.UUID      { return InterfaceID }
func (w *win32Window) ImplementationID() uuid.UUID { return ImplementationID }

type createResult struct {
	hwnd windows.HWND
	err  error
}

func (w *win32Window) Initialize(spec *Specification) error {
	if err := w.begin(spec); err != nil {
		return err
	}

	created := make(chan createResult, 1)
	go w.run(*spec, created)
	res := <-created
	if res.err != nil {
		w.abort()
		return res.err
	}

	w.hwnd = res.hwnd
	w.commit(spec, NativeHandle(res.hwnd))
	return nil
}

// run creates the window and pumps its messages until WM_QUIT. Win32 ties a
// window to the thread that created it, so both happen here.
func (w *win32Window) run(spec Specification, created chan<- createResult) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hwnd, err := createNativeWindow(spec)
	created <- createResult{hwnd: hwnd, err: err}
	if err != nil {
		return
	}

	var m msg
	for getMessage(&m, 0, 0, 0) > 0 {
		translateMessage(&m)
		dispatchMessage(&m)
	}
	w.markClosed()
}

func createNativeWindow(spec Specification) (windows.HWND, error) {
	hInst, err := getModuleHandle()
	if err != nil {
		return 0, err
	}
	classOnce.Do(func() {
		classAtom, classErr = registerWindowClass(hInst)
	})
	if classErr != nil {
		return 0, classErr
	}

	style := spec.Style
	parent := windows.HWND(spec.NativeHandle)
	if parent != 0 {
		style = (style &^ StylePopup) | StyleChild
	}
	hwnd, err := createWindowEx(
		spec.ExStyle,
		classAtom,
		spec.Title,
		style|StyleClipSiblings|StyleClipChildren,
		spec.Position.X, spec.Position.Y,
		int32(spec.Size.Width), int32(spec.Size.Height),
		parent,
		hInst,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create window %q: %w", spec.Name, err)
	}
	return hwnd, nil
}

func registerWindowClass(hInst windows.Handle) (uint16, error) {
	curs, err := loadCursor(_IDC_ARROW)
	if err != nil {
		return 0, err
	}
	name, err := windows.UTF16PtrFromString("TilewinMainWindow")
	if err != nil {
		return 0, err
	}
	wcls := wndClassEx{
		cbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
		style:         _CS_HREDRAW | _CS_VREDRAW | _CS_OWNDC,
		lpfnWndProc:   windows.NewCallback(windowProc),
		hInstance:     hInst,
		hCursor:       curs,
		lpszClassName: name,
	}
	return registerClassEx(&wcls)
}

func windowProc(hwnd, msg, wParam, lParam uintptr) uintptr {
	if msg == _WM_DESTROY {
		postQuitMessage(0)
		return 0
	}
	return defWindowProc(hwnd, msg, wParam, lParam)
}

func (w *win32Window) Startup() error {
	if err := w.checkStart(); err != nil {
		return err
	}
	showWindow(w.hwnd, showCommand(w.Specification().InitialMode))
	updateWindow(w.hwnd)
	w.markRunning()
	w.logStartup(implName)
	return nil
}

func showCommand(mode Mode) int32 {
	switch mode {
	case ModeMaximized:
		return _SW_SHOWMAXIMIZED
	case ModeMinimized:
		return _SW_SHOWMINIMIZED
	case ModeWindowed:
		return _SW_SHOWNORMAL
	default:
		return _SW_SHOW
	}
}

func (w *win32Window) Shutdown() error {
	w.logShutdown(implName)
	return nil
}

func (w *win32Window) Wait(ctx context.Context) error {
	if w.State() == StateUninitialized {
		return ErrNotInitialized
	}
	select {
	case <-w.closed:
		return nil
	case <-ctx.Done():
		_ = postMessage(w.hwnd, _WM_CLOSE, 0, 0)
		return ctx.Err()
	}
}

func (w *win32Window) markClosed() {
	w.closeOnce.Do(func() { close(w.closed) })
}

type win32Metrics struct{}

func newPlatformMetrics() geometry.Metrics {
	return win32Metrics{}
}

func (win32Metrics) MaximizedSize() geometry.Size {
	return geometry.Size{
		Width:  nonNegative(getSystemMetrics(_SM_CXMAXIMIZED)),
		Height: nonNegative(getSystemMetrics(_SM_CYMAXIMIZED)),
	}
}

func (win32Metrics) WorkArea() (geometry.Rect, error) {
	r, err := systemWorkArea()
	if err != nil {
		return geometry.Rect{}, err
	}
	return toRect(r), nil
}

func (win32Metrics) FrameInsets(style, exStyle uint32) (geometry.Insets, error) {
	var r rect
	if err := adjustWindowRectEx(&r, style, 0, exStyle); err != nil {
		return geometry.Insets{}, err
	}
	return geometry.InsetsFromAdjustedRect(r.left, r.top, r.right, r.bottom), nil
}

func primaryDisplay() (Display, error) {
	bounds := geometry.Rect{
		Width:  nonNegative(getSystemMetrics(_SM_CXSCREEN)),
		Height: nonNegative(getSystemMetrics(_SM_CYSCREEN)),
	}
	if bounds.Empty() {
		return Display{}, fmt.Errorf("GetSystemMetrics reported an empty primary screen")
	}
	usable, err := win32Metrics{}.WorkArea()
	if err != nil {
		usable = bounds
	}
	return Display{Name: "primary", Bounds: bounds, Usable: usable}, nil
}

func toRect(r rect) geometry.Rect {
	return geometry.Rect{
		X:      r.left,
		Y:      r.top,
		Width:  nonNegative(r.right - r.left),
		Height: nonNegative(r.bottom - r.top),
	}
}

func nonNegative(v int32) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}
