//go:build windows

package platform

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	_CS_HREDRAW = 0x0002
	_CS_VREDRAW = 0x0001
	_CS_OWNDC   = 0x0020

	_IDC_ARROW = 32512

	_SM_CXSCREEN    = 0
	_SM_CYSCREEN    = 1
	_SM_CXMAXIMIZED = 61
	_SM_CYMAXIMIZED = 62

	_SPI_GETWORKAREA = 0x0030

	_SW_SHOWNORMAL    = 1
	_SW_SHOWMINIMIZED = 2
	_SW_SHOWMAXIMIZED = 3
	_SW_SHOW          = 5

	_WM_CLOSE   = 0x0010
	_WM_DESTROY = 0x0002
)

type rect struct {
	left, top, right, bottom int32
}

type point struct {
	x, y int32
}

type msg struct {
	hwnd     windows.HWND
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

type wndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cnClsExtra    int32
	cbWndExtra    int32
	hInstance     windows.Handle
	hIcon         windows.Handle
	hCursor       windows.Handle
	hbrBackground windows.Handle
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       windows.Handle
}

var (
	kernel32          = windows.NewLazySystemDLL("kernel32.dll")
	_GetModuleHandleW = kernel32.NewProc("GetModuleHandleW")

	user32                 = windows.NewLazySystemDLL("user32.dll")
	_AdjustWindowRectEx    = user32.NewProc("AdjustWindowRectEx")
	_CreateWindowEx        = user32.NewProc("CreateWindowExW")
	_DefWindowProc         = user32.NewProc("DefWindowProcW")
	_DispatchMessage       = user32.NewProc("DispatchMessageW")
	_GetMessage            = user32.NewProc("GetMessageW")
	_GetSystemMetrics      = user32.NewProc("GetSystemMetrics")
	_LoadCursor            = user32.NewProc("LoadCursorW")
	_PostMessage           = user32.NewProc("PostMessageW")
	_PostQuitMessage       = user32.NewProc("PostQuitMessage")
	_RegisterClassExW      = user32.NewProc("RegisterClassExW")
	_ShowWindow            = user32.NewProc("ShowWindow")
	_SystemParametersInfoW = user32.NewProc("SystemParametersInfoW")
	_TranslateMessage      = user32.NewProc("TranslateMessage")
	_UpdateWindow          = user32.NewProc("UpdateWindow")
)

func getModuleHandle() (windows.Handle, error) {
	h, _, err := _GetModuleHandleW.Call(uintptr(0))
	if h == 0 {
		return 0, fmt.Errorf("GetModuleHandleW failed: %v", err)
	}
	return windows.Handle(h), nil
}

func adjustWindowRectEx(r *rect, dwStyle uint32, bMenu int, dwExStyle uint32) error {
	ok, _, err := _AdjustWindowRectEx.Call(uintptr(unsafe.Pointer(r)), uintptr(dwStyle), uintptr(bMenu), uintptr(dwExStyle))
	if ok == 0 {
		return fmt.Errorf("AdjustWindowRectEx failed: %v", err)
	}
	return nil
}

func createWindowEx(dwExStyle uint32, lpClassName uint16, lpWindowName string, dwStyle uint32, x, y, w, h int32, hWndParent windows.HWND, hInstance windows.Handle) (windows.HWND, error) {
	title, err := windows.UTF16PtrFromString(lpWindowName)
	if err != nil {
		return 0, err
	}
	hwnd, _, err := _CreateWindowEx.Call(
		uintptr(dwExStyle),
		uintptr(lpClassName),
		uintptr(unsafe.Pointer(title)),
		uintptr(dwStyle),
		uintptr(x), uintptr(y),
		uintptr(w), uintptr(h),
		uintptr(hWndParent),
		0,
		uintptr(hInstance),
		0)
	if hwnd == 0 {
		return 0, fmt.Errorf("CreateWindowEx failed: %v", err)
	}
	return windows.HWND(hwnd), nil
}

func defWindowProc(hwnd, msg, wparam, lparam uintptr) uintptr {
	r, _, _ := _DefWindowProc.Call(hwnd, msg, wparam, lparam)
	return r
}

func dispatchMessage(m *msg) {
	_DispatchMessage.Call(uintptr(unsafe.Pointer(m)))
}

func getMessage(m *msg, hwnd windows.HWND, wMsgFilterMin, wMsgFilterMax uint32) int32 {
	r, _, _ := _GetMessage.Call(uintptr(unsafe.Pointer(m)),
		uintptr(hwnd),
		uintptr(wMsgFilterMin),
		uintptr(wMsgFilterMax))
	return int32(r)
}

func getSystemMetrics(nIndex int) int32 {
	r, _, _ := _GetSystemMetrics.Call(uintptr(nIndex))
	return int32(r)
}

func loadCursor(curID uint16) (windows.Handle, error) {
	h, _, err := _LoadCursor.Call(0, uintptr(curID))
	if h == 0 {
		return 0, fmt.Errorf("LoadCursorW failed: %v", err)
	}
	return windows.Handle(h), nil
}

func postMessage(hwnd windows.HWND, msg uint32, wParam, lParam uintptr) error {
	r, _, err := _PostMessage.Call(uintptr(hwnd), uintptr(msg), wParam, lParam)
	if r == 0 {
		return fmt.Errorf("PostMessage failed: %v", err)
	}
	return nil
}

func postQuitMessage(exitCode uintptr) {
	_PostQuitMessage.Call(exitCode)
}

func registerClassEx(cls *wndClassEx) (uint16, error) {
	a, _, err := _RegisterClassExW.Call(uintptr(unsafe.Pointer(cls)))
	if a == 0 {
		return 0, fmt.Errorf("RegisterClassExW failed: %v", err)
	}
	return uint16(a), nil
}

func showWindow(hwnd windows.HWND, nCmdShow int32) {
	_ShowWindow.Call(uintptr(hwnd), uintptr(nCmdShow))
}

func systemWorkArea() (rect, error) {
	var r rect
	ok, _, err := _SystemParametersInfoW.Call(_SPI_GETWORKAREA, 0, uintptr(unsafe.Pointer(&r)), 0)
	if ok == 0 {
		return rect{}, fmt.Errorf("SystemParametersInfoW(SPI_GETWORKAREA) failed: %v", err)
	}
	return r, nil
}

func translateMessage(m *msg) {
	_TranslateMessage.Call(uintptr(unsafe.Pointer(m)))
}

func updateWindow(hwnd windows.HWND) {
	_UpdateWindow.Call(uintptr(hwnd))
}
