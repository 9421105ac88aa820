//go:build windows

package win32

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// HWND is a top-level window handle.
type HWND = windows.HWND

const (
	GWL_STYLE   int32 = -16
	GWL_EXSTYLE int32 = -20

	GA_ROOT = 2

	LWA_ALPHA = 0x00000002

	RDW_INVALIDATE = 0x0001
	RDW_UPDATENOW  = 0x0100
	RDW_FRAME      = 0x0400

	SW_HIDE     = 0
	SW_SHOW     = 5
	SW_MINIMIZE = 6
	SW_RESTORE  = 9

	dwmwaCloaked = 14
	classNameLen = 256
	imagePathLen = 1024
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	dwmapi   = windows.NewLazySystemDLL("dwmapi.dll")

	procEnumWindows                = user32.NewProc("EnumWindows")
	procGetWindowTextW             = user32.NewProc("GetWindowTextW")
	procIsIconic                   = user32.NewProc("IsIconic")
	procGetAncestor                = user32.NewProc("GetAncestor")
	procGetWindowLongW             = user32.NewProc("GetWindowLongW")
	procSetWindowLongW             = user32.NewProc("SetWindowLongW")
	procGetLayeredWindowAttributes = user32.NewProc("GetLayeredWindowAttributes")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	procRedrawWindow               = user32.NewProc("RedrawWindow")
	procGetWindowRect              = user32.NewProc("GetWindowRect")
	procShowWindow                 = user32.NewProc("ShowWindow")
	procSetForegroundWindow        = user32.NewProc("SetForegroundWindow")
	procGetConsoleWindow           = kernel32.NewProc("GetConsoleWindow")
	procSetLastError               = kernel32.NewProc("SetLastError")
	procDwmGetWindowAttribute      = dwmapi.NewProc("DwmGetWindowAttribute")
)

// EnumWindows routes through one callback created at package init. Per-call
// visitors are looked up by the id passed as the callback's LPARAM, since
// NewCallback slots are never released.
var (
	enumMu       sync.Mutex
	enumNextID   uintptr
	enumVisitors = map[uintptr]func(HWND) bool{}
	enumCallback = windows.NewCallback(enumWindowsProc)
)

func enumWindowsProc(hwnd HWND, lparam uintptr) uintptr {
	enumMu.Lock()
	visit := enumVisitors[lparam]
	enumMu.Unlock()
	if visit == nil || !visit(hwnd) {
		return 0
	}
	return 1
}

// EnumWindows visits every top-level window synchronously on the calling
// goroutine until visit returns false.
func EnumWindows(visit func(HWND) bool) error {
	enumMu.Lock()
	enumNextID++
	id := enumNextID
	enumVisitors[id] = visit
	enumMu.Unlock()

	defer func() {
		enumMu.Lock()
		delete(enumVisitors, id)
		enumMu.Unlock()
	}()

	r, _, err := procEnumWindows.Call(enumCallback, id)
	if r == 0 && lastErrorSet(err) {
		return fmt.Errorf("EnumWindows: %w", err)
	}
	return nil
}

func lastErrorSet(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno != 0
}

func clearLastError() {
	procSetLastError.Call(0)
}

func IsWindowVisible(hwnd HWND) bool {
	return windows.IsWindowVisible(hwnd)
}

func IsIconic(hwnd HWND) bool {
	r, _, _ := procIsIconic.Call(uintptr(hwnd))
	return r != 0
}

func GetAncestor(hwnd HWND, flags uint32) HWND {
	r, _, _ := procGetAncestor.Call(uintptr(hwnd), uintptr(flags))
	return HWND(r)
}

// GetWindowLong reads a 32-bit window attribute such as GWL_EXSTYLE.
func GetWindowLong(hwnd HWND, index int32) (uint32, error) {
	clearLastError()
	r, _, err := procGetWindowLongW.Call(uintptr(hwnd), uintptr(index))
	if r == 0 && lastErrorSet(err) {
		return 0, fmt.Errorf("GetWindowLongW(%d): %w", index, err)
	}
	return uint32(r), nil
}

// SetWindowLong writes a 32-bit window attribute and returns the previous value.
func SetWindowLong(hwnd HWND, index int32, value uint32) (uint32, error) {
	clearLastError()
	r, _, err := procSetWindowLongW.Call(uintptr(hwnd), uintptr(index), uintptr(value))
	if r == 0 && lastErrorSet(err) {
		return 0, fmt.Errorf("SetWindowLongW(%d): %w", index, err)
	}
	return uint32(r), nil
}

// GetWindowText reads at most MaxTextLen UTF-16 code units of window text.
func GetWindowText(hwnd HWND) (string, error) {
	buf := make([]uint16, MaxTextLen+1)
	clearLastError()
	r, _, err := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r == 0 {
		if lastErrorSet(err) {
			return "", fmt.Errorf("GetWindowTextW: %w", err)
		}
		return "", nil
	}
	return decodeBuffer(buf, int(r)), nil
}

func GetClassName(hwnd HWND) (string, error) {
	buf := make([]uint16, classNameLen)
	n, err := windows.GetClassName(hwnd, &buf[0], int32(len(buf)))
	if err != nil {
		return "", fmt.Errorf("GetClassNameW: %w", err)
	}
	return decodeBuffer(buf, int(n)), nil
}

func GetWindowRect(hwnd HWND) (windows.Rect, error) {
	var r windows.Rect
	ok, _, err := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	if ok == 0 {
		return windows.Rect{}, fmt.Errorf("GetWindowRect: %w", err)
	}
	return r, nil
}

// IsCloaked reports the DWM cloak state (e.g. a window on another virtual desktop).
func IsCloaked(hwnd HWND) (bool, error) {
	if err := procDwmGetWindowAttribute.Find(); err != nil {
		return false, err
	}
	var cloaked uint32
	hr, _, _ := procDwmGetWindowAttribute.Call(
		uintptr(hwnd),
		dwmwaCloaked,
		uintptr(unsafe.Pointer(&cloaked)),
		unsafe.Sizeof(cloaked),
	)
	if hr != 0 {
		return false, fmt.Errorf("DwmGetWindowAttribute: HRESULT 0x%08x", uint32(hr))
	}
	return cloaked != 0, nil
}

// WindowProcessID resolves the id of the process that owns hwnd.
func WindowProcessID(hwnd HWND) (uint32, error) {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
		return 0, fmt.Errorf("GetWindowThreadProcessId: %w", err)
	}
	if pid == 0 {
		return 0, fmt.Errorf("GetWindowThreadProcessId: no owning process")
	}
	return pid, nil
}

// ProcessImagePath opens pid with limited query rights and returns its image path.
func ProcessImagePath(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", fmt.Errorf("OpenProcess: %w", err)
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, imagePathLen)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("QueryFullProcessImageNameW: %w", err)
	}
	return decodeBuffer(buf, int(size)), nil
}

// GetLayeredAlpha returns the constant alpha of a layered window. A layered
// window without LWA_ALPHA is fully opaque.
func GetLayeredAlpha(hwnd HWND) (uint8, error) {
	var (
		key   uint32
		alpha uint8
		flags uint32
	)
	r, _, err := procGetLayeredWindowAttributes.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&key)),
		uintptr(unsafe.Pointer(&alpha)),
		uintptr(unsafe.Pointer(&flags)),
	)
	if r == 0 {
		return 0, fmt.Errorf("GetLayeredWindowAttributes: %w", err)
	}
	if flags&LWA_ALPHA == 0 {
		return 255, nil
	}
	return alpha, nil
}

// SetLayeredAlpha applies constant-alpha blending with no color key.
func SetLayeredAlpha(hwnd HWND, alpha uint8) error {
	r, _, err := procSetLayeredWindowAttributes.Call(uintptr(hwnd), 0, uintptr(alpha), LWA_ALPHA)
	if r == 0 {
		return fmt.Errorf("SetLayeredWindowAttributes: %w", err)
	}
	return nil
}

// RedrawFrame invalidates the window including its frame and repaints it immediately.
func RedrawFrame(hwnd HWND) error {
	r, _, err := procRedrawWindow.Call(uintptr(hwnd), 0, 0, RDW_FRAME|RDW_INVALIDATE|RDW_UPDATENOW)
	if r == 0 {
		return fmt.Errorf("RedrawWindow: %w", err)
	}
	return nil
}

func GetConsoleWindow() HWND {
	r, _, _ := procGetConsoleWindow.Call()
	return HWND(r)
}

func ShowWindow(hwnd HWND, cmd int32) bool {
	r, _, _ := procShowWindow.Call(uintptr(hwnd), uintptr(cmd))
	return r != 0
}

func SetForegroundWindow(hwnd HWND) bool {
	r, _, _ := procSetForegroundWindow.Call(uintptr(hwnd))
	return r != 0
}
