package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Handle is an opaque top-level window identifier. It is only a reference:
// the owning process may destroy the window at any time.
type Handle uintptr

// Window style bits consumed by discovery and opacity control.
const (
	StyleChild     uint32 = 0x40000000
	StylePopup     uint32 = 0x80000000
	ExStyleLayered uint32 = 0x00080000
)

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ErrUnsupported is returned on operating systems without a window backend.
var ErrUnsupported = fmt.Errorf("glasspane is not supported on %s/%s; supported: windows", runtime.GOOS, runtime.GOARCH)

// ErrInvalidHandle is returned when a handle no longer refers to a window.
var ErrInvalidHandle = errors.New("invalid window handle")

// Backend is the narrow window-manager surface used by the engine. Every
// method is safe to call with a stale handle; failures come back as errors
// and never as partially-filled values.
type Backend interface {
	// EnumWindows calls visit for every top-level window in z-order, on the
	// calling goroutine, until visit returns false.
	EnumWindows(visit func(Handle) bool) error

	IsVisible(h Handle) bool
	IsMinimized(h Handle) bool
	// RootAncestor returns the root of the parent chain; a top-level window
	// is its own root.
	RootAncestor(h Handle) Handle

	Style(h Handle) (uint32, error)
	ExStyle(h Handle) (uint32, error)
	SetExStyle(h Handle, style uint32) error

	Text(h Handle) (string, error)
	ClassName(h Handle) (string, error)
	Bounds(h Handle) (Rect, error)
	Cloaked(h Handle) (bool, error)
	// ProcessImagePath returns the full image path of the owning process.
	ProcessImagePath(h Handle) (string, error)

	// LayeredAlpha reads the constant alpha of a layered window.
	LayeredAlpha(h Handle) (uint8, error)
	// SetLayeredAlpha sets a constant alpha without a color key.
	SetLayeredAlpha(h Handle, alpha uint8) error
	// Redraw invalidates the window including its frame and repaints it now.
	Redraw(h Handle) error
}

// HostWindow controls the window glasspane itself is rendered in.
type HostWindow interface {
	Hide() error
	Show() error
	Minimized() bool
}
