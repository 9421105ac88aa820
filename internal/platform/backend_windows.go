//go:build windows

package platform

import (
	"fmt"

	"github.com/1broseidon/glasspane/internal/win32"
)

// WindowsBackend adapts the win32 syscall layer to the Backend interface.
type WindowsBackend struct{}

var _ Backend = (*WindowsBackend)(nil)

// NewBackend returns the backend for the current OS.
func NewBackend() (Backend, error) {
	return &WindowsBackend{}, nil
}

func (b *WindowsBackend) EnumWindows(visit func(Handle) bool) error {
	return win32.EnumWindows(func(hwnd win32.HWND) bool {
		return visit(Handle(hwnd))
	})
}

func (b *WindowsBackend) IsVisible(h Handle) bool   { return win32.IsWindowVisible(win32.HWND(h)) }
func (b *WindowsBackend) IsMinimized(h Handle) bool { return win32.IsIconic(win32.HWND(h)) }

func (b *WindowsBackend) RootAncestor(h Handle) Handle {
	return Handle(win32.GetAncestor(win32.HWND(h), win32.GA_ROOT))
}

func (b *WindowsBackend) Style(h Handle) (uint32, error) {
	return win32.GetWindowLong(win32.HWND(h), win32.GWL_STYLE)
}

func (b *WindowsBackend) ExStyle(h Handle) (uint32, error) {
	return win32.GetWindowLong(win32.HWND(h), win32.GWL_EXSTYLE)
}

func (b *WindowsBackend) SetExStyle(h Handle, style uint32) error {
	_, err := win32.SetWindowLong(win32.HWND(h), win32.GWL_EXSTYLE, style)
	return err
}

func (b *WindowsBackend) Text(h Handle) (string, error) {
	return win32.GetWindowText(win32.HWND(h))
}

func (b *WindowsBackend) ClassName(h Handle) (string, error) {
	return win32.GetClassName(win32.HWND(h))
}

func (b *WindowsBackend) Bounds(h Handle) (Rect, error) {
	r, err := win32.GetWindowRect(win32.HWND(h))
	if err != nil {
		return Rect{}, err
	}
	return Rect{
		X:      int(r.Left),
		Y:      int(r.Top),
		Width:  int(r.Right - r.Left),
		Height: int(r.Bottom - r.Top),
	}, nil
}

func (b *WindowsBackend) Cloaked(h Handle) (bool, error) {
	return win32.IsCloaked(win32.HWND(h))
}

func (b *WindowsBackend) ProcessImagePath(h Handle) (string, error) {
	pid, err := win32.WindowProcessID(win32.HWND(h))
	if err != nil {
		return "", err
	}
	path, err := win32.ProcessImagePath(pid)
	if err != nil {
		return "", fmt.Errorf("pid %d: %w", pid, err)
	}
	return path, nil
}

func (b *WindowsBackend) LayeredAlpha(h Handle) (uint8, error) {
	return win32.GetLayeredAlpha(win32.HWND(h))
}

func (b *WindowsBackend) SetLayeredAlpha(h Handle, alpha uint8) error {
	return win32.SetLayeredAlpha(win32.HWND(h), alpha)
}

func (b *WindowsBackend) Redraw(h Handle) error {
	return win32.RedrawFrame(win32.HWND(h))
}

// ConsoleHost controls the console window hosting the terminal UI.
type ConsoleHost struct {
	hwnd win32.HWND
}

var _ HostWindow = (*ConsoleHost)(nil)

// NewHostWindow returns the host window of the current process.
func NewHostWindow() (HostWindow, error) {
	hwnd := win32.GetConsoleWindow()
	if hwnd == 0 {
		return nil, fmt.Errorf("process has no console window")
	}
	return &ConsoleHost{hwnd: hwnd}, nil
}

// Hide hides and minimizes the console window.
func (c *ConsoleHost) Hide() error {
	win32.ShowWindow(c.hwnd, win32.SW_MINIMIZE)
	win32.ShowWindow(c.hwnd, win32.SW_HIDE)
	return nil
}

// Show restores the console window and requests input focus.
func (c *ConsoleHost) Show() error {
	win32.ShowWindow(c.hwnd, win32.SW_SHOW)
	win32.ShowWindow(c.hwnd, win32.SW_RESTORE)
	if !win32.SetForegroundWindow(c.hwnd) {
		return fmt.Errorf("foreground request for console window was refused")
	}
	return nil
}

// Minimized reports whether the console window is iconic.
func (c *ConsoleHost) Minimized() bool {
	return win32.IsIconic(c.hwnd)
}
