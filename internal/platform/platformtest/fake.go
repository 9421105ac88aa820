// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/glasspane/internal/platform"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected failure")

// Window is the state of one fake top-level window.
type Window struct {
	Handle    platform.Handle
	Title     string
	Class     string
	ImagePath string
	Bounds    platform.Rect
	Cloaked   bool
	Visible   bool
	Minimized bool
	// Owner, when set, makes RootAncestor report that handle.
	Owner   platform.Handle
	Style   uint32
	ExStyle uint32
	Alpha   uint8

	FailImagePath bool
	FailSetStyle  bool
	FailSetAlpha  bool
	FailClass     bool
	FailBounds    bool
	FailCloaked   bool
}

// Backend is a platform.Backend over a fixed z-ordered set of windows.
type Backend struct {
	mu      sync.Mutex
	order   []platform.Handle
	windows map[platform.Handle]*Window

	// EnumErr, when set, is returned after all windows were visited.
	EnumErr error

	Redraws    map[platform.Handle]int
	SetStyles  map[platform.Handle]int
	SetAlphas  map[platform.Handle]int
	EnumVisits int
}

var _ platform.Backend = (*Backend)(nil)

// New returns a fake with the given windows in z-order.
func New(windows ...*Window) *Backend {
	b := &Backend{
		windows:   make(map[platform.Handle]*Window),
		Redraws:   make(map[platform.Handle]int),
		SetStyles: make(map[platform.Handle]int),
		SetAlphas: make(map[platform.Handle]int),
	}
	for _, w := range windows {
		b.Add(w)
	}
	return b
}

// Add appends a window at the bottom of the z-order.
func (b *Backend) Add(w *Window) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.order = append(b.order, w.Handle)
	b.windows[w.Handle] = w
}

// Remove destroys a window; later calls with its handle fail.
func (b *Backend) Remove(h platform.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, h)
	for i, o := range b.order {
		if o == h {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Window returns a copy of the current window state.
func (b *Backend) Window(h platform.Handle) (Window, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[h]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Visible returns a plain visible, top-level window.
func Visible(h platform.Handle, title, imagePath string) *Window {
	return &Window{
		Handle:    h,
		Title:     title,
		ImagePath: imagePath,
		Class:     "FakeWindowClass",
		Visible:   true,
		Bounds:    platform.Rect{Width: 800, Height: 600},
		Alpha:     255,
	}
}

func (b *Backend) get(h platform.Handle) (*Window, error) {
	w, ok := b.windows[h]
	if !ok {
		return nil, fmt.Errorf("handle %#x: %w", uintptr(h), platform.ErrInvalidHandle)
	}
	return w, nil
}

func (b *Backend) EnumWindows(visit func(platform.Handle) bool) error {
	b.mu.Lock()
	order := append([]platform.Handle(nil), b.order...)
	b.mu.Unlock()

	for _, h := range order {
		b.mu.Lock()
		b.EnumVisits++
		b.mu.Unlock()
		if !visit(h) {
			return nil
		}
	}
	return b.EnumErr
}

func (b *Backend) IsVisible(h platform.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	return err == nil && w.Visible
}

func (b *Backend) IsMinimized(h platform.Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	return err == nil && w.Minimized
}

func (b *Backend) RootAncestor(h platform.Handle) platform.Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return 0
	}
	if w.Owner != 0 {
		return w.Owner
	}
	return h
}

func (b *Backend) Style(h platform.Handle) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return 0, err
	}
	return w.Style, nil
}

func (b *Backend) ExStyle(h platform.Handle) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return 0, err
	}
	return w.ExStyle, nil
}

func (b *Backend) SetExStyle(h platform.Handle, style uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return err
	}
	if w.FailSetStyle {
		return ErrInjected
	}
	b.SetStyles[h]++
	w.ExStyle = style
	return nil
}

func (b *Backend) Text(h platform.Handle) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return "", err
	}
	return w.Title, nil
}

func (b *Backend) ClassName(h platform.Handle) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return "", err
	}
	if w.FailClass {
		return "", ErrInjected
	}
	return w.Class, nil
}

func (b *Backend) Bounds(h platform.Handle) (platform.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return platform.Rect{}, err
	}
	if w.FailBounds {
		return platform.Rect{}, ErrInjected
	}
	return w.Bounds, nil
}

func (b *Backend) Cloaked(h platform.Handle) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return false, err
	}
	if w.FailCloaked {
		return false, ErrInjected
	}
	return w.Cloaked, nil
}

func (b *Backend) ProcessImagePath(h platform.Handle) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return "", err
	}
	if w.FailImagePath || w.ImagePath == "" {
		return "", ErrInjected
	}
	return w.ImagePath, nil
}

func (b *Backend) LayeredAlpha(h platform.Handle) (uint8, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return 0, err
	}
	if w.ExStyle&platform.ExStyleLayered == 0 {
		return 0, fmt.Errorf("window %#x is not layered", uintptr(h))
	}
	return w.Alpha, nil
}

func (b *Backend) SetLayeredAlpha(h platform.Handle, alpha uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, err := b.get(h)
	if err != nil {
		return err
	}
	if w.FailSetAlpha {
		return ErrInjected
	}
	if w.ExStyle&platform.ExStyleLayered == 0 {
		return fmt.Errorf("window %#x is not layered", uintptr(h))
	}
	b.SetAlphas[h]++
	w.Alpha = alpha
	return nil
}

func (b *Backend) Redraw(h platform.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.get(h); err != nil {
		return err
	}
	b.Redraws[h]++
	return nil
}

// Host is a fake platform.HostWindow.
type Host struct {
	mu        sync.Mutex
	hidden    bool
	minimized bool
	Shows     int
	Hides     int
}

var _ platform.HostWindow = (*Host)(nil)

func (h *Host) Hide() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hidden = true
	h.minimized = true
	h.Hides++
	return nil
}

func (h *Host) Show() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hidden = false
	h.minimized = false
	h.Shows++
	return nil
}

func (h *Host) Minimized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.minimized
}

// SetMinimized simulates the user minimizing the host window.
func (h *Host) SetMinimized(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.minimized = v
}

// Hidden reports whether Hide was the last visibility call.
func (h *Host) Hidden() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hidden
}
