// Package discovery enumerates the top-level windows of other processes,
// enforces configured opacity rules on them and captures their metadata.
package discovery

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/opacity"
	"github.com/1broseidon/glasspane/internal/platform"
	"github.com/1broseidon/glasspane/internal/rules"
)

// Enumerator scans windows. Scans are serialized; a scan is not read-only
// because matching rules are applied as each window is visited.
type Enumerator struct {
	mu      sync.Mutex
	backend platform.Backend
	opacity *opacity.Controller
	logger  *slog.Logger
}

// NewEnumerator creates an enumerator. A nil logger discards output.
func NewEnumerator(backend platform.Backend, logger *slog.Logger) *Enumerator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enumerator{
		backend: backend,
		opacity: opacity.NewController(backend),
		logger:  logger,
	}
}

// Opacity returns the controller used to apply rules.
func (e *Enumerator) Opacity() *opacity.Controller {
	return e.opacity
}

// Enumerate visits every top-level window in z-order and returns a snapshot
// of each one that passes the top-level filter and has a title. Per-window
// failures degrade individual fields; only a failure of the enumeration
// primitive itself is returned, together with what was collected so far.
func (e *Enumerator) Enumerate(cfg *config.Config) ([]Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Snapshot
	err := e.backend.EnumWindows(func(h platform.Handle) bool {
		if snap, ok := e.inspect(h, cfg); ok {
			out = append(out, snap)
		}
		return true
	})
	if err != nil {
		return out, fmt.Errorf("enumerate windows: %w", err)
	}
	return out, nil
}

// TopLevel reports whether h is a visible, non-minimized window that is its
// own root and is neither a popup nor a child.
func (e *Enumerator) TopLevel(h platform.Handle) bool {
	if !e.backend.IsVisible(h) || e.backend.IsMinimized(h) {
		return false
	}
	if e.backend.RootAncestor(h) != h {
		return false
	}
	style, err := e.backend.Style(h)
	if err != nil {
		return false
	}
	return style&(platform.StylePopup|platform.StyleChild) == 0
}

func (e *Enumerator) inspect(h platform.Handle, cfg *config.Config) (Snapshot, bool) {
	if !e.TopLevel(h) {
		return Snapshot{}, false
	}

	title, err := e.backend.Text(h)
	if err != nil || title == "" {
		return Snapshot{}, false
	}

	exe := UnknownExecutable
	if path, err := e.backend.ProcessImagePath(h); err == nil {
		exe = ExecutableName(path)
	} else {
		e.logger.Debug("executable unavailable", "handle", uintptr(h), "title", title, "error", err)
	}

	if target, ok := rules.Resolve(title, exe, cfg); ok {
		if err := e.opacity.Apply(h, target); err != nil {
			e.logger.Warn("failed to apply opacity",
				"handle", uintptr(h),
				"title", title,
				"executable", exe,
				"opacity", target,
				"error", err,
			)
		}
	}

	snap := Snapshot{
		Handle:     h,
		Title:      title,
		Executable: exe,
	}
	if class, err := e.backend.ClassName(h); err == nil {
		snap.Class = class
	}
	if r, err := e.backend.Bounds(h); err == nil {
		snap.Width, snap.Height = r.Width, r.Height
	}
	if cloaked, err := e.backend.Cloaked(h); err == nil {
		snap.Cloaked = cloaked
	}
	if p, ok := e.opacity.Current(h); ok {
		snap.Transparency = Transparency{Percent: p, Valid: true}
	}
	return snap, true
}
