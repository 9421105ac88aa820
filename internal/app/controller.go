// Package app holds the UI-facing state and reduces events into state
// changes plus side effects. It does not know which toolkit renders it.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/discovery"
	"github.com/1broseidon/glasspane/internal/opacity"
	"github.com/1broseidon/glasspane/internal/platform"
)

// ErrNoSelection is reported when an action needs a selected window.
var ErrNoSelection = errors.New("no window selected")

// Visibility is the host window's own state, independent of target windows.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
)

func (v Visibility) String() string {
	if v == Hidden {
		return "hidden"
	}
	return "visible"
}

// Applier sets a window's opacity.
type Applier interface {
	Apply(h platform.Handle, percent int) error
}

// Options configures a Controller.
type Options struct {
	Config *config.Config
	// Save persists the rule store after every mutation.
	Save    func(*config.Config) error
	Opacity Applier
	Logger  *slog.Logger
}

// State is a read-only view for rendering.
type State struct {
	Windows []discovery.Snapshot
	// Selected is an index into Windows, or -1.
	Selected        int
	Transparency    int
	PersistSelected bool
	Visibility      Visibility
	Scanning        bool
	// Err is the last failure worth showing; cleared by the next event.
	Err error
}

// Controller owns the rule store and the snapshot list. It must only be used
// from the UI goroutine.
type Controller struct {
	cfg     *config.Config
	save    func(*config.Config) error
	opacity Applier
	logger  *slog.Logger
	state   State
}

// New creates a controller in the Visible state with nothing selected.
func New(opts Options) *Controller {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	save := opts.Save
	if save == nil {
		save = func(*config.Config) error { return nil }
	}
	return &Controller{
		cfg:     cfg,
		save:    save,
		opacity: opts.Opacity,
		logger:  logger,
		state:   State{Selected: -1, Transparency: 100},
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Config returns the live rule store. Callers must not mutate it.
func (c *Controller) Config() *config.Config {
	return c.cfg
}

// ScanConfig returns a copy of the rule store for an enumeration running on
// another goroutine.
func (c *Controller) ScanConfig() *config.Config {
	return c.cfg.Clone()
}

// SelectedWindow returns the selected snapshot.
func (c *Controller) SelectedWindow() (discovery.Snapshot, bool) {
	i := c.state.Selected
	if i < 0 || i >= len(c.state.Windows) {
		return discovery.Snapshot{}, false
	}
	return c.state.Windows[i], true
}

// Update reduces ev and returns the effect the UI must perform.
func (c *Controller) Update(ev Event) Effect {
	c.state.Err = nil

	switch ev := ev.(type) {
	case Ignore:
		return None

	case Exit:
		return Quit

	case MinimizeToTray:
		return c.hide()

	case Resized:
		if ev.Width == 0 && ev.Height == 0 {
			return c.hide()
		}
		return None

	case Show:
		c.state.Visibility = Visible
		return ShowHost

	case Refresh:
		if c.state.Scanning {
			return None
		}
		c.state.Scanning = true
		return Scan

	case ScanCompleted:
		c.state.Scanning = false
		c.state.Windows = ev.Windows
		c.state.Selected = -1
		c.state.PersistSelected = false
		c.state.Transparency = 100
		if ev.Err != nil {
			c.state.Err = ev.Err
			c.logger.Warn("window scan incomplete", "error", ev.Err)
		}
		return None

	case Select:
		c.selectWindow(ev.Index)
		return None

	case SetTransparency:
		c.setTransparency(ev.Percent)
		return None

	case TogglePersist:
		c.togglePersist(ev.On)
		return None

	case SetDefaultOpacity:
		c.setDefaultOpacity(ev.Percent)
		return None

	case AddRule:
		if ev.Rule.Inert() {
			c.state.Err = fmt.Errorf("rule needs a title or an executable")
			return None
		}
		if err := checkPercent(ev.Rule.Opacity); err != nil {
			c.state.Err = err
			return None
		}
		c.cfg.PutRule(ev.Rule)
		c.syncPersistFlag()
		c.persist()
		return None

	case RemoveRule:
		if err := c.cfg.RemoveRuleAt(ev.Index); err != nil {
			c.state.Err = err
			return None
		}
		c.syncPersistFlag()
		c.persist()
		return None

	case ToggleDefault:
		if ev.On {
			c.cfg.DefaultOpacity = config.Int(100)
		} else {
			c.cfg.DefaultOpacity = nil
		}
		c.persist()
		return None
	}
	return None
}

func (c *Controller) hide() Effect {
	if c.state.Visibility == Hidden {
		return None
	}
	c.state.Visibility = Hidden
	return Hide
}

func (c *Controller) selectWindow(i int) {
	if i < 0 || i >= len(c.state.Windows) {
		c.state.Err = fmt.Errorf("select window %d: %w", i, ErrNoSelection)
		return
	}
	w := c.state.Windows[i]
	c.state.Selected = i
	c.state.Transparency = w.Transparency.EffectivePercent()
	c.state.PersistSelected = c.cfg.HasRuleFor(w.Title, w.Executable)
}

func (c *Controller) syncPersistFlag() {
	if w, ok := c.SelectedWindow(); ok {
		c.state.PersistSelected = c.cfg.HasRuleFor(w.Title, w.Executable)
	}
}

func (c *Controller) setTransparency(p int) {
	if err := checkPercent(p); err != nil {
		c.state.Err = err
		return
	}
	c.state.Transparency = p
	w, ok := c.SelectedWindow()
	if !ok {
		c.state.Err = ErrNoSelection
		return
	}
	if c.apply(w, p) {
		c.state.Windows[c.state.Selected].Transparency = transparencyOf(p)
	}
	if c.state.PersistSelected {
		c.cfg.PersistWindow(w.Title, w.Executable, p)
		c.persist()
	}
}

func (c *Controller) togglePersist(on bool) {
	c.state.PersistSelected = on
	w, ok := c.SelectedWindow()
	if !ok {
		c.state.Err = ErrNoSelection
		return
	}
	if on {
		c.cfg.PersistWindow(w.Title, w.Executable, c.state.Transparency)
	} else {
		c.cfg.RemoveRulesFor(w.Title, w.Executable)
	}
	c.persist()
}

func (c *Controller) setDefaultOpacity(p int) {
	if err := checkPercent(p); err != nil {
		c.state.Err = err
		return
	}
	c.cfg.DefaultOpacity = config.Int(p)
	for i, w := range c.state.Windows {
		if c.cfg.HasRuleFor(w.Title, w.Executable) {
			continue
		}
		if c.apply(w, p) {
			c.state.Windows[i].Transparency = transparencyOf(p)
		}
	}
	c.persist()
}

func (c *Controller) apply(w discovery.Snapshot, p int) bool {
	if c.opacity == nil {
		return false
	}
	if err := c.opacity.Apply(w.Handle, p); err != nil {
		c.logger.Warn("failed to apply opacity",
			"handle", uintptr(w.Handle),
			"title", w.Title,
			"opacity", p,
			"error", err,
		)
		c.state.Err = fmt.Errorf("set opacity for %q: %w", w.Title, err)
		return false
	}
	return true
}

// persist writes the rule store through. A failed save is surfaced, since
// the requested persistence did not happen.
func (c *Controller) persist() {
	if err := c.save(c.cfg); err != nil {
		c.logger.Error("failed to save config", "error", err)
		c.state.Err = fmt.Errorf("save config: %w", err)
	}
}

func checkPercent(p int) error {
	if p < 0 || p > 100 {
		return fmt.Errorf("%w: %d", opacity.ErrInvalidPercent, p)
	}
	return nil
}

func transparencyOf(p int) discovery.Transparency {
	if p >= 100 {
		return discovery.Transparency{}
	}
	return discovery.Transparency{Percent: p, Valid: true}
}
