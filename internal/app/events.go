package app

import (
	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/discovery"
)

// Event is anything the controller reduces: user actions, bridge commands
// and host-window notifications, all delivered on the UI goroutine.
type Event interface{ isEvent() }

// Refresh requests a new enumeration.
type Refresh struct{}

// ScanCompleted carries the result of an enumeration requested by Refresh.
type ScanCompleted struct {
	Windows []discovery.Snapshot
	Err     error
}

// Select chooses the window at Index in the current snapshot list.
type Select struct{ Index int }

// SetTransparency changes the selected window's opacity.
type SetTransparency struct{ Percent int }

// TogglePersist stores or removes the selected window's rule.
type TogglePersist struct{ On bool }

// SetDefaultOpacity sets default_opacity and applies it to windows without
// an explicit rule.
type SetDefaultOpacity struct{ Percent int }

// ToggleDefault enables default_opacity at 100 or removes it.
type ToggleDefault struct{ On bool }

// AddRule stores a rule written by hand, replacing rules with the same
// title or executable.
type AddRule struct{ Rule config.WindowRule }

// RemoveRule deletes the rule at Index.
type RemoveRule struct{ Index int }

// MinimizeToTray hides the host window.
type MinimizeToTray struct{}

// Resized reports the host window's new extent. A zero extent means the
// host was minimized.
type Resized struct{ Width, Height int }

// Show restores the host window.
type Show struct{}

// Exit terminates the program.
type Exit struct{}

// Ignore is a no-op, produced when an event source has nothing to deliver.
type Ignore struct{}

func (Refresh) isEvent()           {}
func (ScanCompleted) isEvent()     {}
func (Select) isEvent()            {}
func (SetTransparency) isEvent()   {}
func (TogglePersist) isEvent()     {}
func (SetDefaultOpacity) isEvent() {}
func (ToggleDefault) isEvent()     {}
func (AddRule) isEvent()           {}
func (RemoveRule) isEvent()        {}
func (MinimizeToTray) isEvent()    {}
func (Resized) isEvent()           {}
func (Show) isEvent()              {}
func (Exit) isEvent()              {}
func (Ignore) isEvent()            {}

// Effect is a side effect the host UI must perform after an Update.
type Effect int

const (
	None Effect = iota
	// Scan asks the UI to run an enumeration off the UI goroutine over
	// ScanConfig and feed the result back as ScanCompleted.
	Scan
	// Hide asks the UI to hide and minimize the host window.
	Hide
	// ShowHost asks the UI to restore, un-minimize and focus the host window.
	ShowHost
	// Quit asks the UI to terminate.
	Quit
)

func (e Effect) String() string {
	switch e {
	case None:
		return "none"
	case Scan:
		return "scan"
	case Hide:
		return "hide"
	case ShowHost:
		return "show"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}
