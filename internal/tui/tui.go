// Package tui is the terminal front end: a window list with an opacity
// slider, the rule list, and the merge point for tray and IPC commands.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/glasspane/internal/app"
	"github.com/1broseidon/glasspane/internal/bridge"
	"github.com/1broseidon/glasspane/internal/platform"
)

// Options wires the UI to the engine.
type Options struct {
	Controller *app.Controller
	Scanner    Scanner
	// Bridge delivers commands from the tray and IPC server. May be nil.
	Bridge *bridge.Bridge
	// Host is the window the UI is drawn in. May be nil.
	Host platform.HostWindow
	// Publish, when set, receives the state after every event.
	Publish func(app.State)
	Logger  *slog.Logger
	Version string
}

// Run starts the UI and blocks until the user or a bridge command exits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the UI requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if opts.Controller == nil || opts.Scanner == nil {
		return fmt.Errorf("tui: controller and scanner are required")
	}

	program := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
