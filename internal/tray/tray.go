// Package tray puts glasspane in the notification area. Menu clicks arrive
// on the tray's own thread and are only ever turned into bridge commands.
package tray

import (
	"log/slog"
	"runtime"
	"sync"

	"fyne.io/systray"

	"github.com/1broseidon/glasspane/internal/bridge"
)

// Tray owns the notification icon and its menu thread.
type Tray struct {
	bridge  *bridge.Bridge
	logger  *slog.Logger
	tooltip string

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a tray that posts to b. Call Start to show it.
func New(b *bridge.Bridge, tooltip string, logger *slog.Logger) *Tray {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tray{
		bridge:  b,
		logger:  logger,
		tooltip: tooltip,
		done:    make(chan struct{}),
	}
}

// Start runs the tray on a dedicated OS thread and returns immediately.
func (t *Tray) Start() {
	t.mu.Lock()
	t.started = true
	t.mu.Unlock()
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		systray.Run(t.onReady, func() {
			t.logger.Debug("tray exited")
		})
	}()
}

// Stop removes the icon and ends the menu loop.
func (t *Tray) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		t.mu.Lock()
		started := t.started
		t.mu.Unlock()
		if started {
			systray.Quit()
		}
	})
}

func (t *Tray) onReady() {
	if icon, err := trayIcon(); err != nil {
		t.logger.Warn("tray icon unavailable", "error", err)
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle("glasspane")
	systray.SetTooltip(t.tooltip)

	show := systray.AddMenuItem("Show", "Show the glasspane window")
	exit := systray.AddMenuItem("Exit", "Quit glasspane")

	go forward(t.done, show.ClickedCh, exit.ClickedCh, t.bridge)
}

func trayIcon() ([]byte, error) {
	if runtime.GOOS == "windows" {
		return IconICO()
	}
	return IconPNG()
}

// forward turns menu clicks into bridge commands until done is closed.
func forward(done <-chan struct{}, show, exit <-chan struct{}, b *bridge.Bridge) {
	for {
		select {
		case <-done:
			return
		case <-show:
			b.Send(bridge.Show)
		case <-exit:
			b.Send(bridge.Exit)
		}
	}
}
