package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/glasspane/internal/app"
	"github.com/1broseidon/glasspane/internal/bridge"
	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/discovery"
	"github.com/1broseidon/glasspane/internal/platform"
)

// hostPollInterval is how often the host window is checked for minimize.
const hostPollInterval = 500 * time.Millisecond

// Scanner enumerates windows over a rule store.
type Scanner interface {
	Enumerate(cfg *config.Config) ([]discovery.Snapshot, error)
}

// bridgeMsg delivers one command received from the bridge.
type bridgeMsg bridge.Command

// hostTickMsg triggers a poll of the host window.
type hostTickMsg struct{}

// model is the root bubbletea model. It owns no domain state itself: every
// change goes through the controller.
type model struct {
	ctrl    *app.Controller
	scanner Scanner
	bridge  *bridge.Bridge
	host    platform.HostWindow
	publish func(app.State)
	logger  *slog.Logger
	version string
	keys    keyMap

	activeTab  Tab
	windowsTab WindowsTab
	rulesTab   RulesTab

	width  int
	height int
}

func newModel(opts Options) model {
	keys := defaultKeyMap()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := model{
		ctrl:       opts.Controller,
		scanner:    opts.Scanner,
		bridge:     opts.Bridge,
		host:       opts.Host,
		publish:    opts.Publish,
		logger:     logger,
		version:    opts.Version,
		keys:       keys,
		activeTab:  TabWindows,
		windowsTab: NewWindowsTab(keys),
		rulesTab:   NewRulesTab(keys),
	}
	m.rulesTab.Sync(m.ctrl.Config())
	return m
}

// Init implements tea.Model. The window list is scanned once at start-up.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.dispatch(app.Refresh{}), waitForCommand(m.bridge)}
	if m.host != nil {
		cmds = append(cmds, hostTick())
	}
	return tea.Batch(cmds...)
}

// waitForCommand receives one bridge command. It is re-armed after every
// delivery; once the bridge is closed it yields a no-op and stops.
func waitForCommand(b *bridge.Bridge) tea.Cmd {
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := b.Recv()
		if !ok {
			return app.Ignore{}
		}
		return bridgeMsg(c)
	}
}

func hostTick() tea.Cmd {
	return tea.Tick(hostPollInterval, func(time.Time) tea.Msg {
		return hostTickMsg{}
	})
}

// eventFor translates a bridge command into a controller event.
func eventFor(c bridge.Command) app.Event {
	switch c {
	case bridge.Show:
		return app.Show{}
	case bridge.Hide:
		return app.MinimizeToTray{}
	case bridge.Refresh:
		return app.Refresh{}
	case bridge.Exit:
		return app.Exit{}
	default:
		return app.Ignore{}
	}
}

// dispatch reduces ev and turns the resulting effect into a command.
func (m *model) dispatch(ev app.Event) tea.Cmd {
	effect := m.ctrl.Update(ev)
	st := m.ctrl.State()
	m.windowsTab.Sync(st)
	m.rulesTab.Sync(m.ctrl.Config())
	if m.publish != nil {
		m.publish(st)
	}

	switch effect {
	case app.Scan:
		return m.scanCmd()
	case app.Hide:
		if m.host != nil {
			if err := m.host.Hide(); err != nil {
				m.logger.Warn("failed to hide host window", "error", err)
			}
		}
	case app.ShowHost:
		if m.host != nil {
			if err := m.host.Show(); err != nil {
				m.logger.Warn("failed to show host window", "error", err)
			}
		}
	case app.Quit:
		return tea.Quit
	}
	return nil
}

// scanCmd enumerates off the UI goroutine over a copy of the rule store.
func (m model) scanCmd() tea.Cmd {
	cfg := m.ctrl.ScanConfig()
	scanner := m.scanner
	return func() tea.Msg {
		snaps, err := scanner.Enumerate(cfg)
		return app.ScanCompleted{Windows: snaps, Err: err}
	}
}

// resizeTabs forwards the area left for tab content to the tabs.
func (m *model) resizeTabs() {
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	sub := tea.WindowSizeMsg{Width: m.width, Height: h}
	m.windowsTab, _, _ = m.windowsTab.Update(sub, m.ctrl.State(), m.ctrl.Config().DefaultOpacity)
	m.rulesTab, _, _ = m.rulesTab.Update(sub)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case bridgeMsg:
		cmd := m.dispatch(eventFor(bridge.Command(msg)))
		return m, tea.Batch(cmd, waitForCommand(m.bridge))

	case hostTickMsg:
		var cmd tea.Cmd
		if m.ctrl.State().Visibility == app.Visible && m.host.Minimized() {
			cmd = m.dispatch(app.MinimizeToTray{})
		}
		return m, tea.Batch(cmd, hostTick())

	case app.Event:
		return m, m.dispatch(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width == 0 && msg.Height == 0 {
			return m, m.dispatch(app.Resized{})
		}
		m.resizeTabs()
		return m, nil
	}

	// The add-rule form consumes every key but ctrl+c.
	if m.activeTab == TabRules && m.rulesTab.Capturing() {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, m.dispatch(app.Exit{})
		}
		var ev app.Event
		var cmd tea.Cmd
		m.rulesTab, ev, cmd = m.rulesTab.Update(msg)
		if ev != nil {
			return m, tea.Batch(cmd, m.dispatch(ev))
		}
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Quit):
			return m, m.dispatch(app.Exit{})
		case key.Matches(km, m.keys.NextTab):
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case key.Matches(km, m.keys.PrevTab):
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(km, m.keys.WindowsTab):
			m.activeTab = TabWindows
			return m, nil
		case key.Matches(km, m.keys.RulesTab):
			m.activeTab = TabRules
			return m, nil
		}
	}

	var ev app.Event
	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindows:
		m.windowsTab, ev, cmd = m.windowsTab.Update(msg, m.ctrl.State(), m.ctrl.Config().DefaultOpacity)
	case TabRules:
		m.rulesTab, ev, cmd = m.rulesTab.Update(msg)
	}
	if ev != nil {
		return m, tea.Batch(cmd, m.dispatch(ev))
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	st := m.ctrl.State()
	statusBar := renderStatusBar(statusInfo{
		version:        m.version,
		windows:        len(st.Windows),
		scanning:       st.Scanning,
		defaultOpacity: m.ctrl.Config().DefaultOpacity,
		err:            st.Err,
	}, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.activeTab, m.width)

	var content string
	switch m.activeTab {
	case TabWindows:
		content = m.windowsTab.View(st, m.ctrl.Config().DefaultOpacity)
	case TabRules:
		content = m.rulesTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
