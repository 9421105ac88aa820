package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabWindows Tab = iota
	TabRules
	tabCount // sentinel for iteration
)

func (t Tab) String() string {
	switch t {
	case TabWindows:
		return "Windows"
	case TabRules:
		return "Rules"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true)
)

// renderTabBar renders the tab bar with the given active tab and width.
func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", int(i)+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

type statusInfo struct {
	version        string
	windows        int
	scanning       bool
	defaultOpacity *int
	err            error
}

func renderStatusBar(s statusInfo, width int) string {
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	if s.scanning {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("●")
	}
	parts := []string{dot + " glasspane " + s.version}
	if s.scanning {
		parts = append(parts, "scanning…")
	} else {
		parts = append(parts, fmt.Sprintf("%d windows", s.windows))
	}
	if s.defaultOpacity != nil {
		parts = append(parts, fmt.Sprintf("default:%d%%", *s.defaultOpacity))
	} else {
		parts = append(parts, "default:off")
	}
	status := strings.Join(parts, "  ")
	if s.err != nil {
		status += "  " + errorStyle.Render("error: "+s.err.Error())
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

func renderHelpBar(tab Tab, width int) string {
	var help string
	switch tab {
	case TabWindows:
		help = "enter: select  ←/→: ±1%  shift+←/→: ±10%  p: persist  r: refresh  d: default  [/]: default ±5  h: hide  tab: rules  q: quit"
	case TabRules:
		help = "a: add rule  x: delete rule  tab: windows  q: quit"
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}

// renderSlider draws a horizontal opacity gauge of the given width.
func renderSlider(percent, width int) string {
	if width < 4 {
		width = 4
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("[%s] %3d%%", bar, percent)
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
