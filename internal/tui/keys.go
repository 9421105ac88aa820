package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	WindowsTab key.Binding
	RulesTab   key.Binding

	Select      key.Binding
	Lighter     key.Binding
	Darker      key.Binding
	LighterFast key.Binding
	DarkerFast  key.Binding
	Persist     key.Binding
	Refresh     key.Binding
	Default     key.Binding
	DefaultDown key.Binding
	DefaultUp   key.Binding
	Hide        key.Binding

	AddRule    key.Binding
	DeleteRule key.Binding
	Cancel     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		WindowsTab: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "windows")),
		RulesTab:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "rules")),

		Select:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Lighter:     key.NewBinding(key.WithKeys("right"), key.WithHelp("←/→", "opacity ±1")),
		Darker:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "opacity -1")),
		LighterFast: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+←/→", "±10")),
		DarkerFast:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "-10")),
		Persist:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "persist")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Default:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "default on/off")),
		DefaultDown: key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "default ±5")),
		DefaultUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "default +5")),
		Hide:        key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide to tray")),

		AddRule:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add rule")),
		DeleteRule: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete rule")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}
