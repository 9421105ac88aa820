package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/glasspane/internal/app"
	"github.com/1broseidon/glasspane/internal/config"
)

// ruleItem implements list.Item for one stored rule.
type ruleItem struct {
	index int
	rule  config.WindowRule
}

func (i ruleItem) Title() string {
	return fmt.Sprintf("%d. %d%%", i.index+1, i.rule.Opacity)
}

func (i ruleItem) Description() string {
	var parts []string
	if i.rule.Title != nil {
		parts = append(parts, fmt.Sprintf("title contains %q", *i.rule.Title))
	}
	if i.rule.Executable != nil {
		parts = append(parts, fmt.Sprintf("executable contains %q", *i.rule.Executable))
	}
	if len(parts) == 0 {
		return "inert: matches nothing"
	}
	return strings.Join(parts, " or ")
}

func (i ruleItem) FilterValue() string { return i.Description() }

// RulesTab shows the ordered rule list and adds rules through a form.
type RulesTab struct {
	list list.Model
	keys keyMap

	adding bool
	form   *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fTitle      string
	fExecutable string
	fOpacity    string

	width  int
	height int
	ready  bool
}

// NewRulesTab creates an empty rules tab.
func NewRulesTab(keys keyMap) RulesTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Rules (first match wins)"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return RulesTab{list: l, keys: keys}
}

// Sync rebuilds the list from the rule store.
func (rt *RulesTab) Sync(cfg *config.Config) {
	items := make([]list.Item, 0, len(cfg.SpecificWindows))
	for i, r := range cfg.SpecificWindows {
		items = append(items, ruleItem{index: i, rule: r})
	}
	cursor := rt.list.Index()
	rt.list.SetItems(items)
	if cursor >= len(items) {
		cursor = len(items) - 1
	}
	if cursor >= 0 {
		rt.list.Select(cursor)
	}
}

// Capturing reports whether the add form owns the keyboard.
func (rt RulesTab) Capturing() bool {
	return rt.adding
}

// Update returns an event when the user deletes or adds a rule.
func (rt RulesTab) Update(msg tea.Msg) (RulesTab, app.Event, tea.Cmd) {
	if rt.adding {
		return rt.updateAdding(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rt.width = msg.Width
		rt.height = msg.Height
		rt.list.SetSize(rt.width, rt.height)
		rt.ready = true
		return rt, nil, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, rt.keys.DeleteRule):
			if len(rt.list.Items()) == 0 {
				return rt, nil, nil
			}
			return rt, app.RemoveRule{Index: rt.list.Index()}, nil
		case key.Matches(msg, rt.keys.AddRule):
			rt.startAdding()
			return rt, nil, rt.form.Init()
		}
	}

	var cmd tea.Cmd
	rt.list, cmd = rt.list.Update(msg)
	return rt, nil, cmd
}

func (rt RulesTab) updateAdding(msg tea.Msg) (RulesTab, app.Event, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, rt.keys.Cancel) {
			rt.adding = false
			rt.form = nil
			return rt, nil, nil
		}
	case tea.WindowSizeMsg:
		rt.width = msg.Width
		rt.height = msg.Height
		rt.list.SetSize(rt.width, rt.height)
	}

	form, cmd := rt.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		rt.form = f
	}

	switch rt.form.State {
	case huh.StateCompleted:
		rule, err := rt.formRule()
		rt.adding = false
		rt.form = nil
		if err != nil {
			return rt, nil, nil
		}
		return rt, app.AddRule{Rule: rule}, nil
	case huh.StateAborted:
		rt.adding = false
		rt.form = nil
		return rt, nil, nil
	}
	return rt, nil, cmd
}

func (rt *RulesTab) startAdding() {
	rt.adding = true
	rt.fTitle = ""
	rt.fExecutable = ""
	rt.fOpacity = "80"

	rt.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title contains").
				Description("Leave empty to match on executable only").
				Value(&rt.fTitle),
			huh.NewInput().
				Title("Executable contains").
				Description("For example notepad.exe").
				Value(&rt.fExecutable).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" && strings.TrimSpace(rt.fTitle) == "" {
						return fmt.Errorf("set a title or an executable")
					}
					return nil
				}),
			huh.NewInput().
				Title("Opacity (0-100)").
				Value(&rt.fOpacity).
				Validate(validatePercent),
		),
	).WithShowHelp(true)
}

func (rt RulesTab) formRule() (config.WindowRule, error) {
	p, err := strconv.Atoi(strings.TrimSpace(rt.fOpacity))
	if err != nil {
		return config.WindowRule{}, err
	}
	rule := config.WindowRule{Opacity: p}
	if t := strings.TrimSpace(rt.fTitle); t != "" {
		rule.Title = config.String(t)
	}
	if e := strings.TrimSpace(rt.fExecutable); e != "" {
		rule.Executable = config.String(e)
	}
	return rule, nil
}

func validatePercent(s string) error {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if p < 0 || p > 100 {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}

// View implements tea.Model.
func (rt RulesTab) View() string {
	if !rt.ready || rt.width == 0 || rt.height == 0 {
		return ""
	}
	if rt.adding && rt.form != nil {
		title := labelStyle.Render("Add rule") + dimStyle.Render("  (esc to cancel)")
		return lipgloss.JoinVertical(lipgloss.Left, title, "", rt.form.View())
	}
	if len(rt.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(rt.width).
			Height(rt.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No rules. Press a to add one, or p on a window.")
	}
	return rt.list.View()
}
