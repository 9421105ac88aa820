package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/glasspane/internal/app"
	"github.com/1broseidon/glasspane/internal/discovery"
)

// windowItem implements list.Item for one enumerated window.
type windowItem struct {
	snap     discovery.Snapshot
	selected bool
}

func (i windowItem) Title() string {
	prefix := "  "
	if i.selected {
		prefix = "* "
	}
	return prefix + i.snap.Title
}

func (i windowItem) Description() string {
	return fmt.Sprintf("%s · %s", i.snap.Executable, i.snap.Transparency)
}

func (i windowItem) FilterValue() string { return i.snap.Title + " " + i.snap.Executable }

// WindowsTab lists the last scan and edits the selected window.
type WindowsTab struct {
	list   list.Model
	keys   keyMap
	width  int
	height int
	ready  bool
}

// NewWindowsTab creates an empty windows tab.
func NewWindowsTab(keys keyMap) WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return WindowsTab{list: l, keys: keys}
}

// Sync rebuilds the list from controller state, keeping the cursor where
// possible.
func (wt *WindowsTab) Sync(st app.State) {
	items := make([]list.Item, 0, len(st.Windows))
	for i, w := range st.Windows {
		items = append(items, windowItem{snap: w, selected: i == st.Selected})
	}
	cursor := wt.list.Index()
	wt.list.SetItems(items)
	if cursor >= len(items) {
		cursor = len(items) - 1
	}
	if cursor >= 0 {
		wt.list.Select(cursor)
	}
}

// Update translates keys into controller events. Keys it does not consume
// move the list cursor.
func (wt WindowsTab) Update(msg tea.Msg, st app.State, defaultOpacity *int) (WindowsTab, app.Event, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		wt.width = msg.Width
		wt.height = msg.Height
		wt.list.SetSize(wt.listWidth(), wt.height)
		wt.ready = true
		return wt, nil, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, wt.keys.Select):
			if len(wt.list.Items()) == 0 {
				return wt, nil, nil
			}
			return wt, app.Select{Index: wt.list.Index()}, nil
		case key.Matches(msg, wt.keys.Lighter):
			return wt, app.SetTransparency{Percent: clampPercent(st.Transparency + 1)}, nil
		case key.Matches(msg, wt.keys.Darker):
			return wt, app.SetTransparency{Percent: clampPercent(st.Transparency - 1)}, nil
		case key.Matches(msg, wt.keys.LighterFast):
			return wt, app.SetTransparency{Percent: clampPercent(st.Transparency + 10)}, nil
		case key.Matches(msg, wt.keys.DarkerFast):
			return wt, app.SetTransparency{Percent: clampPercent(st.Transparency - 10)}, nil
		case key.Matches(msg, wt.keys.Persist):
			return wt, app.TogglePersist{On: !st.PersistSelected}, nil
		case key.Matches(msg, wt.keys.Refresh):
			return wt, app.Refresh{}, nil
		case key.Matches(msg, wt.keys.Default):
			return wt, app.ToggleDefault{On: defaultOpacity == nil}, nil
		// The default slider only moves while the default is on; enabling it
		// is the toggle's job.
		case key.Matches(msg, wt.keys.DefaultDown):
			if defaultOpacity == nil {
				return wt, nil, nil
			}
			return wt, app.SetDefaultOpacity{Percent: clampPercent(*defaultOpacity - 5)}, nil
		case key.Matches(msg, wt.keys.DefaultUp):
			if defaultOpacity == nil {
				return wt, nil, nil
			}
			return wt, app.SetDefaultOpacity{Percent: clampPercent(*defaultOpacity + 5)}, nil
		case key.Matches(msg, wt.keys.Hide):
			return wt, app.MinimizeToTray{}, nil
		}
	}

	var cmd tea.Cmd
	wt.list, cmd = wt.list.Update(msg)
	return wt, nil, cmd
}

func (wt WindowsTab) listWidth() int {
	lw := wt.width * 55 / 100
	if lw < 30 {
		lw = 30
	}
	return lw
}

// View renders the list beside the details of the selected window.
func (wt WindowsTab) View(st app.State, defaultOpacity *int) string {
	if !wt.ready || wt.width == 0 || wt.height == 0 {
		return ""
	}

	listWidth := wt.listWidth()
	detailWidth := wt.width - listWidth - 3
	if detailWidth < 20 {
		detailWidth = 20
	}

	left := lipgloss.NewStyle().Width(listWidth).Height(wt.height).Render(wt.list.View())
	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", max(wt.height-1, 1)) + "│")
	right := wt.renderDetails(st, defaultOpacity, detailWidth)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " "+sep+" ", right)
}

func (wt WindowsTab) renderDetails(st app.State, defaultOpacity *int, width int) string {
	var b strings.Builder
	sliderWidth := width - 10

	if st.Selected < 0 || st.Selected >= len(st.Windows) {
		b.WriteString(dimStyle.Render("No window selected. Press enter on a window."))
		b.WriteString("\n\n")
	} else {
		w := st.Windows[st.Selected]
		b.WriteString(labelStyle.Render(truncate(w.Title, width)) + "\n")
		fmt.Fprintf(&b, "executable  %s\n", w.Executable)
		fmt.Fprintf(&b, "class       %s\n", w.Class)
		fmt.Fprintf(&b, "size        %dx%d\n", w.Width, w.Height)
		fmt.Fprintf(&b, "cloaked     %v\n", w.Cloaked)
		fmt.Fprintf(&b, "current     %s\n\n", w.Transparency)
		b.WriteString(labelStyle.Render("Transparency") + "\n")
		b.WriteString(renderSlider(st.Transparency, sliderWidth) + "\n")
		fmt.Fprintf(&b, "%s persist for this window\n\n", checkbox(st.PersistSelected))
	}

	b.WriteString(labelStyle.Render("Default opacity") + "\n")
	fmt.Fprintf(&b, "%s use default opacity\n", checkbox(defaultOpacity != nil))
	if defaultOpacity != nil {
		b.WriteString(renderSlider(*defaultOpacity, sliderWidth) + "\n")
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
