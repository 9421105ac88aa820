package mcp

import "github.com/1broseidon/glasspane/internal/discovery"

// WindowInfo describes one enumerated window.
type WindowInfo struct {
	Handle       uint64 `json:"handle"`
	Title        string `json:"title"`
	Executable   string `json:"executable"`
	Class        string `json:"class"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Cloaked      bool   `json:"cloaked"`
	Transparency string `json:"transparency"`
}

func windowInfo(s discovery.Snapshot) WindowInfo {
	return WindowInfo{
		Handle:       uint64(s.Handle),
		Title:        s.Title,
		Executable:   s.Executable,
		Class:        s.Class,
		Width:        s.Width,
		Height:       s.Height,
		Cloaked:      s.Cloaked,
		Transparency: s.Transparency.String(),
	}
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Title      string `json:"title,omitempty" jsonschema:"Only windows whose title contains this text"`
	Executable string `json:"executable,omitempty" jsonschema:"Only windows whose executable name contains this text"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// SetOpacityInput is the input for the set_opacity tool.
type SetOpacityInput struct {
	Handle     *uint64 `json:"handle,omitempty" jsonschema:"Window handle from list_windows. Takes precedence over title and executable."`
	Title      string  `json:"title,omitempty" jsonschema:"Apply to every window whose title contains this text"`
	Executable string  `json:"executable,omitempty" jsonschema:"Apply to every window whose executable name contains this text"`
	Opacity    int     `json:"opacity" jsonschema:"Opacity percentage from 0 (invisible) to 100 (opaque)"`
	Persist    bool    `json:"persist,omitempty" jsonschema:"When true, store a rule per window so the opacity is re-applied on later scans. A window's rule replaces rules with the same title or executable, so windows of one executable keep only the last rule."`
}

// FailedWindow reports a window whose opacity could not be changed.
type FailedWindow struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// SetOpacityOutput is the output for the set_opacity tool.
type SetOpacityOutput struct {
	Applied   []WindowInfo   `json:"applied"`
	Failed    []FailedWindow `json:"failed,omitempty"`
	// Persisted is the number of rules stored, not windows.
	Persisted int            `json:"persisted"`
}

// ListRulesInput is the input for the list_rules tool.
type ListRulesInput struct{}

// RuleInfo describes one stored rule.
type RuleInfo struct {
	Index      int     `json:"index"`
	Title      *string `json:"title,omitempty"`
	Executable *string `json:"executable,omitempty"`
	Opacity    int     `json:"opacity"`
}

// ListRulesOutput is the output for the list_rules tool.
type ListRulesOutput struct {
	DefaultOpacity *int       `json:"default_opacity,omitempty"`
	Rules          []RuleInfo `json:"rules"`
}

// RemoveRuleInput is the input for the remove_rule tool.
type RemoveRuleInput struct {
	Title      string `json:"title,omitempty" jsonschema:"Remove rules whose title is exactly this text"`
	Executable string `json:"executable,omitempty" jsonschema:"Remove rules whose executable is exactly this text"`
}

// RemoveRuleOutput is the output for the remove_rule tool.
type RemoveRuleOutput struct {
	Removed int `json:"removed"`
}

// SetDefaultOpacityInput is the input for the set_default_opacity tool.
type SetDefaultOpacityInput struct {
	Opacity *int `json:"opacity,omitempty" jsonschema:"Default opacity 0-100 for windows without a rule. Omit to remove the default."`
}

// SetDefaultOpacityOutput is the output for the set_default_opacity tool.
type SetDefaultOpacityOutput struct {
	DefaultOpacity *int `json:"default_opacity,omitempty"`
	// Windows is the number of windows rescanned with the new rules.
	Windows int `json:"windows"`
}
