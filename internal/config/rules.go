package config

import "fmt"

func (r WindowRule) clone() WindowRule {
	out := WindowRule{Opacity: r.Opacity}
	if r.Title != nil {
		out.Title = String(*r.Title)
	}
	if r.Executable != nil {
		out.Executable = String(*r.Executable)
	}
	return out
}

// Inert reports whether the rule has neither a title nor an executable.
func (r WindowRule) Inert() bool {
	return r.Title == nil && r.Executable == nil
}

// Keyed reports whether the rule is stored for a window with this exact
// title or executable. This is the identity used when replacing or removing
// a window's rule, not the substring policy used to resolve opacity.
func (r WindowRule) Keyed(title, executable string) bool {
	return (r.Title != nil && *r.Title == title) ||
		(r.Executable != nil && *r.Executable == executable)
}

// Describe renders the rule for logs and listings.
func (r WindowRule) Describe() string {
	title, exe := "*", "*"
	if r.Title != nil {
		title = fmt.Sprintf("%q", *r.Title)
	}
	if r.Executable != nil {
		exe = fmt.Sprintf("%q", *r.Executable)
	}
	return fmt.Sprintf("title=%s executable=%s opacity=%d%%", title, exe, r.Opacity)
}

// HasRuleFor reports whether any rule is keyed to the window.
func (c *Config) HasRuleFor(title, executable string) bool {
	for _, r := range c.SpecificWindows {
		if r.Keyed(title, executable) {
			return true
		}
	}
	return false
}

// StoredFor reports whether a rule keyed to exactly this title and
// executable exists, as PersistWindow writes it.
func (c *Config) StoredFor(title, executable string) bool {
	for _, r := range c.SpecificWindows {
		if r.Title != nil && *r.Title == title && r.Executable != nil && *r.Executable == executable {
			return true
		}
	}
	return false
}

// RemoveRulesFor deletes every rule keyed to the window and returns how many
// were removed.
func (c *Config) RemoveRulesFor(title, executable string) int {
	kept := c.SpecificWindows[:0]
	removed := 0
	for _, r := range c.SpecificWindows {
		if r.Keyed(title, executable) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	c.SpecificWindows = kept
	return removed
}

// PersistWindow stores an opacity rule for a window, first removing any rule
// keyed to the same title or executable so at most one rule per window exists.
func (c *Config) PersistWindow(title, executable string, opacity int) {
	c.PutRule(WindowRule{
		Title:      String(title),
		Executable: String(executable),
		Opacity:    opacity,
	})
}

// PutRule appends rule after removing rules keyed to its set fields.
func (c *Config) PutRule(rule WindowRule) {
	kept := c.SpecificWindows[:0]
	for _, r := range c.SpecificWindows {
		if rule.Title != nil && r.Title != nil && *r.Title == *rule.Title {
			continue
		}
		if rule.Executable != nil && r.Executable != nil && *r.Executable == *rule.Executable {
			continue
		}
		kept = append(kept, r)
	}
	c.SpecificWindows = append(kept, rule.clone())
}

// RemoveRuleAt deletes the rule at index i.
func (c *Config) RemoveRuleAt(i int) error {
	if i < 0 || i >= len(c.SpecificWindows) {
		return fmt.Errorf("rule index %d out of range (have %d rules)", i, len(c.SpecificWindows))
	}
	c.SpecificWindows = append(c.SpecificWindows[:i], c.SpecificWindows[i+1:]...)
	return nil
}
