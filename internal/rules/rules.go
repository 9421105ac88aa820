// Package rules decides the target opacity for a window.
package rules

import (
	"strings"

	"github.com/1broseidon/glasspane/internal/config"
)

// Resolve returns the opacity for a window with the given title and
// executable base name. Rules are scanned in stored order and the first rule
// whose title is a substring of title, or whose executable is a substring of
// executable, wins. Without a match the store's default opacity is returned;
// ok is false when there is no default either, meaning "leave unchanged".
//
// Matching is deliberately by substring: a rule for "code" also matches
// "vscode.exe" and "codecs.exe".
func Resolve(title, executable string, cfg *config.Config) (opacity int, ok bool) {
	if cfg == nil {
		return 0, false
	}
	if r, found := Match(title, executable, cfg.SpecificWindows); found {
		return r.Opacity, true
	}
	if cfg.DefaultOpacity != nil {
		return *cfg.DefaultOpacity, true
	}
	return 0, false
}

// Match returns the first rule in list matching the window.
func Match(title, executable string, list []config.WindowRule) (config.WindowRule, bool) {
	for _, r := range list {
		if Matches(r, title, executable) {
			return r, true
		}
	}
	return config.WindowRule{}, false
}

// Matches reports whether a single rule applies to the window. An inert rule
// never matches.
func Matches(r config.WindowRule, title, executable string) bool {
	if r.Title != nil && strings.Contains(title, *r.Title) {
		return true
	}
	return r.Executable != nil && strings.Contains(executable, *r.Executable)
}
