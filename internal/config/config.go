package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WindowRule maps a window title and/or executable substring to an opacity.
// A nil field is unset; a rule with neither field set never matches.
type WindowRule struct {
	Title      *string `yaml:"title,omitempty" json:"title,omitempty"`
	Executable *string `yaml:"executable,omitempty" json:"executable,omitempty"`
	Opacity    int     `yaml:"opacity" json:"opacity"`
}

// LoggingConfig controls the diagnostics log written while the UI runs.
type LoggingConfig struct {
	Disabled  bool   `yaml:"disabled,omitempty"`
	Level     string `yaml:"level,omitempty"`
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb,omitempty"`
	MaxFiles  int    `yaml:"max_files,omitempty"`
}

// Config is the rule store. Rule order is significant: the first matching
// rule wins.
type Config struct {
	DefaultOpacity  *int          `yaml:"default_opacity,omitempty"`
	SpecificWindows []WindowRule  `yaml:"specific_windows"`
	Logging         LoggingConfig `yaml:"logging,omitempty"`
}

// ValidationError points at the offending config path and, when loaded from
// a file, its position.
type ValidationError struct {
	Path   string
	File   string
	Line   int
	Column int
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.File, e.Line, e.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DefaultConfig returns an empty rule store.
func DefaultConfig() *Config {
	return &Config{SpecificWindows: []WindowRule{}}
}

// String returns a pointer to s, for building rules.
func String(s string) *string { return &s }

// Int returns a pointer to n, for default_opacity.
func Int(n int) *int { return &n }

// DefaultConfigPath returns <user config dir>/glasspane/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "glasspane", "config.yaml"), nil
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (c *Config) Clone() *Config {
	if c == nil {
		return DefaultConfig()
	}
	out := &Config{Logging: c.Logging}
	if c.DefaultOpacity != nil {
		out.DefaultOpacity = Int(*c.DefaultOpacity)
	}
	out.SpecificWindows = make([]WindowRule, 0, len(c.SpecificWindows))
	for _, r := range c.SpecificWindows {
		out.SpecificWindows = append(out.SpecificWindows, r.clone())
	}
	return out
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	var cfg LoggingConfig
	if c != nil {
		cfg = c.Logging
	}
	if cfg.File == "" {
		dir, err := os.UserConfigDir()
		if err != nil || dir == "" {
			dir = "."
		}
		cfg.File = filepath.Join(dir, "glasspane", "glasspane.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Validate performs strict validation of the rule store.
func (c *Config) Validate() error {
	if c.DefaultOpacity != nil {
		if err := validateOpacity(*c.DefaultOpacity); err != nil {
			return &ValidationError{Path: "default_opacity", Err: err}
		}
	}
	for i, r := range c.SpecificWindows {
		if err := validateOpacity(r.Opacity); err != nil {
			return &ValidationError{Path: fmt.Sprintf("specific_windows[%d].opacity", i), Err: err}
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("must be >= 0")}
	}
	return nil
}

// Warnings lists problems that do not prevent loading.
func (c *Config) Warnings() []string {
	var out []string
	for i, r := range c.SpecificWindows {
		if r.Inert() {
			out = append(out, fmt.Sprintf("specific_windows[%d]: rule has neither title nor executable and never matches", i))
		}
	}
	return out
}

func validateOpacity(v int) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("opacity %d out of range 0..100", v)
	}
	return nil
}

func clampOpacity(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
