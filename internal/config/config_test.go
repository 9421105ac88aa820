package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.DefaultOpacity != nil {
		t.Fatalf("expected no default opacity")
	}
	if cfg.SpecificWindows == nil || len(cfg.SpecificWindows) != 0 {
		t.Fatalf("expected empty non-nil rule list")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Exists {
		t.Fatalf("expected Exists=false")
	}
	if len(res.Config.SpecificWindows) != 0 || res.Config.DefaultOpacity != nil {
		t.Fatalf("expected empty store, got %+v", res.Config)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "# empty\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.SpecificWindows) != 0 {
		t.Fatalf("expected no rules")
	}
}

func TestLoadFromPath_ParsesRulesInOrder(t *testing.T) {
	path := writeFile(t, t.TempDir(), strings.Join([]string{
		"default_opacity: 90",
		"specific_windows:",
		"  - title: Notepad",
		"    opacity: 50",
		"  - executable: notepad.exe",
		"    opacity: 80",
		"  - title: Terminal",
		"    executable: wt.exe",
		"    opacity: 70",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.DefaultOpacity == nil || *cfg.DefaultOpacity != 90 {
		t.Fatalf("default_opacity = %v, want 90", cfg.DefaultOpacity)
	}
	if len(cfg.SpecificWindows) != 3 {
		t.Fatalf("rules = %d, want 3", len(cfg.SpecificWindows))
	}
	first := cfg.SpecificWindows[0]
	if first.Title == nil || *first.Title != "Notepad" || first.Executable != nil || first.Opacity != 50 {
		t.Fatalf("first rule = %s", first.Describe())
	}
	second := cfg.SpecificWindows[1]
	if second.Title != nil || second.Executable == nil || *second.Executable != "notepad.exe" {
		t.Fatalf("second rule = %s", second.Describe())
	}
}

func TestLoadFromPath_InvalidOpacityReportsPosition(t *testing.T) {
	path := writeFile(t, t.TempDir(), strings.Join([]string{
		"specific_windows:",
		"  - title: ok",
		"    opacity: 50",
		"  - title: bad",
		"    opacity: 150",
		"",
	}, "\n"))

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "specific_windows[1].opacity" {
		t.Fatalf("path = %q", verr.Path)
	}
	if verr.Line != 5 {
		t.Fatalf("line = %d, want 5", verr.Line)
	}
	if !strings.Contains(err.Error(), path+":5:") {
		t.Fatalf("error %q missing file position", err)
	}
}

func TestLoad_MalformedFallsBackToDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "specific_windows: [unterminated\n")
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected load error to be reported")
	}
	if cfg == nil || len(cfg.SpecificWindows) != 0 || cfg.DefaultOpacity != nil {
		t.Fatalf("expected empty defaults, got %+v", cfg)
	}
}

func TestLoad_ClampsOutOfRangeValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), strings.Join([]string{
		"default_opacity: -5",
		"specific_windows:",
		"  - title: Notepad",
		"    opacity: 300",
		"",
	}, "\n"))

	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected clamping to be reported")
	}
	if *cfg.DefaultOpacity != 0 {
		t.Fatalf("default_opacity = %d, want 0", *cfg.DefaultOpacity)
	}
	if len(cfg.SpecificWindows) != 1 || cfg.SpecificWindows[0].Opacity != 100 {
		t.Fatalf("rules = %+v", cfg.SpecificWindows)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("clamped config should validate: %v", err)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.DefaultOpacity = Int(85)
	cfg.PersistWindow("Untitled - Notepad", "notepad.exe", 42)
	cfg.PutRule(WindowRule{Executable: String("code"), Opacity: 60})

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := res.Config
	if *got.DefaultOpacity != 85 || len(got.SpecificWindows) != 2 {
		t.Fatalf("reloaded = %+v", got)
	}
	if got.SpecificWindows[1].Title != nil {
		t.Fatalf("unset title should stay unset after round trip")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the config file, found %d entries", len(entries))
	}
}

func TestSaveTo_RejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultOpacity = Int(101)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.SaveTo(path); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("invalid config must not be written")
	}
}

func TestClone_IsDeep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultOpacity = Int(50)
	cfg.PersistWindow("a", "a.exe", 10)

	cp := cfg.Clone()
	*cp.DefaultOpacity = 70
	*cp.SpecificWindows[0].Title = "changed"

	if *cfg.DefaultOpacity != 50 || *cfg.SpecificWindows[0].Title != "a" {
		t.Fatalf("clone aliases original: %+v", cfg)
	}
}

func TestGetLoggingConfig_Defaults(t *testing.T) {
	got := DefaultConfig().GetLoggingConfig()
	if got.Level != "info" || got.MaxSizeMB != 10 || got.MaxFiles != 3 {
		t.Fatalf("defaults = %+v", got)
	}
	if !strings.HasSuffix(filepath.ToSlash(got.File), "glasspane/glasspane.log") {
		t.Fatalf("file = %q", got.File)
	}
}

func TestValidate_LoggingLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"
	var verr *ValidationError
	if err := cfg.Validate(); !errors.As(err, &verr) || verr.Path != "logging.level" {
		t.Fatalf("expected logging.level error, got %v", err)
	}
}

func TestWarnings_InertRule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpecificWindows = append(cfg.SpecificWindows, WindowRule{Opacity: 50})
	if w := cfg.Warnings(); len(w) != 1 {
		t.Fatalf("warnings = %v", w)
	}
}
