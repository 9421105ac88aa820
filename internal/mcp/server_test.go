package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/opacity"
	"github.com/1broseidon/glasspane/internal/platform/platformtest"
)

func newTestServer(t *testing.T, windows ...*platformtest.Window) (*Server, *platformtest.Backend, string) {
	t.Helper()
	fake := platformtest.New(windows...)
	path := filepath.Join(t.TempDir(), "config.yaml")
	return NewServer(Options{Backend: fake, ConfigPath: path}), fake, path
}

func loadRules(t *testing.T, path string) *config.Config {
	t.Helper()
	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return res.Config
}

func TestListWindows(t *testing.T) {
	s, _, _ := newTestServer(t,
		platformtest.Visible(1, "Untitled - Notepad", `C:\notepad.exe`),
		platformtest.Visible(2, "Calculator", `C:\calc.exe`),
	)

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Windows) != 2 || out.Windows[0].Transparency != "N/A" {
		t.Fatalf("windows = %+v", out.Windows)
	}

	_, out, err = s.handleListWindows(context.Background(), nil, ListWindowsInput{Executable: "calc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Windows) != 1 || out.Windows[0].Handle != 2 {
		t.Fatalf("filtered = %+v", out.Windows)
	}
}

func TestSetOpacity_ByHandleAndPersist(t *testing.T) {
	s, fake, path := newTestServer(t,
		platformtest.Visible(1, "Untitled - Notepad", `C:\notepad.exe`),
		platformtest.Visible(2, "Calculator", `C:\calc.exe`),
	)
	h := uint64(1)

	_, out, err := s.handleSetOpacity(context.Background(), nil, SetOpacityInput{Handle: &h, Opacity: 42, Persist: true})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(out.Applied) != 1 || out.Applied[0].Transparency != "42%" || out.Persisted != 1 {
		t.Fatalf("out = %+v", out)
	}
	w, _ := fake.Window(1)
	if w.Alpha != opacity.AlphaFromPercent(42) {
		t.Fatalf("alpha = %d", w.Alpha)
	}

	cfg := loadRules(t, path)
	if len(cfg.SpecificWindows) != 1 || cfg.SpecificWindows[0].Opacity != 42 {
		t.Fatalf("rules = %+v", cfg.SpecificWindows)
	}
}

func TestSetOpacity_PersistCountsStoredRules(t *testing.T) {
	s, _, path := newTestServer(t,
		platformtest.Visible(1, "Editor - a.txt", `C:\editor.exe`),
		platformtest.Visible(2, "Editor - b.txt", `C:\editor.exe`),
	)

	_, out, err := s.handleSetOpacity(context.Background(), nil, SetOpacityInput{Executable: "editor", Opacity: 70, Persist: true})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(out.Applied) != 2 || out.Persisted != 1 {
		t.Fatalf("applied=%d persisted=%d, want 2 windows and 1 rule", len(out.Applied), out.Persisted)
	}
	rules := loadRules(t, path).SpecificWindows
	if len(rules) != 1 || *rules[0].Title != "Editor - b.txt" {
		t.Fatalf("rules = %+v", rules)
	}
}

func TestSetOpacity_Validation(t *testing.T) {
	s, _, _ := newTestServer(t, platformtest.Visible(1, "A", `C:\a.exe`))

	if _, _, err := s.handleSetOpacity(context.Background(), nil, SetOpacityInput{Title: "A", Opacity: 101}); !errors.Is(err, opacity.ErrInvalidPercent) {
		t.Fatalf("err = %v", err)
	}
	if _, _, err := s.handleSetOpacity(context.Background(), nil, SetOpacityInput{Opacity: 50}); err == nil {
		t.Fatalf("expected selector error")
	}
	if _, _, err := s.handleSetOpacity(context.Background(), nil, SetOpacityInput{Title: "nothing", Opacity: 50}); err == nil {
		t.Fatalf("expected no-match error")
	}
}

func TestSetOpacity_ReportsFailures(t *testing.T) {
	broken := platformtest.Visible(1, "Editor broken", `C:\editor.exe`)
	broken.FailSetStyle = true
	s, _, _ := newTestServer(t, broken, platformtest.Visible(2, "Editor ok", `C:\editor.exe`))

	_, out, err := s.handleSetOpacity(context.Background(), nil, SetOpacityInput{Executable: "editor", Opacity: 60})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(out.Applied) != 1 || len(out.Failed) != 1 || out.Failed[0].Title != "Editor broken" {
		t.Fatalf("out = %+v", out)
	}
}

func TestRulesLifecycle(t *testing.T) {
	s, fake, path := newTestServer(t, platformtest.Visible(1, "Loose", `C:\loose.exe`))
	ctx := context.Background()

	p := 70
	_, def, err := s.handleSetDefaultOpacity(ctx, nil, SetDefaultOpacityInput{Opacity: &p})
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if def.DefaultOpacity == nil || *def.DefaultOpacity != 70 || def.Windows != 1 {
		t.Fatalf("default out = %+v", def)
	}
	w, _ := fake.Window(1)
	if w.Alpha != opacity.AlphaFromPercent(70) {
		t.Fatalf("default not enforced by rescan, alpha=%d", w.Alpha)
	}

	cfg := loadRules(t, path)
	cfg.PutRule(config.WindowRule{Title: config.String("Loose"), Opacity: 30})
	cfg.PutRule(config.WindowRule{Executable: config.String(""), Opacity: 20})
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, rules, err := s.handleListRules(ctx, nil, ListRulesInput{})
	if err != nil {
		t.Fatalf("list rules: %v", err)
	}
	if len(rules.Rules) != 2 || *rules.DefaultOpacity != 70 {
		t.Fatalf("rules = %+v", rules)
	}

	_, removed, err := s.handleRemoveRule(ctx, nil, RemoveRuleInput{Title: "Loose"})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.Removed != 1 {
		t.Fatalf("removed = %d, want only the title rule", removed.Removed)
	}
	if _, _, err := s.handleRemoveRule(ctx, nil, RemoveRuleInput{}); err == nil {
		t.Fatalf("expected error for empty remove")
	}

	_, def, err = s.handleSetDefaultOpacity(ctx, nil, SetDefaultOpacityInput{})
	if err != nil {
		t.Fatalf("clear default: %v", err)
	}
	if def.DefaultOpacity != nil || loadRules(t, path).DefaultOpacity != nil {
		t.Fatalf("default not cleared")
	}
}

func TestMalformedRulesAreNotOverwritten(t *testing.T) {
	s, _, path := newTestServer(t, platformtest.Visible(1, "A", `C:\a.exe`))
	if err := os.WriteFile(path, []byte("specific_windows: [oops\n"), 0644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	p := 50
	if _, _, err := s.handleSetDefaultOpacity(context.Background(), nil, SetDefaultOpacityInput{Opacity: &p}); err == nil {
		t.Fatalf("expected load error")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "specific_windows: [oops\n" {
		t.Fatalf("file was rewritten: %q", data)
	}
}
