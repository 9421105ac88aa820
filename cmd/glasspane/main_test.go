package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/opacity"
	"github.com/1broseidon/glasspane/internal/platform"
	"github.com/1broseidon/glasspane/internal/platform/platformtest"
)

func execute(t *testing.T, fake *platformtest.Backend, args ...string) (string, error) {
	t.Helper()
	old := newBackend
	newBackend = func() (platform.Backend, error) { return fake, nil }
	t.Cleanup(func() { newBackend = old })

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func tempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	return path
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"run", "list", "apply", "recover", "rules", "config", "mcp", "show", "hide", "refresh", "exit", "status"}
	found := make(map[string]bool)
	for _, c := range newRootCmd().Commands() {
		found[c.Name()] = true
	}
	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestList_AppliesRulesAndPrintsYAML(t *testing.T) {
	fake := platformtest.New(
		platformtest.Visible(1, "Untitled - Notepad", `C:\Windows\notepad.exe`),
		platformtest.Visible(2, "Calculator", `C:\Windows\calc.exe`),
	)
	path := tempConfig(t, "specific_windows:\n  - title: Notepad\n    opacity: 50\n")

	out, err := execute(t, fake, "--config", path, "list", "--format", "yaml")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"title: Untitled - Notepad", "executable: notepad.exe", "percent: 50", "title: Calculator"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	w, _ := fake.Window(1)
	if w.Alpha != opacity.AlphaFromPercent(50) {
		t.Fatalf("rule not enforced, alpha=%d", w.Alpha)
	}
}

func TestList_Table(t *testing.T) {
	fake := platformtest.New(platformtest.Visible(1, "Calculator", `C:\calc.exe`))
	out, err := execute(t, fake, "--config", tempConfig(t, ""), "list", "--format", "table")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "TRANSPARENCY") || !strings.Contains(out, "N/A") || !strings.Contains(out, "800x600") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestApply_Persist(t *testing.T) {
	fake := platformtest.New(
		platformtest.Visible(1, "Untitled - Notepad", `C:\Windows\notepad.exe`),
		platformtest.Visible(2, "Calculator", `C:\Windows\calc.exe`),
	)
	path := tempConfig(t, "")

	if _, err := execute(t, fake, "--config", path, "apply", "--executable", "notepad", "--opacity", "40", "--persist"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	w, _ := fake.Window(1)
	if w.Alpha != opacity.AlphaFromPercent(40) {
		t.Fatalf("alpha = %d", w.Alpha)
	}
	if w, _ := fake.Window(2); w.ExStyle&platform.ExStyleLayered != 0 {
		t.Fatalf("unmatched window was changed")
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rules := res.Config.SpecificWindows
	if len(rules) != 1 || *rules[0].Title != "Untitled - Notepad" || *rules[0].Executable != "notepad.exe" || rules[0].Opacity != 40 {
		t.Fatalf("rules = %+v", rules)
	}
}

func TestApply_PersistSharedExecutable(t *testing.T) {
	fake := platformtest.New(
		platformtest.Visible(1, "Editor - a.txt", `C:\editor.exe`),
		platformtest.Visible(2, "Editor - b.txt", `C:\editor.exe`),
	)
	path := tempConfig(t, "")

	out, err := execute(t, fake, "--config", path, "apply", "--executable", "editor", "--opacity", "70", "--persist")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.Contains(out, "stored 1 rule(s)") {
		t.Fatalf("out = %q", out)
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n := len(res.Config.SpecificWindows); n != 1 {
		t.Fatalf("rules = %d, want 1", n)
	}
}

func TestApply_Errors(t *testing.T) {
	fake := platformtest.New(platformtest.Visible(1, "A", `C:\a.exe`))
	path := tempConfig(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"no filter", []string{"apply", "--opacity", "40"}},
		{"out of range", []string{"apply", "--title", "A", "--opacity", "140"}},
		{"no match", []string{"apply", "--title", "zzz", "--opacity", "40"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, fake, append([]string{"--config", path}, tt.args...)...); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestRecover(t *testing.T) {
	faded := platformtest.Visible(1, "Faded", `C:\faded.exe`)
	faded.ExStyle = platform.ExStyleLayered
	faded.Alpha = 64
	fake := platformtest.New(faded, platformtest.Visible(2, "Plain", `C:\plain.exe`))
	path := tempConfig(t, "default_opacity: 30\n")

	out, err := execute(t, fake, "--config", path, "recover")
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if !strings.Contains(out, "restored 1 of 2") {
		t.Fatalf("out = %q", out)
	}
	for _, h := range []platform.Handle{1, 2} {
		if w, _ := fake.Window(h); w.ExStyle&platform.ExStyleLayered != 0 {
			t.Fatalf("window %d still layered", h)
		}
	}
}

func TestRulesCommands(t *testing.T) {
	fake := platformtest.New()
	path := tempConfig(t, "")
	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, fake, append([]string{"--config", path}, args...)...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out
	}

	run("rules", "add", "--executable", "code.exe", "--opacity", "85")
	run("rules", "add", "--executable", "code.exe", "--opacity", "70")
	run("rules", "add", "--title", "Notepad", "--opacity", "60")

	out := run("rules", "list", "--format", "yaml")
	if strings.Count(out, "executable: code.exe") != 1 || !strings.Contains(out, "opacity: 70") {
		t.Fatalf("rules list:\n%s", out)
	}

	run("rules", "default", "75")
	if out := run("rules", "default"); strings.TrimSpace(out) != "75%" {
		t.Fatalf("default = %q", out)
	}

	run("rules", "remove", "0")
	run("rules", "remove", "--title", "Notepad")
	run("rules", "default", "none")

	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.SpecificWindows) != 0 || res.Config.DefaultOpacity != nil {
		t.Fatalf("config = %+v", res.Config)
	}
}

func TestRulesCommands_Errors(t *testing.T) {
	fake := platformtest.New()
	path := tempConfig(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"add without selector", []string{"rules", "add", "--opacity", "50"}},
		{"add without opacity", []string{"rules", "add", "--title", "x"}},
		{"remove index and key", []string{"rules", "remove", "0", "--title", "x"}},
		{"remove nothing", []string{"rules", "remove"}},
		{"remove bad index", []string{"rules", "remove", "3"}},
		{"default out of range", []string{"rules", "default", "101"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, fake, append([]string{"--config", path}, tt.args...)...); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestMutationsRefuseMalformedConfig(t *testing.T) {
	const broken = "specific_windows: [oops\n"
	path := tempConfig(t, broken)

	if _, err := execute(t, platformtest.New(), "--config", path, "rules", "add", "--title", "x", "--opacity", "10"); err == nil {
		t.Fatalf("expected load error")
	}
	if _, err := execute(t, platformtest.New(), "--config", path, "config", "validate"); err == nil {
		t.Fatalf("expected validate error")
	}
	data, _ := os.ReadFile(path)
	if string(data) != broken {
		t.Fatalf("config was rewritten: %q", data)
	}
}

func TestConfigValidate_ReportsPosition(t *testing.T) {
	path := tempConfig(t, "specific_windows:\n  - title: a\n    opacity: 140\n")
	_, err := execute(t, platformtest.New(), "--config", path, "config", "validate")
	if err == nil || !strings.Contains(err.Error(), "specific_windows[0].opacity") {
		t.Fatalf("err = %v", err)
	}
}
