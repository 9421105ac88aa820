package config

import "testing"

func TestPersistWindow_ReplacesRuleKeyedToSameWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpecificWindows = []WindowRule{
		{Title: String("Untitled - Notepad"), Opacity: 30},
		{Executable: String("notepad.exe"), Opacity: 20},
		{Title: String("Other"), Opacity: 90},
	}

	cfg.PersistWindow("Untitled - Notepad", "notepad.exe", 42)

	if len(cfg.SpecificWindows) != 2 {
		t.Fatalf("rules = %d, want 2: %+v", len(cfg.SpecificWindows), cfg.SpecificWindows)
	}
	if *cfg.SpecificWindows[0].Title != "Other" {
		t.Fatalf("unrelated rule not kept first")
	}
	last := cfg.SpecificWindows[1]
	if *last.Title != "Untitled - Notepad" || *last.Executable != "notepad.exe" || last.Opacity != 42 {
		t.Fatalf("persisted rule = %s", last.Describe())
	}
}

func TestPersistWindow_Twice_KeepsOneRule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PersistWindow("A", "a.exe", 10)
	cfg.PersistWindow("A", "a.exe", 20)
	if len(cfg.SpecificWindows) != 1 || cfg.SpecificWindows[0].Opacity != 20 {
		t.Fatalf("rules = %+v", cfg.SpecificWindows)
	}
}

func TestKeyed_IsExactNotSubstring(t *testing.T) {
	r := WindowRule{Title: String("Notepad"), Opacity: 50}
	if r.Keyed("Untitled - Notepad", "notepad.exe") {
		t.Fatalf("substring title must not count as the same window")
	}
	if !r.Keyed("Notepad", "") {
		t.Fatalf("exact title should be keyed")
	}
	inert := WindowRule{Opacity: 50}
	if inert.Keyed("", "") {
		t.Fatalf("inert rule must never be keyed")
	}
}

func TestRemoveRulesFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpecificWindows = []WindowRule{
		{Title: String("A"), Opacity: 1},
		{Executable: String("a.exe"), Opacity: 2},
		{Title: String("B"), Executable: String("b.exe"), Opacity: 3},
	}
	if n := cfg.RemoveRulesFor("A", "a.exe"); n != 2 {
		t.Fatalf("removed = %d, want 2", n)
	}
	if cfg.HasRuleFor("A", "a.exe") {
		t.Fatalf("rule still present")
	}
	if !cfg.HasRuleFor("B", "") {
		t.Fatalf("unrelated rule removed")
	}
}

func TestPutRule_OnlySetFieldsReplace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpecificWindows = []WindowRule{
		{Title: String("Editor"), Opacity: 10},
		{Executable: String("code.exe"), Opacity: 20},
	}
	cfg.PutRule(WindowRule{Executable: String("code.exe"), Opacity: 75})

	if len(cfg.SpecificWindows) != 2 {
		t.Fatalf("rules = %+v", cfg.SpecificWindows)
	}
	if *cfg.SpecificWindows[0].Title != "Editor" || cfg.SpecificWindows[1].Opacity != 75 {
		t.Fatalf("rules = %+v", cfg.SpecificWindows)
	}
}

func TestRemoveRuleAt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PutRule(WindowRule{Title: String("A"), Opacity: 1})
	cfg.PutRule(WindowRule{Title: String("B"), Opacity: 2})

	if err := cfg.RemoveRuleAt(5); err == nil {
		t.Fatalf("expected out of range error")
	}
	if err := cfg.RemoveRuleAt(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cfg.SpecificWindows) != 1 || *cfg.SpecificWindows[0].Title != "B" {
		t.Fatalf("rules = %+v", cfg.SpecificWindows)
	}
}

func TestStoredFor_NeedsBothFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PersistWindow("Editor - a.txt", "editor.exe", 70)
	cfg.PutRule(WindowRule{Title: String("Calculator"), Opacity: 50})

	if !cfg.StoredFor("Editor - a.txt", "editor.exe") {
		t.Fatalf("persisted window not found")
	}
	if cfg.StoredFor("Editor - b.txt", "editor.exe") {
		t.Fatalf("executable alone must not count")
	}
	if cfg.StoredFor("Calculator", "calc.exe") {
		t.Fatalf("title-only rule must not count")
	}
}
