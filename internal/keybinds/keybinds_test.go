package keybinds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatch_ContextBeforeGlobal(t *testing.T) {
	r := NewRegistry()
	r.Register(ContextGlobal, "esc", ActionQuit)
	r.Register(ContextTree, "esc", ActionFocusTerminal)

	action, ok := r.Match(ContextTree, "esc")
	if !ok || action != ActionFocusTerminal {
		t.Errorf("Expected tree binding to win, got %q (%v)", action, ok)
	}

	action, ok = r.Match(ContextTerminal, "esc")
	if !ok || action != ActionQuit {
		t.Errorf("Expected global fallback, got %q (%v)", action, ok)
	}
}

func TestMatch_Unbound(t *testing.T) {
	r := NewDefaultRegistry()
	if _, ok := r.Match(ContextTerminal, "x"); ok {
		t.Error("Expected plain keys unbound in terminal context")
	}
}

func TestDefaults(t *testing.T) {
	r := NewDefaultRegistry()

	cases := []struct {
		context Context
		key     string
		action  Action
	}{
		{ContextGlobal, "ctrl+`", ActionToggleTerminal},
		{ContextGlobal, "ctrl+q", ActionQuit},
		{ContextTerminal, "ctrl+e", ActionEject},
		{ContextTerminal, "ctrl+s", ActionSyncFiles},
		{ContextTree, "enter", ActionTreeOpen},
		{ContextTree, " ", ActionTreeToggle},
		{ContextConfirm, "y", ActionConfirm},
		{ContextConfirm, "esc", ActionCancel},
	}
	for _, c := range cases {
		action, ok := r.Match(c.context, c.key)
		if !ok || action != c.action {
			t.Errorf("Match(%s, %q) = %q (%v), want %q", c.context, c.key, action, ok, c.action)
		}
	}
}

func TestGetBindingString(t *testing.T) {
	r := NewDefaultRegistry()

	got := r.GetBindingString(ContextTree, ActionTreeUp)
	if got != "k, up" {
		t.Errorf("Expected 'k, up', got %q", got)
	}

	if r.GetBindingString(ContextTree, Action("nope")) != "unbound" {
		t.Error("Expected 'unbound' for unknown action")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	r, err := LoadOrDefault(filepath.Join(t.TempDir(), "keybinds.json"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got: %v", err)
	}
	if _, ok := r.Match(ContextGlobal, "ctrl+q"); !ok {
		t.Error("Expected defaults when file is missing")
	}
}

func TestLoadOrDefault_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.json")
	content := `{"version":"1","terminal":{"ctrl+u":"eject"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	action, ok := r.Match(ContextTerminal, "ctrl+u")
	if !ok || action != ActionEject {
		t.Errorf("Expected override applied, got %q (%v)", action, ok)
	}

	// Defaults survive alongside overrides
	if _, ok := r.Match(ContextTerminal, "ctrl+e"); !ok {
		t.Error("Expected default binding preserved")
	}
}

func TestApplyConfig_UnknownAction(t *testing.T) {
	r := NewDefaultRegistry()
	err := ApplyConfig(r, &Config{Terminal: map[string]string{"ctrl+u": "does_not_exist"}})
	if err == nil {
		t.Error("Expected error for unknown action name")
	}
}
