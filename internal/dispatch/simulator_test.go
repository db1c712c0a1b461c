package dispatch

import (
	"strings"
	"testing"
)

func TestSimulate_Ls(t *testing.T) {
	result := Simulate("ls")
	want := "App.tsx    Button.tsx    styles.css    package.json"
	if result.Output != want {
		t.Errorf("Expected %q, got %q", want, result.Output)
	}
	if result.IsError {
		t.Error("Expected ls not to be an error")
	}
}

func TestSimulate_HelpListsBuiltins(t *testing.T) {
	result := Simulate("help")
	if result.IsError {
		t.Error("Expected help not to be an error")
	}
	for _, cmd := range []string{"ls", "pwd", "clear", "connect", "disconnect", "help"} {
		if !strings.Contains(result.Output, cmd) {
			t.Errorf("Expected help text to list %q, got:\n%s", cmd, result.Output)
		}
	}
}

func TestSimulate_Pwd(t *testing.T) {
	result := Simulate("pwd")
	if result.Output != "/workspace/project" {
		t.Errorf("Expected '/workspace/project', got %q", result.Output)
	}
}

func TestSimulate_Echo(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"echo hello world", "hello world"},
		{"echo   spaced   out", "spaced   out"},
		{"echo", ""},
	}
	for _, tt := range tests {
		result := Simulate(tt.input)
		if result.Output != tt.want {
			t.Errorf("Simulate(%q).Output = %q, want %q", tt.input, result.Output, tt.want)
		}
		if result.IsError {
			t.Errorf("Simulate(%q) flagged as error", tt.input)
		}
	}
}

func TestSimulate_Actions(t *testing.T) {
	tests := []struct {
		input string
		want  Action
	}{
		{"clear", ActionClear},
		{"connect", ActionConnect},
		{"disconnect", ActionDisconnect},
		{"ls", ActionNone},
	}
	for _, tt := range tests {
		result := Simulate(tt.input)
		if result.Action != tt.want {
			t.Errorf("Simulate(%q).Action = %v, want %v", tt.input, result.Action, tt.want)
		}
	}
}

func TestSimulate_UnknownCommand(t *testing.T) {
	// Any input outside the vocabulary: always the not-found message
	// plus the help hint, never silence, never a panic.
	for _, input := range []string{"rm -rf /", "git status", "npm install", "xyzzy"} {
		result := Simulate(input)
		if !result.IsError {
			t.Errorf("Simulate(%q) should be an error", input)
		}
		if !strings.Contains(result.Output, "command not found") {
			t.Errorf("Simulate(%q) missing not-found message, got %q", input, result.Output)
		}
		if !strings.Contains(result.Output, "help") {
			t.Errorf("Simulate(%q) missing help hint, got %q", input, result.Output)
		}
	}
}

func TestSimulate_UnknownUsesFirstWord(t *testing.T) {
	result := Simulate("foo bar baz")
	if !strings.HasPrefix(result.Output, "foo: command not found") {
		t.Errorf("Expected 'foo: command not found' prefix, got %q", result.Output)
	}
}

func TestSimulate_Empty(t *testing.T) {
	result := Simulate("   ")
	if result.Output != "" || result.IsError || result.Action != ActionNone {
		t.Errorf("Expected zero result for blank input, got %+v", result)
	}
}
