package dispatch

import (
	"fmt"
	"strings"
)

// The local simulator is an offline demo mode with a fixed vocabulary
// and canned outputs. It makes no attempt to mirror what the real
// backend would return for the same command text; the two paths share
// no correctness contract.

// Action is a side effect a simulated command asks the session to perform.
type Action int

const (
	ActionNone Action = iota
	ActionClear
	ActionConnect
	ActionDisconnect
)

// SimResult is the outcome of one locally simulated command.
type SimResult struct {
	Output  string
	IsError bool
	Action  Action
}

const (
	lsOutput  = "App.tsx    Button.tsx    styles.css    package.json"
	pwdOutput = "/workspace/project"

	notFoundHint = "Type 'help' for available commands."
)

var helpText = strings.Join([]string{
	"Available commands:",
	"  help         Show this help text",
	"  ls           List project files",
	"  pwd          Print working directory",
	"  clear        Clear the terminal screen",
	"  connect      Connect to the cloud sandbox",
	"  disconnect   Close the cloud connection",
	"  echo <text>  Print text",
}, "\n")

// Simulate interprets a command line against the built-in vocabulary.
// Deterministic and side-effect-free except for the returned Action,
// which the caller applies (clear screen, connect, disconnect).
func Simulate(command string) SimResult {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return SimResult{}
	}

	fields := strings.Fields(trimmed)
	switch fields[0] {
	case "help":
		return SimResult{Output: helpText}
	case "ls":
		return SimResult{Output: lsOutput}
	case "pwd":
		return SimResult{Output: pwdOutput}
	case "clear":
		return SimResult{Action: ActionClear}
	case "connect":
		return SimResult{Action: ActionConnect}
	case "disconnect":
		return SimResult{Action: ActionDisconnect}
	case "echo":
		return SimResult{Output: strings.TrimSpace(strings.TrimPrefix(trimmed, "echo"))}
	default:
		return SimResult{
			Output:  fmt.Sprintf("%s: command not found\n%s", fields[0], notFoundHint),
			IsError: true,
		}
	}
}
