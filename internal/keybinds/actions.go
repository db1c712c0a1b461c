package keybinds

// Action identifies something the TUI can do in response to a key.
type Action string

const (
	// Global actions
	ActionQuit           Action = "quit"
	ActionHelp           Action = "help"
	ActionFocusTerminal  Action = "focus_terminal"
	ActionFocusTree      Action = "focus_tree"
	ActionToggleTerminal Action = "toggle_terminal"
	ActionShowHistory    Action = "show_history"

	// Terminal actions
	ActionConnect    Action = "connect"
	ActionDisconnect Action = "disconnect"
	ActionReconnect  Action = "reconnect"
	ActionEject      Action = "eject"
	ActionSyncFiles  Action = "sync_files"
	ActionCopyOutput Action = "copy_output"

	// Tree actions
	ActionTreeUp     Action = "tree_up"
	ActionTreeDown   Action = "tree_down"
	ActionTreeToggle Action = "tree_toggle"
	ActionTreeOpen   Action = "tree_open"
	ActionTreeDelete Action = "tree_delete"
	ActionTreeExport Action = "tree_export"

	// Modal actions
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// Context is the UI area a binding applies to. The terminal context is
// intentionally sparse: printable keys there are keystrokes, not
// bindings, so only modifier chords may be bound.
type Context string

const (
	ContextGlobal   Context = "global"
	ContextTerminal Context = "terminal"
	ContextTree     Context = "tree"
	ContextHistory  Context = "history"
	ContextConfirm  Context = "confirm"
	ContextHelp     Context = "help"
)

// validActions is the set of actions user configuration may reference.
var validActions = map[Action]bool{
	ActionQuit:           true,
	ActionHelp:           true,
	ActionFocusTerminal:  true,
	ActionFocusTree:      true,
	ActionToggleTerminal: true,
	ActionShowHistory:    true,
	ActionConnect:        true,
	ActionDisconnect:     true,
	ActionReconnect:      true,
	ActionEject:          true,
	ActionSyncFiles:      true,
	ActionCopyOutput:     true,
	ActionTreeUp:         true,
	ActionTreeDown:       true,
	ActionTreeToggle:     true,
	ActionTreeOpen:       true,
	ActionTreeDelete:     true,
	ActionTreeExport:     true,
	ActionConfirm:        true,
	ActionCancel:         true,
}

// IsValidAction reports whether an action name is known.
func IsValidAction(action Action) bool {
	return validActions[action]
}
