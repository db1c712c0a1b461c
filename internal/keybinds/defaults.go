package keybinds

// NewDefaultRegistry returns the built-in keybindings. The terminal
// context binds only modifier chords; plain keys there feed the
// keystroke buffer instead.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	// Global
	r.Register(ContextGlobal, "ctrl+q", ActionQuit)
	r.Register(ContextGlobal, "ctrl+`", ActionToggleTerminal)
	r.Register(ContextGlobal, "f1", ActionHelp)
	r.Register(ContextGlobal, "tab", ActionFocusTree)

	// Terminal (modifier chords only)
	r.Register(ContextTerminal, "ctrl+o", ActionConnect)
	r.Register(ContextTerminal, "ctrl+d", ActionDisconnect)
	r.Register(ContextTerminal, "ctrl+r", ActionReconnect)
	r.Register(ContextTerminal, "ctrl+e", ActionEject)
	r.Register(ContextTerminal, "ctrl+s", ActionSyncFiles)
	r.Register(ContextTerminal, "ctrl+y", ActionCopyOutput)
	r.Register(ContextTerminal, "ctrl+h", ActionShowHistory)

	// Artifact tree
	r.Register(ContextTree, "up", ActionTreeUp)
	r.Register(ContextTree, "k", ActionTreeUp)
	r.Register(ContextTree, "down", ActionTreeDown)
	r.Register(ContextTree, "j", ActionTreeDown)
	r.Register(ContextTree, "enter", ActionTreeOpen)
	r.Register(ContextTree, " ", ActionTreeToggle)
	r.Register(ContextTree, "d", ActionTreeDelete)
	r.Register(ContextTree, "e", ActionTreeExport)
	r.Register(ContextTree, "esc", ActionFocusTerminal)

	// History overlay
	r.Register(ContextHistory, "esc", ActionCancel)
	r.Register(ContextHistory, "q", ActionCancel)

	// Confirm modal
	r.Register(ContextConfirm, "y", ActionConfirm)
	r.Register(ContextConfirm, "enter", ActionConfirm)
	r.Register(ContextConfirm, "n", ActionCancel)
	r.Register(ContextConfirm, "esc", ActionCancel)

	// Help overlay
	r.Register(ContextHelp, "esc", ActionCancel)
	r.Register(ContextHelp, "q", ActionCancel)

	return r
}
