package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/cloudterm/internal/artifacts"
	"github.com/studiowebux/cloudterm/internal/dispatch"
	"github.com/studiowebux/cloudterm/internal/keybinds"
	"github.com/studiowebux/cloudterm/internal/terminal"
)

// handleKeyPress routes a key press by mode, then focused panel. In the
// terminal panel only bound modifier chords are treated as bindings;
// everything else is a keystroke for the line editor.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	switch m.mode {
	case ModeConfirmDelete:
		return m.handleConfirmKey(key)
	case ModeHelp:
		if action, ok := m.keys.Match(keybinds.ContextHelp, key); ok && action == keybinds.ActionCancel {
			m.mode = ModeNormal
		}
		return nil
	case ModeHistory:
		if action, ok := m.keys.Match(keybinds.ContextHistory, key); ok && action == keybinds.ActionCancel {
			m.mode = ModeNormal
		}
		return nil
	}

	if cmd, handled := m.handleGlobalKey(key); handled {
		return cmd
	}

	if m.focusedPanel == panelTree {
		return m.handleTreeKey(key)
	}
	return m.handleTerminalKey(msg)
}

func (m *Model) handleGlobalKey(key string) (tea.Cmd, bool) {
	action, ok := m.keys.Match(keybinds.ContextGlobal, key)
	if !ok {
		return nil, false
	}

	switch action {
	case keybinds.ActionQuit:
		return tea.Quit, true
	case keybinds.ActionHelp:
		m.mode = ModeHelp
		return nil, true
	case keybinds.ActionToggleTerminal:
		m.terminalOpen = !m.terminalOpen
		if !m.terminalOpen {
			m.focusedPanel = panelTree
		} else {
			m.focusedPanel = panelTerminal
		}
		m.layout()
		return nil, true
	case keybinds.ActionFocusTree:
		if m.focusedPanel == panelTree && m.terminalOpen {
			m.focusedPanel = panelTerminal
		} else {
			m.focusedPanel = panelTree
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) handleConfirmKey(key string) tea.Cmd {
	action, ok := m.keys.Match(keybinds.ContextConfirm, key)
	if !ok {
		return nil
	}
	switch action {
	case keybinds.ActionConfirm:
		removed := m.store.Delete(m.deleteTargetID)
		m.deleteTargetID = ""
		m.mode = ModeNormal
		return m.setStatusMessage(fmt.Sprintf("Deleted %d artifact(s)", removed))
	case keybinds.ActionCancel:
		m.deleteTargetID = ""
		m.mode = ModeNormal
	}
	return nil
}

func (m *Model) handleTreeKey(key string) tea.Cmd {
	action, ok := m.keys.Match(keybinds.ContextTree, key)
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionTreeUp:
		m.tree.MoveUp()
	case keybinds.ActionTreeDown:
		m.tree.MoveDown()
	case keybinds.ActionTreeToggle:
		m.tree.Toggle()
	case keybinds.ActionTreeOpen:
		if node, ok := m.tree.Open(); ok {
			return m.setStatusMessage("Opened " + m.store.Path(node.ID))
		}
	case keybinds.ActionTreeDelete:
		if node, ok := m.tree.Current(); ok {
			m.deleteTargetID = node.ID
			m.mode = ModeConfirmDelete
		}
	case keybinds.ActionTreeExport:
		node, ok := m.tree.Current()
		if !ok || node.Type != artifacts.NodeFile {
			return m.setErrorMessage("Only files can be exported")
		}
		if err := clipboard.WriteAll(node.Content); err != nil {
			return m.setErrorMessage(fmt.Sprintf("Export failed: %v", err))
		}
		return m.setStatusMessage("Exported " + node.Name + " to clipboard")
	case keybinds.ActionFocusTerminal:
		if m.terminalOpen {
			m.focusedPanel = panelTerminal
		}
	}
	return nil
}

func (m *Model) handleTerminalKey(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keys.Match(keybinds.ContextTerminal, msg.String()); ok {
		switch action {
		case keybinds.ActionConnect:
			return m.connectCmd()
		case keybinds.ActionDisconnect:
			m.disconnect()
			m.refreshTerminal()
			return nil
		case keybinds.ActionReconnect:
			return m.reconnectCmd()
		case keybinds.ActionEject:
			return m.startEject()
		case keybinds.ActionSyncFiles:
			return m.startSync()
		case keybinds.ActionCopyOutput:
			return m.copyOutput()
		case keybinds.ActionShowHistory:
			return m.loadHistoryCmd()
		}
		return nil
	}

	var cmd tea.Cmd
	switch msg.Type {
	case tea.KeyEnter:
		ks := m.line.Feed(13)
		if ks.Event == terminal.EventSubmit {
			cmd = m.submit(ks.Command)
		}
	case tea.KeyBackspace:
		m.line.Feed(127)
	case tea.KeyCtrlC:
		// Clears the pending line; it never quits the app and it is
		// not forwarded to the backend.
		pending := m.line.String()
		m.line.Feed(3)
		m.screen.Append(terminal.LineInput, pending+"^C")
	case tea.KeySpace:
		m.line.Feed(' ')
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.line.Feed(r)
		}
	}
	m.refreshTerminal()
	return cmd
}

// submit echoes and dispatches one submitted command line
func (m *Model) submit(command string) tea.Cmd {
	result, ok := m.dispatcher.Dispatch(command)
	if !ok {
		// Whitespace-only input: no echo, no history, nothing.
		return nil
	}
	m.screen.Append(terminal.LineInput, command)

	var cmd tea.Cmd
	if result.Target == dispatch.TargetRemote {
		if result.Err != nil {
			m.screen.Append(terminal.LineError, fmt.Sprintf("Send failed: %v", result.Err))
		}
		// Output arrives asynchronously through the wire pump.
	} else {
		if result.Sim.Output != "" {
			kind := terminal.LineOutput
			if result.Sim.IsError {
				kind = terminal.LineError
			}
			m.screen.Append(kind, result.Sim.Output)
		}
		switch result.Sim.Action {
		case dispatch.ActionClear:
			m.screen.Clear()
		case dispatch.ActionConnect:
			cmd = m.connectCmd()
		case dispatch.ActionDisconnect:
			m.disconnect()
		}
	}
	return cmd
}

// disconnect closes the socket and notes it in the scrollback
func (m *Model) disconnect() {
	if !m.transport.Connected() {
		m.screen.Append(terminal.LineSystem, "Not connected.")
		return
	}
	m.transport.Disconnect()
	m.screen.Append(terminal.LineSystem, "Disconnected.")
}

// copyOutput puts the raw scrollback text on the system clipboard
func (m *Model) copyOutput() tea.Cmd {
	var sb strings.Builder
	for _, line := range m.screen.Lines() {
		sb.WriteString(line.Text)
		sb.WriteByte('\n')
	}
	if err := clipboard.WriteAll(sb.String()); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Copy failed: %v", err))
	}
	return m.setStatusMessage("Output copied to clipboard")
}
