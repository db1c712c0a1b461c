package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/cloudterm/internal/artifacts"
	"github.com/studiowebux/cloudterm/internal/keybinds"
	"github.com/studiowebux/cloudterm/internal/transport"
	"github.com/studiowebux/cloudterm/internal/types"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	focusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("12"))

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))

	badgeIdleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	badgeBusyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	badgeGoodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badgeErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	cursorRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	activeRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	modifiedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2)
)

// layout recomputes panel dimensions after a resize or panel toggle
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	// header + footer + panel borders
	bodyHeight := m.height - 4
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	termWidth := m.width
	if m.terminalOpen {
		termWidth = m.width * 65 / 100
	}

	m.terminalView.Width = termWidth - 2
	m.terminalView.Height = bodyHeight
	m.screen.Fit(termWidth-2, bodyHeight)
	m.refreshTerminal()
}

// refreshTerminal pushes the scrollback plus live prompt into the
// viewport, pinned to the bottom.
func (m *Model) refreshTerminal() {
	content := m.theme.RenderLines(m.screen)
	if content != "" {
		content += "\n"
	}
	content += m.theme.RenderPrompt(m.line.String())
	m.terminalView.SetContent(content)
	m.terminalView.GotoBottom()
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeHistory:
		return m.renderHistory()
	}

	header := m.renderHeader()
	body := m.renderBody()
	footer := m.renderFooter()

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	if m.mode == ModeConfirmDelete {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderConfirmDelete())
	}
	return view
}

func (m *Model) renderHeader() string {
	project := m.sessionMgr.ProjectName()
	if project == "" {
		project = "(no project)"
	}

	left := headerStyle.Render("cloudterm") + "  " + project
	right := m.connectionBadge() + "  " + m.syncBadge()
	if m.updateAvailable {
		right = badgeBusyStyle.Render("update "+m.latestVersion+" available") + "  " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) connectionBadge() string {
	switch m.transport.State() {
	case transport.StateConnected:
		return badgeGoodStyle.Render("● connected")
	case transport.StateConnecting:
		return badgeBusyStyle.Render("◐ connecting")
	default:
		return badgeIdleStyle.Render("○ offline")
	}
}

// syncBadge renders the file sync indicator straight off the client
// state, so progress and the timed revert to idle show up on repaint.
func (m *Model) syncBadge() string {
	switch m.syncClient.Status() {
	case types.SyncUploading:
		return badgeBusyStyle.Render(fmt.Sprintf("◐ uploading %d%%", m.syncClient.Progress()))
	case types.SyncDownloading:
		return badgeBusyStyle.Render("◐ downloading")
	case types.SyncSynced:
		return badgeGoodStyle.Render("● synced")
	case types.SyncError:
		return badgeErrorStyle.Render("✖ sync error")
	default:
		return badgeIdleStyle.Render("○ idle")
	}
}

func (m *Model) renderBody() string {
	treeWidth := m.width - 2
	if m.terminalOpen {
		treeWidth = m.width - m.terminalView.Width - 6
	}
	treePanel := m.renderTree(treeWidth)

	if !m.terminalOpen {
		return m.framePanel(treePanel, panelTree)
	}

	terminalPanel := m.framePanel(m.terminalView.View(), panelTerminal)
	return lipgloss.JoinHorizontal(lipgloss.Top, terminalPanel, m.framePanel(treePanel, panelTree))
}

func (m *Model) framePanel(content, panel string) string {
	style := panelStyle
	if m.focusedPanel == panel {
		style = focusedPanelStyle
	}
	return style.Render(content)
}

func (m *Model) renderTree(width int) string {
	rows := m.tree.Visible()
	if len(rows) == 0 {
		return badgeIdleStyle.Render("no artifacts")
	}

	height := m.terminalView.Height
	cursor := m.tree.Cursor()
	activeID := m.tree.ActiveID()

	var out []string
	for i, row := range rows {
		out = append(out, m.renderTreeRow(row, i == cursor, row.Node.ID == activeID, width))
	}

	// Keep the cursor on screen
	if height > 0 && len(out) > height {
		start := cursor - height/2
		if start < 0 {
			start = 0
		}
		if start+height > len(out) {
			start = len(out) - height
		}
		out = out[start : start+height]
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderTreeRow(row Row, underCursor, active bool, width int) string {
	indent := strings.Repeat("  ", row.Depth)

	icon := "•"
	if row.Node.Type == artifacts.NodeFolder {
		icon = "▸"
		if m.tree.Expanded(row.Node.ID) {
			icon = "▾"
		}
	}

	name := row.Node.Name
	if row.Node.Modified {
		name += " *"
	}

	text := fmt.Sprintf("%s%s %s", indent, icon, name)
	if width > 0 && lipgloss.Width(text) > width {
		text = text[:width]
	}

	switch {
	case underCursor:
		return cursorRowStyle.Render(text)
	case active:
		return activeRowStyle.Render(text)
	case row.Node.Modified:
		return modifiedStyle.Render(text)
	default:
		return text
	}
}

func (m *Model) renderFooter() string {
	if m.errorMsg != "" {
		return errorStyle.Render(m.errorMsg)
	}
	if m.statusMsg != "" {
		return statusStyle.Render(m.statusMsg)
	}
	hint := "f1 help · ctrl+` terminal · tab focus · ctrl+q quit"
	return badgeIdleStyle.Render(hint)
}

func (m *Model) renderConfirmDelete() string {
	name := m.deleteTargetID
	if node, ok := m.store.Get(m.deleteTargetID); ok {
		name = node.Name
	}
	body := fmt.Sprintf("Delete %q and everything under it?\n\n[y] delete    [n] cancel", name)
	return modalStyle.Render(body)
}

func (m *Model) renderHelp() string {
	lines := []string{
		headerStyle.Render("cloudterm " + m.version),
		"",
	}
	if m.updateAvailable {
		lines = append(lines,
			badgeBusyStyle.Render("Update available: "+m.latestVersion),
			badgeIdleStyle.Render(m.updateURL),
			"")
	}

	bind := func(context keybinds.Context, action keybinds.Action, what string) string {
		return fmt.Sprintf("  %-14s %s", m.keys.GetBindingString(context, action), what)
	}
	lines = append(lines,
		"Terminal",
		bind(keybinds.ContextTerminal, keybinds.ActionConnect, "connect"),
		bind(keybinds.ContextTerminal, keybinds.ActionDisconnect, "disconnect"),
		bind(keybinds.ContextTerminal, keybinds.ActionReconnect, "reconnect"),
		bind(keybinds.ContextTerminal, keybinds.ActionEject, "upload project"),
		bind(keybinds.ContextTerminal, keybinds.ActionSyncFiles, "sync files"),
		bind(keybinds.ContextTerminal, keybinds.ActionCopyOutput, "copy output"),
		bind(keybinds.ContextTerminal, keybinds.ActionShowHistory, "command history"),
		"",
		"Artifacts",
		bind(keybinds.ContextTree, keybinds.ActionTreeToggle, "expand/collapse folder"),
		bind(keybinds.ContextTree, keybinds.ActionTreeOpen, "open file"),
		bind(keybinds.ContextTree, keybinds.ActionTreeDelete, "delete subtree"),
		bind(keybinds.ContextTree, keybinds.ActionTreeExport, "export file to clipboard"),
		"",
		"Global",
		bind(keybinds.ContextGlobal, keybinds.ActionToggleTerminal, "show/hide terminal"),
		bind(keybinds.ContextGlobal, keybinds.ActionFocusTree, "switch panel"),
		bind(keybinds.ContextGlobal, keybinds.ActionQuit, "quit"),
		"",
		badgeIdleStyle.Render("esc to close"),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) renderHistory() string {
	lines := []string{headerStyle.Render("Command history"), ""}
	if len(m.historyEntries) == 0 {
		lines = append(lines, badgeIdleStyle.Render("no recorded commands"))
	}
	for _, entry := range m.historyEntries {
		stamp := entry.Timestamp.Format("15:04:05")
		marker := " "
		if entry.IsError {
			marker = errorStyle.Render("!")
		}
		lines = append(lines, fmt.Sprintf("%s %s [%s] %s", marker, stamp, entry.Target, entry.Command))
	}
	lines = append(lines, "", badgeIdleStyle.Render("esc to close"))
	return strings.Join(lines, "\n")
}
