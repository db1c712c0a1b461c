package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/cloudterm/internal/artifacts"
	"github.com/studiowebux/cloudterm/internal/dispatch"
	"github.com/studiowebux/cloudterm/internal/history"
	"github.com/studiowebux/cloudterm/internal/keybinds"
	"github.com/studiowebux/cloudterm/internal/session"
	"github.com/studiowebux/cloudterm/internal/syncclient"
	"github.com/studiowebux/cloudterm/internal/terminal"
	"github.com/studiowebux/cloudterm/internal/transport"
	"github.com/studiowebux/cloudterm/internal/types"
	"github.com/studiowebux/cloudterm/internal/version"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeConfirmDelete
	ModeHelp
	ModeHistory
)

// Focusable panels
const (
	panelTerminal = "terminal"
	panelTree     = "tree"
)

const (
	statusTimeout = 3 * time.Second
	errorTimeout  = 5 * time.Second
	syncTickEvery = 100 * time.Millisecond
)

// Model represents the TUI state
type Model struct {
	// Core state
	sessionMgr *session.Manager
	historyMgr *history.Manager
	keys       *keybinds.Registry

	transport  *transport.Manager
	dispatcher *dispatch.Dispatcher
	syncClient *syncclient.Client

	// Terminal panel
	screen       *terminal.Screen
	line         *terminal.LineBuffer
	theme        terminal.Theme
	terminalView viewport.Model

	// Artifact panel
	store *artifacts.Store
	tree  *TreeState

	mode         Mode
	focusedPanel string
	terminalOpen bool

	// wireChan carries inbound frames from the transport's read
	// goroutine into the bubbletea event loop.
	wireChan chan types.WireMessage

	width  int
	height int

	statusMsg string
	errorMsg  string

	deleteTargetID string
	syncTicking    bool

	historyEntries []types.CommandRecord

	version         string
	updateAvailable bool
	latestVersion   string
	updateURL       string
}

// Messages

type wireMsg types.WireMessage

type connectResultMsg struct{ err error }

type autoConnectMsg struct{}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

type ejectDoneMsg struct {
	fileCount int
	err       error
}

type syncDoneMsg struct {
	conflicts []string
	merged    types.FileMap
	err       error
}

type syncTickMsg struct{}

type historyLoadedMsg struct {
	entries []types.CommandRecord
	err     error
}

type versionCheckMsg struct {
	available     bool
	latestVersion string
	url           string
	err           error
}

// Init kicks off the wire pump, the update check and, when the session
// asks for it, a delayed autoconnect.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForWire(), m.checkVersionCmd()}
	if m.sessionMgr.AutoConnect() {
		cmds = append(cmds, tea.Tick(time.Second, func(time.Time) tea.Msg {
			return autoConnectMsg{}
		}))
	}
	return tea.Batch(cmds...)
}

// Cleanup closes the socket and the history database
func (m *Model) Cleanup() {
	m.transport.Disconnect()
	if m.historyMgr != nil {
		if err := m.historyMgr.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing history database: %v\n", err)
		}
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.MouseMsg:
		// Captured so scrolling never reaches the host terminal buffer

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case wireMsg:
		m.appendWire(types.WireMessage(msg))
		m.refreshTerminal()
		return m, m.waitForWire()

	case autoConnectMsg:
		return m, m.connectCmd()

	case connectResultMsg:
		if msg.err != nil {
			// No retry: the failure is reported once and the session
			// stays local until the user reconnects deliberately.
			m.screen.Append(terminal.LineError, fmt.Sprintf("Connection failed: %v", msg.err))
			m.refreshTerminal()
			cmd = m.setErrorMessage("Connection failed")
		} else {
			cmd = m.setStatusMessage("Connected")
		}

	case ejectDoneMsg:
		if msg.err != nil {
			cmd = m.setErrorMessage(fmt.Sprintf("Upload failed: %v", msg.err))
		} else {
			if err := m.sessionMgr.RecordSync(time.Now()); err != nil {
				fmt.Fprintf(os.Stderr, "error saving session: %v\n", err)
			}
			cmd = m.setStatusMessage(fmt.Sprintf("Uploaded %d file(s)", msg.fileCount))
		}
		m.refreshTerminal()

	case syncDoneMsg:
		if msg.err != nil {
			cmd = m.setErrorMessage(fmt.Sprintf("Sync failed: %v", msg.err))
		} else {
			if len(msg.merged) > 0 {
				m.replaceArtifacts(msg.merged)
			}
			if err := m.sessionMgr.RecordSync(time.Now()); err != nil {
				fmt.Fprintf(os.Stderr, "error saving session: %v\n", err)
			}
			if len(msg.conflicts) > 0 {
				cmd = m.setErrorMessage(fmt.Sprintf("Synced with %d conflict(s): %v", len(msg.conflicts), msg.conflicts))
			} else {
				cmd = m.setStatusMessage("Files synced")
			}
		}
		m.refreshTerminal()

	case syncTickMsg:
		// Keep repainting the badge while an operation (or its cosmetic
		// synced/error window) is showing.
		if m.syncClient.Status() != types.SyncIdle {
			return m, m.syncTick()
		}
		m.syncTicking = false

	case historyLoadedMsg:
		if msg.err != nil {
			cmd = m.setErrorMessage(fmt.Sprintf("Failed to load history: %v", msg.err))
		} else {
			m.historyEntries = msg.entries
			m.mode = ModeHistory
		}

	case versionCheckMsg:
		if msg.err == nil && msg.available {
			m.updateAvailable = true
			m.latestVersion = msg.latestVersion
			m.updateURL = msg.url
		}

	case clearStatusMsg:
		m.statusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
	}

	return m, cmd
}

// waitForWire returns a Cmd that blocks on the next inbound frame
func (m *Model) waitForWire() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.wireChan
		if !ok {
			return nil
		}
		return wireMsg(msg)
	}
}

// appendWire writes one inbound frame to the scrollback
func (m *Model) appendWire(msg types.WireMessage) {
	kind := terminal.LineOutput
	switch msg.Type {
	case types.MessageError:
		kind = terminal.LineError
	case types.MessageSystem:
		kind = terminal.LineSystem
	}
	m.screen.Append(kind, msg.Data)
}

// connectCmd dials the terminal backend off the event loop
func (m *Model) connectCmd() tea.Cmd {
	return func() tea.Msg {
		return connectResultMsg{err: m.transport.Connect()}
	}
}

func (m *Model) reconnectCmd() tea.Cmd {
	return func() tea.Msg {
		return connectResultMsg{err: m.transport.Reconnect()}
	}
}

// startEject uploads the artifact tree's files to the cloud backend.
func (m *Model) startEject() tea.Cmd {
	files := m.store.FileMap()
	if len(files) == 0 {
		return m.setErrorMessage("No artifacts to upload")
	}
	project := m.sessionMgr.ProjectName()

	eject := func() tea.Msg {
		resp, err := m.syncClient.Eject(files, project)
		if err != nil {
			return ejectDoneMsg{err: err}
		}
		return ejectDoneMsg{fileCount: resp.FileCount}
	}
	return tea.Batch(eject, m.startSyncTicks())
}

// startSync posts the artifact files for a bidirectional merge.
func (m *Model) startSync() tea.Cmd {
	files := m.store.FileMap()
	project := m.sessionMgr.ProjectName()

	sync := func() tea.Msg {
		resp, err := m.syncClient.Sync(project, files)
		if err != nil {
			return syncDoneMsg{err: err}
		}
		return syncDoneMsg{conflicts: resp.Conflicts, merged: resp.Merged}
	}
	return tea.Batch(sync, m.startSyncTicks())
}

// startSyncTicks arms the badge repaint loop once per operation
func (m *Model) startSyncTicks() tea.Cmd {
	if m.syncTicking {
		return nil
	}
	m.syncTicking = true
	return m.syncTick()
}

func (m *Model) syncTick() tea.Cmd {
	return tea.Tick(syncTickEvery, func(time.Time) tea.Msg {
		return syncTickMsg{}
	})
}

// replaceArtifacts rebuilds the store and tree from a merged file map
func (m *Model) replaceArtifacts(files types.FileMap) {
	m.store = artifacts.FromFileMap(files)
	m.tree = NewTreeState(m.store)
}

// loadHistoryCmd fetches recent commands for the history overlay
func (m *Model) loadHistoryCmd() tea.Cmd {
	if m.historyMgr == nil {
		return m.setErrorMessage("History recording is disabled")
	}
	mgr := m.historyMgr
	return func() tea.Msg {
		entries, err := mgr.List(50)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// checkVersionCmd queries the release feed in the background
func (m *Model) checkVersionCmd() tea.Cmd {
	current := m.version
	return func() tea.Msg {
		available, latest, url, err := version.CheckForUpdate(current)
		return versionCheckMsg{available: available, latestVersion: latest, url: url, err: err}
	}
}

// record persists one dispatched command when history is enabled
func (m *Model) record(command string, target dispatch.Target) {
	if m.historyMgr == nil || !m.sessionMgr.HistoryEnabled() {
		return
	}
	_ = m.historyMgr.Record(types.CommandRecord{
		Timestamp: time.Now(),
		Command:   command,
		Target:    string(target),
	})
}

// setStatusMessage shows a transient footer message
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.statusMsg = msg
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// setErrorMessage shows a transient footer error
func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.errorMsg = msg
	return tea.Tick(errorTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}
