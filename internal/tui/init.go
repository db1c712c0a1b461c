package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/cloudterm/internal/artifacts"
	"github.com/studiowebux/cloudterm/internal/config"
	"github.com/studiowebux/cloudterm/internal/dispatch"
	"github.com/studiowebux/cloudterm/internal/history"
	"github.com/studiowebux/cloudterm/internal/keybinds"
	"github.com/studiowebux/cloudterm/internal/session"
	"github.com/studiowebux/cloudterm/internal/syncclient"
	"github.com/studiowebux/cloudterm/internal/terminal"
	"github.com/studiowebux/cloudterm/internal/transport"
	"github.com/studiowebux/cloudterm/internal/types"
)

// New creates a new TUI model wired to the cloud endpoint resolved from
// the session, environment or defaults.
func New(mgr *session.Manager, appVersion string) (*Model, error) {
	endpoint := config.Endpoint(mgr.Endpoint())
	wsURL, err := config.TerminalURL(endpoint)
	if err != nil {
		return nil, err
	}

	// Inbound frames cross from the read goroutine into the event loop
	// through this channel. A slow UI drops frames rather than stalling
	// the socket.
	wireChan := make(chan types.WireMessage, 64)
	push := func(msg types.WireMessage) {
		select {
		case wireChan <- msg:
		default:
		}
	}

	tm := transport.NewManager(wsURL, push)

	syncClient := syncclient.New(endpoint, syncclient.Observers{
		OnEject: func(success bool) {
			if success {
				push(types.WireMessage{Type: types.MessageSystem, Data: "Project uploaded to cloud."})
			} else {
				push(types.WireMessage{Type: types.MessageError, Data: "Project upload failed."})
			}
		},
		OnSync: func(direction string) {
			push(types.WireMessage{Type: types.MessageSystem, Data: "Files synced (" + direction + ")."})
		},
	}, syncclient.Options{})

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return nil, err
	}

	var historyMgr *history.Manager
	if mgr.HistoryEnabled() {
		historyMgr, err = history.NewManager(config.DatabasePath)
		if err != nil {
			return nil, err
		}
	}

	// Seed the artifact tree from the working directory; an empty tree
	// is fine, artifacts also arrive via sync.
	files := types.FileMap{}
	if wd, err := os.Getwd(); err == nil {
		if loaded, err := artifacts.LoadDir(wd); err == nil {
			files = loaded
		}
	}
	store := artifacts.FromFileMap(files)

	m := &Model{
		sessionMgr:   mgr,
		historyMgr:   historyMgr,
		keys:         registry,
		transport:    tm,
		syncClient:   syncClient,
		screen:       terminal.NewScreen(80, 20),
		line:         &terminal.LineBuffer{},
		theme:        terminal.DefaultTheme(),
		terminalView: viewport.New(80, 20),
		store:        store,
		tree:         NewTreeState(store),
		mode:         ModeNormal,
		focusedPanel: panelTerminal,
		terminalOpen: true,
		wireChan:     wireChan,
		version:      appVersion,
	}

	m.dispatcher = dispatch.NewDispatcher(tm, dispatch.Observers{
		OnCommand: m.record,
	})

	m.refreshTerminal()
	return m, nil
}

// Run starts the TUI
func Run(appVersion string) error {
	if err := config.Initialize(); err != nil {
		return err
	}

	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		return err
	}

	m, err := New(mgr, appVersion)
	if err != nil {
		return err
	}
	defer m.Cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
