package session

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/studiowebux/cloudterm/internal/config"
	"github.com/studiowebux/cloudterm/internal/types"
)

// Manager handles the persisted session state: last project name,
// endpoint override, last sync timestamp and the autoconnect flag.
type Manager struct {
	session *types.Session
}

// NewManager creates a new session manager with defaults.
func NewManager() *Manager {
	return &Manager{session: defaultSession()}
}

func defaultSession() *types.Session {
	enabled := true
	auto := false
	return &types.Session{
		ProjectName:    "",
		AutoConnect:    &auto,
		HistoryEnabled: &enabled,
	}
}

// Load loads the session file from disk. A missing file yields the
// default session, not an error.
func (m *Manager) Load() error {
	sessionPath := config.GetSessionFilePath()

	data, err := os.ReadFile(sessionPath)
	if err != nil {
		m.session = defaultSession()
		return nil
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	if session.AutoConnect == nil {
		auto := false
		session.AutoConnect = &auto
	}
	if session.HistoryEnabled == nil {
		enabled := true
		session.HistoryEnabled = &enabled
	}

	m.session = &session
	return nil
}

// Save writes the session to disk.
func (m *Manager) Save() error {
	sessionPath := config.GetSessionFilePath()

	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(sessionPath, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// ProjectName returns the active project name.
func (m *Manager) ProjectName() string {
	return m.session.ProjectName
}

// SetProjectName updates and persists the active project name.
func (m *Manager) SetProjectName(name string) error {
	m.session.ProjectName = name
	return m.Save()
}

// Endpoint returns the session's endpoint override, empty when unset.
func (m *Manager) Endpoint() string {
	return m.session.Endpoint
}

// SetEndpoint updates and persists the endpoint override.
func (m *Manager) SetEndpoint(endpoint string) error {
	m.session.Endpoint = endpoint
	return m.Save()
}

// AutoConnect reports whether the terminal should connect on mount.
func (m *Manager) AutoConnect() bool {
	return m.session.AutoConnect != nil && *m.session.AutoConnect
}

// HistoryEnabled reports whether command history recording is on.
func (m *Manager) HistoryEnabled() bool {
	return m.session.HistoryEnabled == nil || *m.session.HistoryEnabled
}

// LastSync returns the persisted last sync timestamp, empty when the
// project has never synced.
func (m *Manager) LastSync() string {
	return m.session.LastSync
}

// RecordSync persists a successful sync timestamp.
func (m *Manager) RecordSync(at time.Time) error {
	m.session.LastSync = at.UTC().Format(time.RFC3339)
	return m.Save()
}
