package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultEndpoint is used when no endpoint is configured anywhere.
	DefaultEndpoint = "http://localhost:8080"

	// EndpointEnvVar overrides the endpoint when set.
	EndpointEnvVar = "CLOUDTERM_ENDPOINT"

	// TerminalPath is the WebSocket path for the cloud terminal backend.
	TerminalPath = "/api/v1/terminal"

	// EjectPath, DownloadPath and SyncPath are the file sync endpoints.
	EjectPath    = "/api/v1/mcp/eject"
	DownloadPath = "/api/v1/mcp/download"
	SyncPath     = "/api/v1/mcp/sync"
)

var (
	// ConfigDir is the global configuration directory (~/.cloudterm)
	ConfigDir string

	// DatabasePath is the SQLite database file for command history
	DatabasePath string

	// SessionFile is the session state file
	SessionFile string

	// KeybindsFile is the optional keybinding overrides file
	KeybindsFile string
)

// Initialize sets up the configuration directory and files
// It creates ~/.cloudterm/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	// Set global paths
	ConfigDir = filepath.Join(homeDir, ".cloudterm")
	DatabasePath = filepath.Join(ConfigDir, "cloudterm.db")
	SessionFile = filepath.Join(ConfigDir, ".session.json")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create empty session file if it doesn't exist
	if _, err := os.Stat(SessionFile); os.IsNotExist(err) {
		defaultSession := []byte(`{"projectName":"","historyEnabled":true}`)
		if err := os.WriteFile(SessionFile, defaultSession, FilePermissions); err != nil {
			return fmt.Errorf("failed to create session file: %w", err)
		}
	}

	return nil
}

// GetSessionFilePath returns the session file path (local or global)
func GetSessionFilePath() string {
	if _, err := os.Stat(".session.json"); err == nil {
		return ".session.json"
	}
	return SessionFile
}

// Endpoint resolves the HTTP endpoint for the cloud backend.
// Priority: explicit override, CLOUDTERM_ENDPOINT, built-in default.
func Endpoint(override string) string {
	if override != "" {
		return normalizeEndpoint(override)
	}
	if env := os.Getenv(EndpointEnvVar); env != "" {
		return normalizeEndpoint(env)
	}
	return DefaultEndpoint
}

// normalizeEndpoint ensures the endpoint has a scheme and no trailing slash
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	return endpoint
}

// TerminalURL derives the WebSocket URL for an HTTP endpoint.
// TLS endpoints (https) map to wss, everything else to ws.
func TerminalURL(endpoint string) (string, error) {
	u, err := url.Parse(normalizeEndpoint(endpoint))
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	u.Path = TerminalPath
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// EjectURL returns the upload endpoint for an HTTP endpoint.
func EjectURL(endpoint string) string {
	return normalizeEndpoint(endpoint) + EjectPath
}

// DownloadURL returns the download endpoint for a project.
func DownloadURL(endpoint, projectName string) string {
	return normalizeEndpoint(endpoint) + DownloadPath + "?project=" + url.QueryEscape(projectName)
}

// SyncURL returns the bidirectional sync endpoint.
func SyncURL(endpoint string) string {
	return normalizeEndpoint(endpoint) + SyncPath
}
