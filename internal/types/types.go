package types

import "time"

// FileMap maps project-relative paths to file contents.
type FileMap map[string]string

// WireMessage is the JSON frame exchanged with the terminal backend.
// Client to server frames carry MessageCommand; server to client frames
// carry MessageOutput or MessageError. Payloads that fail to decode are
// delivered with MessageRaw and the payload verbatim in Data.
type WireMessage struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Wire frame type discriminators.
const (
	MessageCommand = "command"
	MessageOutput  = "output"
	MessageError   = "error"
	MessageSystem  = "system"
	MessageRaw     = "raw"
)

// SyncStatus is the file sync client's one-operation-at-a-time state.
type SyncStatus string

const (
	SyncIdle        SyncStatus = "idle"
	SyncUploading   SyncStatus = "uploading"
	SyncDownloading SyncStatus = "downloading"
	SyncSynced      SyncStatus = "synced"
	SyncError       SyncStatus = "error"
)

// EjectRequest is the upload payload for the eject endpoint.
type EjectRequest struct {
	ProjectName string  `json:"projectName"`
	Files       FileMap `json:"files"`
	Timestamp   string  `json:"timestamp"`
}

// EjectResponse is the backend's answer to a successful upload.
type EjectResponse struct {
	Success   bool   `json:"success"`
	ProjectID string `json:"projectId"`
	FileCount int    `json:"fileCount"`
}

// DownloadResponse carries a project's remote file map.
type DownloadResponse struct {
	Files        FileMap `json:"files"`
	LastModified string  `json:"lastModified"`
}

// SyncRequest is the payload for a bidirectional merge.
type SyncRequest struct {
	ProjectName string  `json:"projectName"`
	LocalFiles  FileMap `json:"localFiles"`
	Timestamp   string  `json:"timestamp"`
}

// SyncResponse reports the merge outcome. Conflicts lists paths present
// on both sides with differing content; the client surfaces them but
// never resolves them.
type SyncResponse struct {
	Success   bool     `json:"success"`
	Conflicts []string `json:"conflicts,omitempty"`
	Merged    FileMap  `json:"merged,omitempty"`
}

// Session is the persisted session state (~/.cloudterm/.session.json).
type Session struct {
	ProjectName    string `json:"projectName"`
	Endpoint       string `json:"endpoint,omitempty"`
	LastSync       string `json:"lastSync,omitempty"`
	AutoConnect    *bool  `json:"autoConnect,omitempty"`
	HistoryEnabled *bool  `json:"historyEnabled,omitempty"`
}

// CommandRecord is one executed terminal command for the history database.
type CommandRecord struct {
	ID        int64
	Timestamp time.Time
	Command   string
	Target    string // "remote" or "local"
	Output    string
	IsError   bool
}
