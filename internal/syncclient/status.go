package syncclient

import (
	"errors"
	"sync"
	"time"

	"github.com/studiowebux/cloudterm/internal/types"
)

// ErrBusy is returned when an operation is started while another is in
// flight on the same client instance.
var ErrBusy = errors.New("sync operation already in progress")

// StatusState tracks the one-operation-at-a-time sync state machine
// with thread safety: idle -> uploading|downloading -> synced|error -> idle.
type StatusState struct {
	mu       sync.Mutex
	status   types.SyncStatus
	progress int
	message  string
	lastSync time.Time
}

// NewStatusState creates an idle state.
func NewStatusState() *StatusState {
	return &StatusState{status: types.SyncIdle}
}

// Status returns the current sync status.
func (s *StatusState) Status() types.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == "" {
		return types.SyncIdle
	}
	return s.status
}

// Progress returns the current upload progress percentage.
func (s *StatusState) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Message returns the stored user-facing error message, if any.
func (s *StatusState) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// LastSync returns the most recent successful sync timestamp.
func (s *StatusState) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// Begin transitions idle -> op, resetting progress to 0 and clearing
// any previous error message. Returns ErrBusy if an operation is in
// flight (uploading or downloading).
func (s *StatusState) Begin(op types.SyncStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == types.SyncUploading || s.status == types.SyncDownloading {
		return ErrBusy
	}
	s.status = op
	s.progress = 0
	s.message = ""
	return nil
}

// SetProgress raises the progress percentage. Progress is monotonically
// non-decreasing within one operation; lower values are ignored.
func (s *StatusState) SetProgress(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p > 100 {
		p = 100
	}
	if p > s.progress {
		s.progress = p
	}
}

// FinishSuccess transitions to synced and records the sync timestamp.
func (s *StatusState) FinishSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = types.SyncSynced
	s.lastSync = time.Now()
}

// FinishError transitions to error and stores the user-facing message.
func (s *StatusState) FinishError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = types.SyncError
	s.message = message
}

// RevertIdle returns to idle, but only if the state still matches the
// terminal state the revert timer was armed for. A newer operation
// keeps its own status.
func (s *StatusState) RevertIdle(from types.SyncStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == from {
		s.status = types.SyncIdle
	}
}
