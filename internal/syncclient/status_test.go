package syncclient

import (
	"sync"
	"testing"

	"github.com/studiowebux/cloudterm/internal/types"
)

func TestStatusState_Transitions(t *testing.T) {
	s := NewStatusState()

	if s.Status() != types.SyncIdle {
		t.Errorf("Expected idle initially, got %q", s.Status())
	}

	if err := s.Begin(types.SyncUploading); err != nil {
		t.Fatalf("Expected Begin to succeed, got: %v", err)
	}
	if s.Status() != types.SyncUploading {
		t.Errorf("Expected uploading, got %q", s.Status())
	}

	s.FinishSuccess()
	if s.Status() != types.SyncSynced {
		t.Errorf("Expected synced, got %q", s.Status())
	}

	s.RevertIdle(types.SyncSynced)
	if s.Status() != types.SyncIdle {
		t.Errorf("Expected idle after revert, got %q", s.Status())
	}
}

func TestStatusState_BeginWhileBusy(t *testing.T) {
	s := NewStatusState()
	if err := s.Begin(types.SyncUploading); err != nil {
		t.Fatalf("Expected first Begin to succeed, got: %v", err)
	}
	if err := s.Begin(types.SyncDownloading); err != ErrBusy {
		t.Errorf("Expected ErrBusy, got: %v", err)
	}
}

func TestStatusState_BeginResetsProgressAndMessage(t *testing.T) {
	s := NewStatusState()
	_ = s.Begin(types.SyncUploading)
	s.SetProgress(60)
	s.FinishError("failed")

	if err := s.Begin(types.SyncUploading); err != nil {
		t.Fatalf("Expected Begin after terminal state to succeed, got: %v", err)
	}
	if s.Progress() != 0 {
		t.Errorf("Expected progress reset to 0, got %d", s.Progress())
	}
	if s.Message() != "" {
		t.Errorf("Expected message cleared, got %q", s.Message())
	}
}

func TestStatusState_ProgressMonotonicAndClamped(t *testing.T) {
	s := NewStatusState()
	_ = s.Begin(types.SyncUploading)

	s.SetProgress(40)
	s.SetProgress(20) // ignored, lower
	if s.Progress() != 40 {
		t.Errorf("Expected 40, got %d", s.Progress())
	}

	s.SetProgress(250) // clamped
	if s.Progress() != 100 {
		t.Errorf("Expected clamp to 100, got %d", s.Progress())
	}
}

func TestStatusState_RevertOnlyFromMatchingState(t *testing.T) {
	s := NewStatusState()
	_ = s.Begin(types.SyncUploading)
	s.FinishError("failed")

	// A newer operation started before the stale revert timer fired
	_ = s.Begin(types.SyncUploading)
	s.RevertIdle(types.SyncError)

	if s.Status() != types.SyncUploading {
		t.Errorf("Stale revert must not clobber a newer operation, got %q", s.Status())
	}
}

func TestStatusState_ConcurrentAccess(t *testing.T) {
	s := NewStatusState()
	_ = s.Begin(types.SyncUploading)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)

		go func(p int) {
			defer wg.Done()
			s.SetProgress(p)
		}(i)

		go func() {
			defer wg.Done()
			_ = s.Progress()
			_ = s.Status()
		}()
	}

	wg.Wait()
	// If test completes without panic or data race, success
}
