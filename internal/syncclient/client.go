package syncclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studiowebux/cloudterm/internal/config"
	"github.com/studiowebux/cloudterm/internal/types"
)

const (
	defaultSuccessRevert = 3 * time.Second
	defaultErrorRevert   = 5 * time.Second
	defaultProgressTick  = 150 * time.Millisecond

	// progressCeiling is where stepped progress parks while the
	// request is in flight; the jump to 100 happens on response.
	progressCeiling = 90
	progressStep    = 15
)

// Observers are fire-and-forget UI callbacks. Panics are swallowed.
type Observers struct {
	// OnEject fires exactly once per upload with its outcome.
	OnEject func(success bool)
	// OnSync fires after a successful download or sync with the
	// operation name ("download" or "sync").
	OnSync func(direction string)
}

// Options tunes UI timing. Zero values get defaults. The revert
// windows are cosmetic: the operation result is recorded before any
// timer is armed.
type Options struct {
	SuccessRevert time.Duration
	ErrorRevert   time.Duration
	ProgressTick  time.Duration
	HTTPClient    *http.Client
}

// Client moves a caller-supplied file map between the local session and
// the cloud persistence endpoint. One operation at a time per instance;
// nothing is retried and nothing is partially applied. The file map is
// read-only from the client's perspective.
type Client struct {
	endpoint      string
	http          *http.Client
	state         *StatusState
	observers     Observers
	successRevert time.Duration
	errorRevert   time.Duration
	progressTick  time.Duration
}

// New creates a sync client for the given HTTP endpoint.
func New(endpoint string, observers Observers, opts Options) *Client {
	c := &Client{
		endpoint:      endpoint,
		http:          opts.HTTPClient,
		state:         NewStatusState(),
		observers:     observers,
		successRevert: opts.SuccessRevert,
		errorRevert:   opts.ErrorRevert,
		progressTick:  opts.ProgressTick,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.successRevert <= 0 {
		c.successRevert = defaultSuccessRevert
	}
	if c.errorRevert <= 0 {
		c.errorRevert = defaultErrorRevert
	}
	if c.progressTick <= 0 {
		c.progressTick = defaultProgressTick
	}
	return c
}

// Status returns the current sync status.
func (c *Client) Status() types.SyncStatus { return c.state.Status() }

// Progress returns the current upload progress percentage.
func (c *Client) Progress() int { return c.state.Progress() }

// ErrorMessage returns the stored user-facing error message, if any.
func (c *Client) ErrorMessage() string { return c.state.Message() }

// LastSync returns the most recent successful sync timestamp.
func (c *Client) LastSync() time.Time { return c.state.LastSync() }

// Eject uploads the full file map to the cloud persistence backend.
// Status runs idle -> uploading -> synced|error; progress steps to 90
// while the request is in flight and lands on 100 with the response.
// Every failure is converted to a stored message and returned; nothing
// panics and nothing retries.
func (c *Client) Eject(files types.FileMap, projectName string) (*types.EjectResponse, error) {
	if err := c.state.Begin(types.SyncUploading); err != nil {
		return nil, err
	}

	stop := c.startProgress()

	payload := types.EjectRequest{
		ProjectName: projectName,
		Files:       files,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	var result types.EjectResponse
	err := c.postJSON(config.EjectURL(c.endpoint), payload, &result)
	stop()

	if err != nil {
		c.state.FinishError(fmt.Sprintf("Upload failed: %v", err))
		c.notifyEject(false)
		c.scheduleRevert(types.SyncError, c.errorRevert)
		return nil, err
	}

	c.state.SetProgress(100)
	c.state.FinishSuccess()
	c.notifyEject(true)
	c.scheduleRevert(types.SyncSynced, c.successRevert)
	return &result, nil
}

// Download fetches the named project's remote file map.
func (c *Client) Download(projectName string) (*types.DownloadResponse, error) {
	if err := c.state.Begin(types.SyncDownloading); err != nil {
		return nil, err
	}

	resp, err := c.http.Get(config.DownloadURL(c.endpoint, projectName))
	if err != nil {
		c.fail(fmt.Sprintf("Download failed: %v", err))
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("Download failed (HTTP %d)", resp.StatusCode)
		c.fail(msg)
		return nil, fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	var result types.DownloadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.fail(fmt.Sprintf("Download failed: %v", err))
		return nil, fmt.Errorf("failed to decode download response: %w", err)
	}

	c.state.FinishSuccess()
	c.notifySync("download")
	c.scheduleRevert(types.SyncSynced, c.successRevert)
	return &result, nil
}

// Sync posts local files for a bidirectional merge. Conflicting paths
// come back in the response for the caller to resolve; this client only
// surfaces them.
func (c *Client) Sync(projectName string, localFiles types.FileMap) (*types.SyncResponse, error) {
	if err := c.state.Begin(types.SyncUploading); err != nil {
		return nil, err
	}

	payload := types.SyncRequest{
		ProjectName: projectName,
		LocalFiles:  localFiles,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	var result types.SyncResponse
	if err := c.postJSON(config.SyncURL(c.endpoint), payload, &result); err != nil {
		c.fail(fmt.Sprintf("Sync failed: %v", err))
		return nil, err
	}

	c.state.FinishSuccess()
	c.notifySync("sync")
	c.scheduleRevert(types.SyncSynced, c.successRevert)
	return &result, nil
}

// postJSON issues a POST and decodes a 2xx JSON response into out
func (c *Client) postJSON(url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// startProgress steps progress toward the ceiling while the request is
// in flight. Returns a stop function.
func (c *Client) startProgress() func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(c.progressTick)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				next := c.state.Progress() + progressStep
				if next > progressCeiling {
					next = progressCeiling
				}
				c.state.SetProgress(next)
			}
		}
	}()
	return func() { close(done) }
}

// fail records a failed operation without firing OnEject
func (c *Client) fail(message string) {
	c.state.FinishError(message)
	c.scheduleRevert(types.SyncError, c.errorRevert)
}

// scheduleRevert arms the cosmetic auto-revert timer
func (c *Client) scheduleRevert(from types.SyncStatus, after time.Duration) {
	time.AfterFunc(after, func() {
		c.state.RevertIdle(from)
	})
}

// notifyEject invokes OnEject behind a panic guard
func (c *Client) notifyEject(success bool) {
	if c.observers.OnEject == nil {
		return
	}
	defer func() { _ = recover() }()
	c.observers.OnEject(success)
}

// notifySync invokes OnSync behind a panic guard
func (c *Client) notifySync(direction string) {
	if c.observers.OnSync == nil {
		return
	}
	defer func() { _ = recover() }()
	c.observers.OnSync(direction)
}
