package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/studiowebux/cloudterm/internal/artifacts"
	"github.com/studiowebux/cloudterm/internal/config"
	"github.com/studiowebux/cloudterm/internal/filter"
	"github.com/studiowebux/cloudterm/internal/history"
	"github.com/studiowebux/cloudterm/internal/session"
	"github.com/studiowebux/cloudterm/internal/syncclient"
)

// RunOptions contains options for one-shot sync operations
type RunOptions struct {
	ProjectName string
	Endpoint    string // endpoint override, empty uses session/env/default
	Dir         string // project directory, empty means current directory
	Filter      string // JMESPath expression applied to the JSON result
	Output      io.Writer
}

// resolve loads the session and fills defaults from it
func resolve(opts *RunOptions) (*session.Manager, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if opts.ProjectName == "" {
		opts.ProjectName = mgr.ProjectName()
	}
	if opts.ProjectName == "" {
		return nil, fmt.Errorf("no project name: pass --project or run the TUI once")
	}
	if opts.Endpoint == "" {
		opts.Endpoint = mgr.Endpoint()
	}
	opts.Endpoint = config.Endpoint(opts.Endpoint)

	if opts.Dir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		opts.Dir = dir
	}

	return mgr, nil
}

func newClient(opts RunOptions) *syncclient.Client {
	// One-shot mode has no status badge; revert timers just need to not
	// linger past the process.
	return syncclient.New(opts.Endpoint, syncclient.Observers{}, syncclient.Options{
		SuccessRevert: time.Millisecond,
		ErrorRevert:   time.Millisecond,
	})
}

func emit(opts RunOptions, value interface{}) error {
	out, err := filter.ApplyToValue(value, opts.Filter)
	if err != nil {
		return err
	}
	fmt.Fprintln(opts.Output, out)
	return nil
}

// RunEject uploads the project directory's files to the cloud backend.
func RunEject(opts RunOptions) error {
	mgr, err := resolve(&opts)
	if err != nil {
		return err
	}

	files, err := artifacts.LoadDir(opts.Dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files to upload in %s", opts.Dir)
	}

	result, err := newClient(opts).Eject(files, opts.ProjectName)
	if err != nil {
		return err
	}

	if err := mgr.RecordSync(time.Now()); err != nil {
		return err
	}
	return emit(opts, result)
}

// RunHistory prints the recorded terminal commands, newest first.
// With clear set it drops them instead.
func RunHistory(limit int, clear bool, out io.Writer) error {
	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return err
	}
	defer mgr.Close()

	if clear {
		if err := mgr.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	records, err := mgr.List(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No recorded commands.")
		return nil
	}
	for _, record := range records {
		marker := " "
		if record.IsError {
			marker = "!"
		}
		fmt.Fprintf(out, "%s %s  [%s]  %s\n",
			marker, record.Timestamp.Format("2006-01-02 15:04:05"), record.Target, record.Command)
	}
	return nil
}

// RunDownload fetches the project's remote files into the directory.
func RunDownload(opts RunOptions) error {
	if _, err := resolve(&opts); err != nil {
		return err
	}

	result, err := newClient(opts).Download(opts.ProjectName)
	if err != nil {
		return err
	}

	if err := artifacts.WriteDir(opts.Dir, result.Files); err != nil {
		return err
	}
	return emit(opts, result)
}

// RunSync posts local files for a bidirectional merge and writes the
// merged result back. Conflicts are surfaced in the output, never
// resolved here.
func RunSync(opts RunOptions) error {
	mgr, err := resolve(&opts)
	if err != nil {
		return err
	}

	files, err := artifacts.LoadDir(opts.Dir)
	if err != nil {
		return err
	}

	result, err := newClient(opts).Sync(opts.ProjectName, files)
	if err != nil {
		return err
	}

	if len(result.Merged) > 0 {
		if err := artifacts.WriteDir(opts.Dir, result.Merged); err != nil {
			return err
		}
	}
	if err := mgr.RecordSync(time.Now()); err != nil {
		return err
	}
	return emit(opts, result)
}
