package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Operation represents a file system operation type.
type Operation int

const (
	// OpCreate indicates the file appeared.
	OpCreate Operation = iota
	// OpModify indicates the file's contents changed.
	OpModify
	// OpDelete indicates the file was removed.
	OpDelete
	// OpRename indicates the file was renamed away.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpModify:
		return "MODIFY"
	case OpDelete:
		return "DELETE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// FileEvent is a change to one watched file.
type FileEvent struct {
	Path      string    // absolute path of the watched file
	Operation Operation // what happened
	Timestamp time.Time // when it was detected
}

// Options configures the watcher behavior.
type Options struct {
	// DebounceWindow is how long to wait for more events before delivering
	// a batch. Default: 200ms
	DebounceWindow time.Duration

	// PollInterval is the interval for polling mode. Default: 1s
	PollInterval time.Duration

	// ForcePolling skips fsnotify.
	ForcePolling bool
}

// DefaultOptions returns the default watcher options.
func DefaultOptions() Options {
	return Options{
		DebounceWindow: 200 * time.Millisecond,
		PollInterval:   time.Second,
	}
}

// WithDefaults returns options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	defaults := DefaultOptions()
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = defaults.DebounceWindow
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaults.PollInterval
	}
	return o
}

// Watcher watches a fixed set of files.
type Watcher struct {
	opts      Options
	files     map[string]bool
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	errors    chan error

	// polling baseline
	state map[string]snapshot

	mu      sync.Mutex
	stopCh  chan struct{}
	stopped bool
}

// New creates a watcher for paths. Paths need not exist yet; a later
// creation is reported as OpCreate. Their directories must exist.
func New(opts Options, paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	opts = opts.WithDefaults()

	files := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve absolute path: %w", err)
		}
		files[abs] = true
	}

	w := &Watcher{
		opts:      opts,
		files:     files,
		debouncer: NewDebouncer(opts.DebounceWindow),
		errors:    make(chan error, 10),
		stopCh:    make(chan struct{}),
	}

	if !opts.ForcePolling {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			slog.Warn("fsnotify_unavailable", slog.String("error", err.Error()))
		} else {
			for dir := range w.dirs() {
				if err := fsw.Add(dir); err != nil {
					_ = fsw.Close()
					return nil, fmt.Errorf("watch %s: %w", dir, err)
				}
			}
			w.fsWatcher = fsw
		}
	}

	if w.fsWatcher == nil {
		w.state = make(map[string]snapshot, len(files))
		for f := range files {
			w.state[f] = stat(f)
		}
	}
	return w, nil
}

func (w *Watcher) dirs() map[string]bool {
	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	return dirs
}

// Type returns "fsnotify" or "polling".
func (w *Watcher) Type() string {
	if w.fsWatcher != nil {
		return "fsnotify"
	}
	return "polling"
}

// Run delivers events until ctx is cancelled or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Stop()
	if w.fsWatcher != nil {
		return w.runFsnotify(ctx)
	}
	return w.runPolling(ctx)
}

func (w *Watcher) runFsnotify(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

// handle maps an fsnotify event on a watched file to a FileEvent.
func (w *Watcher) handle(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if !w.files[path] {
		return
	}

	var op Operation
	switch {
	case event.Op&fsnotify.Create != 0:
		op = OpCreate
	case event.Op&fsnotify.Write != 0:
		op = OpModify
	case event.Op&fsnotify.Remove != 0:
		op = OpDelete
	case event.Op&fsnotify.Rename != 0:
		op = OpRename
	default:
		// Chmod alone does not change contents
		return
	}

	w.debouncer.Add(FileEvent{Path: path, Operation: op, Timestamp: time.Now()})
}

// snapshot is what polling compares between ticks.
type snapshot struct {
	exists  bool
	size    int64
	modTime time.Time
}

func stat(path string) snapshot {
	info, err := os.Stat(path)
	if err != nil {
		return snapshot{}
	}
	return snapshot{exists: true, size: info.Size(), modTime: info.ModTime()}
}

func (w *Watcher) runPolling(ctx context.Context) error {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stopCh:
			return nil
		case <-ticker.C:
		}

		for f, before := range w.state {
			after := stat(f)
			if op, changed := diff(before, after); changed {
				w.debouncer.Add(FileEvent{Path: f, Operation: op, Timestamp: time.Now()})
			}
			w.state[f] = after
		}
	}
}

// diff reports how a file changed between two polls.
func diff(before, after snapshot) (Operation, bool) {
	switch {
	case !before.exists && after.exists:
		return OpCreate, true
	case before.exists && !after.exists:
		return OpDelete, true
	case before.exists && (before.size != after.size || !before.modTime.Equal(after.modTime)):
		return OpModify, true
	default:
		return 0, false
	}
}

func (w *Watcher) emitError(err error) {
	select {
	case w.errors <- err:
	default:
		slog.Warn("watcher_error_dropped", slog.String("error", err.Error()))
	}
}

// Events returns debounced batches of events.
// The channel is closed when the watcher stops.
func (w *Watcher) Events() <-chan []FileEvent {
	return w.debouncer.Output()
}

// Errors returns non-fatal watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop stops the watcher and releases resources.
// Safe to call multiple times.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.stopped = true
	close(w.stopCh)
	if w.fsWatcher != nil {
		_ = w.fsWatcher.Close()
	}
	w.debouncer.Stop()
}
