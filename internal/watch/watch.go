// Package watch reports when a pattern file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Event is one debounced change to the watched file.
type Event struct {
	Path string
	Op   string // last fsnotify op in the burst
	Time time.Time
}

// Watcher watches a single file. It watches the parent directory so that
// editors which save by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before an event is emitted.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Watcher for path, which must exist.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. The returned channel receives one Event per burst of
// changes and is closed once ctx is done.
func (w *Watcher) Start(ctx context.Context) (<-chan Event, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Debug("watching", "path", w.path, "debounce", w.debounce)

	out := make(chan Event)
	go w.run(ctx, fw, out)
	return out, nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, out chan<- Event) {
	defer close(out)
	defer fw.Close()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending Event
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			pending = Event{Path: w.path, Op: ev.Op.String()}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			pending.Time = time.Now()
			select {
			case out <- pending:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.path, "err", err)
		}
	}
}
