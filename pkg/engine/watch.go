package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/coolbeans/notegraph/pkg/log"
)

// DefaultDebounce is the quiet period after the last filesystem event
// before a rebuild is triggered.
const DefaultDebounce = 2 * time.Second

// Watcher watches the sources directory and invokes a rebuild callback
// after changes settle. Rebuilds run serially on the watch goroutine;
// events arriving during a rebuild are coalesced into the next one.
type Watcher struct {
	sourcesDir string
	debounce   time.Duration
	rebuild    func() error
	logger     *zap.SugaredLogger

	running   bool
	runningMu sync.Mutex
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the debounce interval.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger replaces the default logger.
func WithWatcherLogger(logger *zap.SugaredLogger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher creates a watcher over sourcesDir that calls rebuild after
// each settled batch of changes.
func NewWatcher(sourcesDir string, rebuild func() error, options ...WatcherOption) *Watcher {
	w := &Watcher{
		sourcesDir: sourcesDir,
		debounce:   DefaultDebounce,
		rebuild:    rebuild,
		logger:     log.Default,
	}
	for _, option := range options {
		option(w)
	}
	return w
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() error {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()

	if w.running {
		return fmt.Errorf("watcher is already running")
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.watchTree(notifier); err != nil {
		notifier.Close()
		return err
	}

	w.stopChan = make(chan struct{})
	w.doneChan = make(chan struct{})
	w.running = true

	go w.loop(notifier)

	w.logger.Infof("watching %s for changes", w.sourcesDir)
	return nil
}

// Stop stops watching and waits for the watch goroutine to exit.
func (w *Watcher) Stop() error {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()

	if !w.running {
		return fmt.Errorf("watcher is not running")
	}

	close(w.stopChan)
	<-w.doneChan
	w.running = false
	return nil
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()
	return w.running
}

// watchTree registers the sources directory and every subdirectory.
// fsnotify watches are not recursive, so each directory needs its own.
func (w *Watcher) watchTree(notifier *fsnotify.Watcher) error {
	return filepath.WalkDir(w.sourcesDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if err := notifier.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop(notifier *fsnotify.Watcher) {
	defer close(w.doneChan)
	defer notifier.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-notifier.Events:
			if !ok {
				return
			}
			if !relevantEvent(event) {
				continue
			}
			w.logger.Debugf("source change: %s %s", event.Op, event.Name)

			// New subdirectories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := notifier.Add(event.Name); err != nil {
						w.logger.Warnf("failed to watch %s: %v", event.Name, err)
					}
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-notifier.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("watch error: %v", err)

		case <-timerC:
			timer = nil
			timerC = nil
			w.logger.Infof("sources changed, rebuilding")
			if err := w.rebuild(); err != nil {
				w.logger.Errorf("rebuild failed: %v", err)
			}
		}
	}
}

// relevantEvent filters to the operations that change source content.
func relevantEvent(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
