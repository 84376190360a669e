// Package watch reports changes to a single file, such as a reducer script
// being edited.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the debounce window applied to bursts of writes.
const DefaultDelay = 100 * time.Millisecond

// Errors returned by the watcher.
var (
	// ErrPathNotExist is returned when the watched file does not exist.
	ErrPathNotExist = errors.New("path does not exist")

	// ErrIsDirectory is returned when asked to watch a directory.
	ErrIsDirectory = errors.New("path is a directory")
)

// Change describes a settled modification of the watched file.
type Change struct {
	Path string
	Time time.Time
}

// FileWatcher watches one file. It watches the parent directory so that
// editors which save by renaming a temporary file are still noticed.
type FileWatcher struct {
	path  string
	delay time.Duration

	watcher *fsnotify.Watcher
	changes chan Change
	errors  chan error

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDelay sets the debounce window.
func WithDelay(d time.Duration) Option {
	return func(w *FileWatcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// New starts watching path.
func New(path string, opts ...Option) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPathNotExist
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &FileWatcher{
		path:    absPath,
		delay:   DefaultDelay,
		watcher: fsw,
		changes: make(chan Change, 1),
		errors:  make(chan error, 8),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Changes returns the channel of debounced changes.
func (w *FileWatcher) Changes() <-chan Change {
	return w.changes
}

// Errors returns the channel of watcher errors.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and closes its channels.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()

	close(w.changes)
	close(w.errors)
	return err
}

func (w *FileWatcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *FileWatcher) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	// A pending undelivered change already covers this one.
	select {
	case w.changes <- Change{Path: w.path, Time: time.Now()}:
	default:
	}
}
