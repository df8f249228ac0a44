// Package watcher reports changes to configuration files.
//
// Directories are watched rather than files so that editors which save by
// rename keep producing events. Bursts of events for the same file are
// collapsed into one after a debounce delay.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by Watcher.
var (
	ErrWatcherClosed   = errors.New("watcher closed")
	ErrAlreadyWatching = errors.New("path already watched")
)

// DefaultDebounce is the delay applied when no WithDebounce option is given.
const DefaultDebounce = 100 * time.Millisecond

// Op describes what happened to a file.
type Op uint8

const (
	OpWrite Op = iota + 1
	OpCreate
	OpRemove
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is a debounced change to a watched file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler receives change events. It is called from the watcher goroutine.
type Handler func(Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the delay used to collapse bursts of events.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets a callback for errors reported by the file system.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher watches a set of configuration files.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	handler  Handler
	onError  func(error)
	debounce time.Duration

	files   map[string]bool // absolute file paths
	dirs    map[string]int  // directory -> number of watched files in it
	pending map[string]*time.Timer

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a watcher delivering events to handler.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		handler:  handler,
		debounce: DefaultDebounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		pending:  make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add starts watching path. The file does not need to exist yet.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return ErrAlreadyWatching
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// Files returns the watched file paths.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}

// Run processes file system events until ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	w.wg.Add(1)
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// Close stops the watcher and cancels pending events.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for p, t := range w.pending {
		t.Stop()
		delete(w.pending, p)
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) handle(ev fsnotify.Event) {
	op, ok := convertOp(ev.Op)
	if !ok {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[path] {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.fire(Event{Path: path, Op: op, Time: time.Now()})
	})
}

func (w *Watcher) fire(ev Event) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, ev.Path)
	w.mu.Unlock()

	if w.handler != nil {
		w.handler(ev)
	}
}

// convertOp maps fsnotify operations. Renames count as removals; chmod is
// ignored.
func convertOp(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpRemove, true
	default:
		return 0, false
	}
}
