package config

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/dshills/outliner/internal/config/loader"
	"github.com/dshills/outliner/internal/config/notify"
	"github.com/dshills/outliner/internal/config/watcher"
	"github.com/dshills/outliner/internal/logging"
)

// Store holds the current configuration and reloads it on demand or when
// configuration files change.
type Store struct {
	mu      sync.RWMutex
	loader  *Loader
	current Config
	sources []Source

	notifier *notify.Notifier
	logger   *logging.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for reload diagnostics.
func WithLogger(l *logging.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l.WithComponent("config")
	}
}

// NewStore loads the configuration once and returns a store holding it.
func NewStore(l *Loader, opts ...StoreOption) (*Store, error) {
	s := &Store{
		loader:   l,
		notifier: notify.New(),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	cfg, sources, err := l.Load()
	if err != nil {
		return nil, err
	}
	s.current = cfg
	s.sources = sources
	return s, nil
}

// SetLogger replaces the logger. Use it when the log level is only known
// after the first load.
func (s *Store) SetLogger(l *logging.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = l.WithComponent("config")
}

// Config returns the current configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Sources returns the layers behind the current configuration.
func (s *Store) Sources() []Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Source(nil), s.sources...)
}

// Subscribe registers an observer for changes at or below path. An empty
// path observes every change.
func (s *Store) Subscribe(path string, o notify.Observer) notify.Subscription {
	return s.notifier.SubscribePath(path, o)
}

// Unsubscribe removes an observer.
func (s *Store) Unsubscribe(id notify.Subscription) {
	s.notifier.Unsubscribe(id)
}

// Reload re-reads every layer. On error the current configuration is kept.
// Observers receive a reload change followed by one set change per
// modified setting.
func (s *Store) Reload(source string) error {
	cfg, sources, err := s.loader.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	old := s.current
	s.current = cfg
	s.sources = sources
	s.mu.Unlock()

	s.notifier.Notify(notify.Change{Type: notify.ChangeReload, Old: old, New: cfg, Source: source})
	oldMap, newMap := old.ToMap(), cfg.ToMap()
	for _, path := range settingPaths {
		ov, _ := loader.GetByPath(oldMap, path)
		nv, _ := loader.GetByPath(newMap, path)
		if !reflect.DeepEqual(ov, nv) {
			s.notifier.Notify(notify.Change{Path: path, Type: notify.ChangeSet, Old: ov, New: nv, Source: source})
		}
	}
	return nil
}

// Watch reloads the configuration whenever one of the loader's files is
// written, created or removed. It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, debounce time.Duration) error {
	s.mu.RLock()
	logger := s.logger
	s.mu.RUnlock()

	w, err := watcher.New(func(ev watcher.Event) {
		logger.Debug("%s %s", ev.Op, ev.Path)
		if err := s.Reload(ev.Path); err != nil {
			logger.Warn("reload failed: %v", err)
		}
	},
		watcher.WithDebounce(debounce),
		watcher.WithErrorHandler(func(err error) { logger.Warn("watch: %v", err) }),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	watched := 0
	for _, f := range s.loader.Files() {
		if err := w.Add(f); err != nil {
			logger.Debug("not watching %s: %v", f, err)
			continue
		}
		watched++
	}
	logger.Info("watching %d config files", watched)

	w.Run(ctx)
	return ctx.Err()
}
