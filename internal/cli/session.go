package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/outliner/internal/dispatcher"
	"github.com/dshills/outliner/internal/engine/buffer"
	"github.com/dshills/outliner/internal/engine/history"
	"github.com/dshills/outliner/internal/logging"
)

// Session is one file loaded into a buffer with its own history and
// dispatcher.
type Session struct {
	Path       string
	Buffer     *buffer.Buffer
	History    *history.History
	Dispatcher *dispatcher.Dispatcher

	logger *logging.Logger
}

// openSession loads path. When allowMissing is set a missing file opens as
// an empty buffer.
func (app *App) openSession(path string, allowMissing bool) (*Session, error) {
	hist := history.NewHistory(0)

	var buf *buffer.Buffer
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		buf, err = buffer.NewBufferFromReader(f, buffer.WithRecorder(hist))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	case allowMissing && errors.Is(err, fs.ErrNotExist):
		buf = buffer.NewBuffer(buffer.WithRecorder(hist))
	default:
		return nil, err
	}

	logger := app.logger.WithField("file", filepath.Base(path))
	d := dispatcher.New(app.Config().Outliner,
		dispatcher.WithLogger(logger),
		dispatcher.WithHistory(hist),
		dispatcher.WithMetrics(dispatcher.NewMetrics()),
	)
	return &Session{
		Path:       path,
		Buffer:     buf,
		History:    hist,
		Dispatcher: d,
		logger:     logger,
	}, nil
}

// Save writes the buffer back to its file through a temporary file in the
// same directory, keeping the original permissions.
func (s *Session) Save() error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(s.Path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := s.Buffer.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	s.logger.Info("saved %s", s.Path)
	return nil
}

// logMetrics reports dispatch statistics at debug level.
func (s *Session) logMetrics() {
	m := s.Dispatcher.Metrics()
	if m == nil || m.TotalDispatches() == 0 {
		return
	}
	s.logger.Debug("%d dispatches, %d errors, avg %s", m.TotalDispatches(), m.TotalErrors(), m.AverageDuration())
	for _, a := range m.TopActions(5) {
		s.logger.Debug("  %s: %d dispatches, %d updates", a.Name, a.DispatchCount, a.UpdateCount)
	}
}
