package api

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a file-backed Dataset when its file changes on disk.
type Watcher struct {
	// Reloads receives the outcome of every reload, nil on success.
	// Results are dropped when nobody is reading.
	Reloads <-chan error

	data    *Dataset
	logger  *zap.Logger
	file    string
	reloads chan error
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for data. The dataset must be file backed.
func NewWatcher(data *Dataset, logger *zap.Logger) (*Watcher, error) {
	if data.Path() == "" {
		return nil, errors.New("built-in dataset cannot be watched")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	file, err := filepath.Abs(data.Path())
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan error, 4)
	return &Watcher{
		Reloads: ch,
		data:    data,
		logger:  logger,
		file:    file,
		reloads: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start watches the directory holding the dataset file. Editors that save
// by rename would otherwise drop a watch on the file itself.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.file)); err != nil {
		_ = w.watcher.Close()
		close(w.done)
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	_ = w.watcher.Close()
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)

	ticker := time.NewTicker(reloadDebounce)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < reloadDebounce {
				continue
			}
			pending = time.Time{}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("dataset watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	err := w.data.Reload()
	if err != nil {
		w.logger.Warn("dataset reload failed, keeping previous data", zap.String("file", w.file), zap.Error(err))
	} else {
		w.logger.Info("dataset reloaded",
			zap.String("file", w.file),
			zap.Int("entries", w.data.Catalogue().Len()))
	}
	select {
	case w.reloads <- err:
	default:
	}
}
