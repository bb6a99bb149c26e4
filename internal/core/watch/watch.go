// Package watch reloads a single file when it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/colonyops/briefly/internal/core/logging"
	"github.com/colonyops/briefly/pkg/debounce"
)

// DefaultSettle is how long a file must be quiet before it is re-read.
const DefaultSettle = 100 * time.Millisecond

// ChangedMsg carries the new content of a watched file.
type ChangedMsg struct {
	Path    string
	Content string
}

// FileWatcher watches one file. The parent directory is watched so that
// editors which save by renaming a temp file are still seen.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce *debounce.Debouncer
	changes  chan ChangedMsg

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New starts watching path. settle <= 0 uses DefaultSettle.
func New(path string, settle time.Duration) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &FileWatcher{
		path:     abs,
		watcher:  watcher,
		debounce: debounce.New(settle),
		changes:  make(chan ChangedMsg, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string { return w.path }

// Changes delivers the file content after each settled burst of writes.
// Only the newest content is kept when the reader falls behind.
func (w *FileWatcher) Changes() <-chan ChangedMsg { return w.changes }

// Next returns a command that waits for the next change. It yields nil once
// the watcher is closed.
func (w *FileWatcher) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.ctx.Done():
			return nil
		case msg := <-w.changes:
			return msg
		}
	}
}

// Close stops watching.
func (w *FileWatcher) Close() error {
	w.cancel()
	w.debounce.Stop()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *FileWatcher) run() {
	defer w.wg.Done()
	l := logging.Component("watch")

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.debounce.Do(w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			l.Warn().Err(err).Str("path", w.path).Msg("watch error")
		}
	}
}

func (w *FileWatcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// A rename-save briefly leaves no file; the following create
		// schedules another reload.
		if !errors.Is(err, os.ErrNotExist) {
			l := logging.Component("watch")
			l.Warn().Err(err).Str("path", w.path).Msg("reload failed")
		}
		return
	}

	msg := ChangedMsg{Path: w.path, Content: string(data)}
	for {
		select {
		case <-w.ctx.Done():
			return
		case w.changes <- msg:
			return
		default:
			// drop the stale pending change
			select {
			case <-w.changes:
			default:
			}
		}
	}
}
