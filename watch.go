package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settle is how long the watcher waits after a write, so that a burst of
// writes triggers a single run.
const settle = 100 * time.Millisecond

// watcher re-runs a function whenever a Go file below its directories is
// written.
type watcher struct {
	fsw *fsnotify.Watcher
	run func() error
}

func newWatcher(dirs []string, run func() error) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			if name := info.Name(); path != dir && (strings.HasPrefix(name, ".") || name == "testdata") {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		})
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	return &watcher{fsw: fsw, run: run}, nil
}

// loop handles file events until ctx is cancelled or the watcher fails.
func (w *watcher) loop(ctx context.Context) error {
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}

			w.drain(settle)
			logger.Info("Change detected, re-running", zap.String("file", event.Name))
			if err := w.run(); err != nil {
				logger.Error("Analysis failed", zap.Error(err))
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

// drain discards the events that arrive within d.
func (w *watcher) drain(d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			return
		case _, ok := <-w.fsw.Events:
			if !ok {
				return
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) && strings.HasSuffix(event.Name, ".go")
}
