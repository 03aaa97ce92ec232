package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"fortunesite/internal/logger"
)

// ModeWatcher caches the value of a mode file and reloads it when the file
// changes on disk. Reads never touch the filesystem.
type ModeWatcher struct {
	file    ModeFile
	logger  *logger.Logger
	watcher *fsnotify.Watcher
	value   atomic.Bool
	reloads atomic.Int64
	done    chan struct{}
	once    sync.Once
}

// WatchModeFile reads m once and keeps the cached value current until ctx
// is canceled or Close is called. The parent directory is watched so that
// editors replacing the file by rename are seen.
func WatchModeFile(ctx context.Context, m ModeFile, log *logger.Logger) (*ModeWatcher, error) {
	if log == nil {
		log = logger.Discard()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create mode watcher: %w", err)
	}

	if err := w.Add(filepath.Dir(m.Path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", m.Path, err)
	}

	mw := &ModeWatcher{
		file:    m,
		logger:  log.Component("mode"),
		watcher: w,
		done:    make(chan struct{}),
	}

	mw.reload()

	go mw.run(ctx)

	return mw, nil
}

// UseRemote implements ModeSource.
func (mw *ModeWatcher) UseRemote() bool {
	return mw.value.Load()
}

// Reloads reports how many times the file has been re-read.
func (mw *ModeWatcher) Reloads() int64 {
	return mw.reloads.Load()
}

// Close stops watching. It is safe to call more than once.
func (mw *ModeWatcher) Close() error {
	var err error

	mw.once.Do(func() {
		err = mw.watcher.Close()
		<-mw.done
	})

	return err
}

func (mw *ModeWatcher) run(ctx context.Context) {
	defer close(mw.done)

	target := filepath.Clean(mw.file.Path)

	for {
		select {
		case <-ctx.Done():
			_ = mw.watcher.Close()
			return

		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != target {
				continue
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				mw.reload()
			}

		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}

			mw.logger.Warn("mode watcher error", "error", err)
		}
	}
}

func (mw *ModeWatcher) reload() {
	v, err := mw.file.Read()
	if err != nil {
		mw.logger.Warn("mode file unreadable, using fallback", "path", mw.file.Path, "fallback", mw.file.Fallback, "error", err)
		v = mw.file.Fallback
	}

	if prev := mw.value.Swap(v); prev != v || mw.reloads.Load() == 0 {
		mw.logger.Info("content mode loaded", "path", mw.file.Path, "use_remote", v)
	}

	mw.reloads.Add(1)
}
