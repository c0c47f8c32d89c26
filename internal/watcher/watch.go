// Package watcher watches a working tree and coalesces file-change
// bursts into single refresh signals.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// skipDirs are directories that never contain reviewable source.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
}

// Watcher wraps fsnotify and emits one signal per burst of changes.
type Watcher struct {
	fsw *fsnotify.Watcher
	// Changes receives the path of the last-written file after each
	// quiet period. Slow receivers only ever miss intermediate bursts.
	Changes  chan string
	Errors   chan error
	done     chan struct{}
	debounce time.Duration
}

// New creates a watcher over dir and all its subdirectories, skipping
// VCS and dependency folders.
func New(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep walking the rest
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		fsw:      fsw,
		Changes:  make(chan string, 1),
		Errors:   make(chan error, 1),
		done:     make(chan struct{}),
		debounce: 250 * time.Millisecond,
	}, nil
}

// Start begins forwarding events. It returns immediately; events arrive
// on Changes until Close is called.
func (w *Watcher) Start() {
	go func() {
		var timer *time.Timer
		var pending string
		var fire <-chan time.Time

		for {
			select {
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if ev.Op&fsnotify.Create != 0 {
					w.watchIfDir(ev.Name)
				}
				pending = ev.Name
				if timer == nil {
					timer = time.NewTimer(w.debounce)
				} else {
					timer.Reset(w.debounce)
				}
				fire = timer.C

			case <-fire:
				select {
				case w.Changes <- pending:
				default: // receiver busy, burst coalesces with the next
				}
				fire = nil

			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				select {
				case w.Errors <- err:
				default:
				}

			case <-w.done:
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()
}

// watchIfDir extends the watch set when a new directory appears, so
// files created inside it keep triggering refreshes.
func (w *Watcher) watchIfDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	name := filepath.Base(path)
	if skipDirs[name] || strings.HasPrefix(name, ".") {
		return
	}
	w.fsw.Add(path)
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
