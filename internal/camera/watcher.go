// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package camera manages the captures directory. Terminals have no
// camera, so the app watches a directory instead: image files dropped
// there (by a phone sync, a screenshot tool, whatever) show up as
// pending captures ready to upload.
package camera

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports new image files appearing in the captures directory.
// Files are debounced so a capture still being written is not announced
// until writes quiet down.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	captures chan Capture

	mu      sync.Mutex
	pending map[string]time.Time // path -> last write time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for the captures directory, creating the
// directory if needed.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create captures directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		dir:      dir,
		watcher:  fsw,
		debounce: debounce,
		captures: make(chan Capture, 16),
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}
	return w, nil
}

// Captures returns the channel on which new captures are announced.
func (w *Watcher) Captures() <-chan Capture {
	return w.captures
}

// Watch starts watching. The captures channel is closed when the
// watcher is closed.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch captures directory: %w", err)
	}

	go w.processEvents()
	go w.processPending()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// processEvents records write/create events for debouncing.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !IsImageFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.mu.Lock()
				w.pending[event.Name] = time.Now()
				w.mu.Unlock()
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.mu.Lock()
				delete(w.pending, event.Name)
				w.mu.Unlock()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal; keep watching
		}
	}
}

// processPending announces files whose writes have quieted down.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			close(w.captures)
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var ready []string
			for path, changed := range w.pending {
				if now.Sub(changed) >= w.debounce {
					ready = append(ready, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			for _, path := range ready {
				info, err := os.Stat(path)
				if err != nil {
					continue // deleted before settling
				}
				capture := Capture{
					Path:    path,
					Name:    info.Name(),
					Size:    info.Size(),
					ModTime: info.ModTime(),
				}
				select {
				case w.captures <- capture:
				case <-w.ctx.Done():
					close(w.captures)
					return
				}
			}
		}
	}
}
