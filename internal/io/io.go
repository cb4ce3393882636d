package io

import (
	"os"
	"path/filepath"
	"sync"

	. "kobi/internal/logger"

	"github.com/rjeczalik/notify"
)

// Watcher reports changes other programs make to one file. It watches the
// parent directory so that the file may be created, replaced or removed.
type Watcher struct {
	filePath  string
	aliases   []string
	events    chan notify.EventInfo
	lastStats os.FileInfo
	suspended bool
	mu        sync.Mutex
}

func NewWatcher(filePath string) (*Watcher, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil { return nil, err }

	w := &Watcher{filePath: abs, aliases: []string{abs}}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		w.aliases = append(w.aliases, filepath.Join(dir, filepath.Base(abs)))
	}
	return w, nil
}

func (w *Watcher) Path() string { return w.filePath }

func (w *Watcher) StartWatch(onUpdate func()) error {
	w.UpdateStats()
	w.events = make(chan notify.EventInfo, 16)

	err := notify.Watch(filepath.Dir(w.filePath), w.events, notify.Create, notify.Write, notify.Remove, notify.Rename)
	if err != nil { return err }

	go func() {
		for e := range w.events {
			if !w.matches(e.Path()) { continue }
			if w.changed() {
				Log.Info("file changed on disk:", w.filePath, e.Event().String())
				onUpdate()
			}
		}
	}()
	return nil
}

func (w *Watcher) matches(path string) bool {
	path = filepath.Clean(path)
	for _, alias := range w.aliases {
		if path == alias { return true }
	}
	return false
}

// changed compares the file with the last known stats and records the new ones.
func (w *Watcher) changed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.suspended { return false }

	stats, err := os.Stat(w.filePath)
	if err != nil {
		gone := w.lastStats != nil
		w.lastStats = nil
		return gone
	}
	if w.lastStats != nil && stats.Size() == w.lastStats.Size() && stats.ModTime().Equal(w.lastStats.ModTime()) {
		return false
	}
	w.lastStats = stats
	return true
}

// Suspend ignores events until the next UpdateStats, used around our own saves.
func (w *Watcher) Suspend() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.suspended = true
}

// UpdateStats records the current file state as known and resumes reporting.
func (w *Watcher) UpdateStats() {
	w.mu.Lock()
	defer w.mu.Unlock()
	stats, err := os.Stat(w.filePath)
	if err != nil { stats = nil }
	w.lastStats = stats
	w.suspended = false
}

func (w *Watcher) Stop() {
	if w.events == nil { return }
	notify.Stop(w.events)
	close(w.events)
	w.events = nil
}
