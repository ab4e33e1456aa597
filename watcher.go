package dino

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RebuildFunc rebuilds a tenant's bundle and config from disk and
// returns the fresh (code, routes) pair to swap in.
type RebuildFunc func() (code string, routes []RouteEntry, err error)

// Watcher debounces filesystem-change notifications at 2s (spec.md §4.7)
// and triggers a SwappableAppRouter.Swap when a relevant file changes.
// Only its callback contract is in scope per spec.md §1 — the actual
// watching is delegated to fsnotify, as air's coffer.go does for its
// asset cache invalidation.
type Watcher struct {
	Debounce time.Duration
	Rebuild  RebuildFunc
	Router   *SwappableAppRouter
	Logger   *Logger
	Tenant   string

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending bool
	timer   *time.Timer
}

const defaultDebounce = 2 * time.Second

// NewWatcher constructs a Watcher over the given root directory.
func NewWatcher(root string, router *SwappableAppRouter, rebuild RebuildFunc, logger *Logger, tenant string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		Debounce: defaultDebounce,
		Rebuild:  rebuild,
		Router:   router,
		Logger:   logger,
		Tenant:   tenant,
		fsw:      fsw,
	}
	return w, nil
}

// relevant reports whether a changed path should trigger a rebuild:
// anything named config.yml, or anything with a .ts/.js extension
// (spec.md §4.7).
func relevant(name string) bool {
	if strings.HasSuffix(name, "config.yml") {
		return true
	}
	switch filepath.Ext(name) {
	case ".ts", ".js":
		return true
	}
	return false
}

// Run processes fsnotify events until the watcher is closed. Events
// that arrive during an in-flight rebuild are not dropped — they are
// coalesced into the next debounce window, since each matching event
// just re-arms the same timer rather than triggering its own rebuild.
func (w *Watcher) Run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev.Name) {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logf("watcher error: %v", err)
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, w.fire)
}

func (w *Watcher) fire() {
	code, routes, err := w.Rebuild()
	if err != nil {
		// Per spec.md §7: "swap failures during hot-reload are logged
		// and the previous snapshot remains in effect."
		w.logf("rebuild failed, keeping previous snapshot: %v", err)
		return
	}

	if err := w.Router.Swap(code, routes); err != nil {
		w.logf("swap failed, keeping previous snapshot: %v", err)
		return
	}

	w.logf("swapped to rebuilt bundle")
}

func (w *Watcher) logf(format string, args ...interface{}) {
	if w.Logger != nil {
		w.Logger.Infof(w.Tenant, format, args...)
	}
}
