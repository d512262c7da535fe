package reference

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of writes a docs regeneration produces.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc receives the component whose reference files changed.
type ChangeFunc func(component string)

// Watcher reports changed components of a Store's directory.
//
// Events are debounced per component: a regeneration that rewrites every
// part of Dialog produces one callback for "Dialog".
//
//	w, err := reference.NewWatcher(store, cache.Invalidate, 0, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *Store
	onChange ChangeFunc
	debounce time.Duration
	logger   *slog.Logger

	timers  map[string]*time.Timer
	timerMu sync.Mutex

	stopCh  chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a watcher over store's directory. A zero debounce
// selects DefaultDebounce.
func NewWatcher(store *Store, onChange ChangeFunc, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  fsw,
		store:    store,
		onChange: onChange,
		debounce: debounce,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if err := w.watcher.Add(w.store.Dir()); err != nil {
		return fmt.Errorf("watch %s: %w", w.store.Dir(), err)
	}

	w.logger.Info("reference watcher started", "dir", w.store.Dir())
	go w.loop()
	return nil
}

// Stop ends watching and cancels pending callbacks. It is idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)

	w.timerMu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.timerMu.Unlock()

	return w.watcher.Close()
}

// pending returns the number of components waiting for their debounce.
func (w *Watcher) pending() int {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	return len(w.timers)
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("reference watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	component, _, ok := w.store.Lookup(event.Name)
	if !ok {
		return
	}
	w.logger.Debug("reference file changed", "op", event.Op.String(), "file", event.Name, "component", component)
	w.schedule(component)
}

func (w *Watcher) schedule(component string) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if t, ok := w.timers[component]; ok {
		t.Stop()
	}
	w.timers[component] = time.AfterFunc(w.debounce, func() {
		w.timerMu.Lock()
		delete(w.timers, component)
		w.timerMu.Unlock()

		w.onChange(component)
	})
}
