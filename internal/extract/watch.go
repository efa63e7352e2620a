package extract

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs extraction against a single netlist file whenever it
// changes on disk, debouncing bursts of writes (editors and build tools
// commonly emit several events for one logical save).
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func()
	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

// NewWatcher starts watching path. onChange is invoked (debounced by
// 200ms) after a write event settles.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{
		path:     path,
		watcher:  fw,
		onChange: onChange,
		stopChan: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var debounce *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, func() {
				if w.onChange != nil {
					w.onChange()
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("extract watcher error for %s: %v", w.path, err)

		case <-w.stopChan:
			if debounce != nil {
				debounce.Stop()
			}
			return
		}
	}
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	return w.watcher.Close()
}
