package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is invoked after a config file on disk changes and has
// been successfully reloaded.
type ChangeFunc func(cfg *Config)

// Watcher reloads Config from its source file on fsnotify write events,
// debounced to absorb editors that write a file in multiple syscalls.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	mu      sync.RWMutex
	current *Config
	onChange []ChangeFunc
	debounce time.Duration
}

// NewWatcher starts watching configPath for changes. The initial load
// happens synchronously so Current() is valid immediately.
func NewWatcher(configPath string) (*Watcher, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(configPath)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     configPath,
		watcher:  fw,
		current:  cfg,
		debounce: 300 * time.Millisecond,
	}
	go w.loop()
	return w, nil
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback fired after every successful reload.
func (w *Watcher) OnChange(f ChangeFunc) {
	w.mu.Lock()
	w.onChange = append(w.onChange, f)
	w.mu.Unlock()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.current = cfg
	callbacks := append([]ChangeFunc(nil), w.onChange...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
