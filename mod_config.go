package particleart

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/gekko3d/particleart/sim"
)

// ConfigStore holds the current Config. It may be written from any goroutine
// (file watcher, hotkeys); the frame loop reads one snapshot per frame.
type ConfigStore struct {
	v       atomic.Pointer[sim.Config]
	version atomic.Uint64
	mu      sync.Mutex // serializes Update
}

func NewConfigStore(cfg sim.Config) *ConfigStore {
	s := &ConfigStore{}
	s.Store(cfg)
	return s
}

func (s *ConfigStore) Load() sim.Config {
	if c := s.v.Load(); c != nil {
		return *c
	}
	return sim.DefaultConfig()
}

// Store sanitizes and publishes cfg.
func (s *ConfigStore) Store(cfg sim.Config) {
	cfg = cfg.Sanitize()
	s.v.Store(&cfg)
	s.version.Add(1)
}

// Update applies fn to a copy of the current config and publishes the result.
func (s *ConfigStore) Update(fn func(cfg *sim.Config)) sim.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.Load()
	fn(&cfg)
	s.Store(cfg)
	return s.Load()
}

// Version increases on every Store.
func (s *ConfigStore) Version() uint64 { return s.version.Load() }

// ConfigModule loads the TOML config at Path (defaults when empty) and,
// with Watch, reloads it whenever the file changes on disk.
type ConfigModule struct {
	Path    string
	Watch   bool
	Initial *sim.Config
}

// ConfigWatcher is present as a resource while a config file is watched.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func (m ConfigModule) Install(app *App, cmd *Commands) {
	log := app.Logger()

	cfg := sim.DefaultConfig()
	if m.Initial != nil {
		cfg = *m.Initial
	}
	if m.Path != "" {
		loaded, err := sim.LoadConfig(m.Path)
		if err != nil {
			log.Warnf("using default config: %v", err)
		} else {
			cfg = loaded
			log.Infof("loaded config %s", m.Path)
		}
	}
	store := NewConfigStore(cfg)
	cmd.AddResources(store)

	if !m.Watch || m.Path == "" {
		return
	}
	w, err := WatchConfig(m.Path, store, log)
	if err != nil {
		log.Warnf("config hot reload disabled: %v", err)
		return
	}
	cmd.AddResources(w)
	cmd.UseSystem(System(stopConfigWatchSystem).InState(OnExit(StateQuit)))
}

func stopConfigWatchSystem(w *ConfigWatcher) {
	w.Close()
}

// WatchConfig reloads path into store on every write. The parent directory
// is watched so editors that replace the file are handled too. Files that
// fail to parse are logged and leave the store untouched.
func WatchConfig(path string, store *ConfigStore, log Logger) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &ConfigWatcher{
		watcher: watcher,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(w.stopped)
		for {
			select {
			case <-w.done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := sim.LoadConfig(abs)
				if err != nil {
					log.Warnf("ignoring config change: %v", err)
					continue
				}
				store.Store(cfg)
				log.Infof("reloaded config %s", path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("config watcher: %v", err)
			}
		}
	}()
	return w, nil
}

// Close stops watching and waits for the reload goroutine to exit.
func (w *ConfigWatcher) Close() {
	w.once.Do(func() {
		close(w.done)
		w.watcher.Close()
		<-w.stopped
	})
}
