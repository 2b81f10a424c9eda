package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Watcher reloads the engine tunables when their YAML file changes,
// letting operators retune thresholds without a restart. Static
// settings (AWS, logging) stay fixed for the process lifetime.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  EngineConfig
	mu       sync.RWMutex
	onChange []func(EngineConfig)
	logger   *zap.Logger
	stopCh   chan struct{}
}

// engineFile is the watched file's shape; only the engine block is read
type engineFile struct {
	Engine EngineConfig `yaml:"engine"`
}

// NewWatcher creates a watcher over the engine block of the config file
func NewWatcher(configPath string, initial EngineConfig, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config file: %w", err)
	}
	// Editors and config management tools often replace the file, which
	// surfaces as a rename in the parent directory
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		logger.Warn("failed to watch config directory", zap.Error(err))
	}

	return &Watcher{
		path:    configPath,
		watcher: watcher,
		current: initial,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching for configuration changes
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("configuration watcher started", zap.String("path", w.path))
}

// Stop stops watching for configuration changes
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	var debounceTimer *time.Timer
	debounceDuration := 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	engine, err := loadEngineConfig(w.path)
	if err != nil {
		w.logger.Error("failed to reload engine config, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	old := w.current
	w.current = engine
	handlers := w.onChange
	w.mu.Unlock()

	if old != engine {
		w.logger.Info("engine config reloaded",
			zap.Float64("similarity_threshold", engine.SimilarityThreshold),
			zap.Int("result_limit", engine.ResultLimit),
			zap.Int("graph_max_depth", engine.GraphMaxDepth),
			zap.Int("graph_max_nodes", engine.GraphMaxNodes),
		)
	}

	for _, handler := range handlers {
		go handler(engine)
	}
}

// OnChange registers a callback invoked after each successful reload
func (w *Watcher) OnChange(handler func(EngineConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// Current returns the engine tunables as of the last successful reload
func (w *Watcher) Current() EngineConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func loadEngineConfig(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("read config file: %w", err)
	}

	var file engineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return EngineConfig{}, fmt.Errorf("parse config file: %w", err)
	}
	if err := validate.Struct(file.Engine); err != nil {
		return EngineConfig{}, fmt.Errorf("invalid engine config: %w", err)
	}
	return file.Engine, nil
}
