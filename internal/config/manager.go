package config

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Manager provides thread-safe, read-only configuration management.
// Configuration files are never modified by the gateway; all updates come
// from external sources such as mounted ConfigMaps or deployment tooling.
//
// Invalid updates are rejected and the last known good configuration stays
// active.
type Manager interface {
	// GetConfig safely retrieves the current configuration
	GetConfig() *Config

	// ReloadConfig reads the latest configuration from disk and applies it if valid.
	ReloadConfig() error

	// WatchConfig observes the configuration file for external changes and
	// reloads on update. Blocks until the context is cancelled.
	WatchConfig(ctx context.Context) error

	// Close releases the file watcher resources
	Close() error
}

// Validator validates a configuration beyond the built-in checks
type Validator interface {
	Validate(config *Config) error
}

// ReloadHook is called with every configuration that was successfully applied
type ReloadHook func(*Config)

// defaultValidator uses the Config's built-in validation
type defaultValidator struct{}

// Validate delegates to the Config's own Validate method
func (*defaultValidator) Validate(config *Config) error {
	return config.Validate()
}

type manager struct {
	mu         sync.RWMutex
	config     *Config
	configPath string
	validator  Validator
	hooks      []ReloadHook
	watcher    *fsnotify.Watcher
	watcherMu  sync.Mutex
}

// ManagerOption allows customizing Manager behavior
type ManagerOption func(*manager)

// WithValidator sets a custom validator for the manager
func WithValidator(validator Validator) ManagerOption {
	return func(m *manager) {
		m.validator = validator
	}
}

// WithReloadHook registers a hook run after the initial load and every
// successful reload
func WithReloadHook(hook ReloadHook) ManagerOption {
	return func(m *manager) {
		m.hooks = append(m.hooks, hook)
	}
}

// NewManager creates a Manager for the given configuration file path.
// It loads and validates the initial configuration.
func NewManager(configPath string, opts ...ManagerOption) (Manager, error) {
	m := &manager{
		configPath: configPath,
		validator:  &defaultValidator{},
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.ReloadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load initial configuration: %w", err)
	}

	return m, nil
}

// GetConfig returns a shallow copy of the active configuration
func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	return &configCopy
}

// ReloadConfig reads the configuration file and applies it if valid
func (m *manager) ReloadConfig() error {
	newConfig, err := LoadConfig(WithConfigPath(m.configPath))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := m.validator.Validate(newConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m.mu.Lock()
	m.config = newConfig
	m.mu.Unlock()

	for _, hook := range m.hooks {
		hook(newConfig)
	}

	slog.Info("Configuration loaded", "path", m.configPath)
	return nil
}

// WatchConfig observes the configuration file for external changes.
// This method blocks until the context is cancelled.
func (m *manager) WatchConfig(ctx context.Context) error {
	m.watcherMu.Lock()
	if m.watcher != nil {
		m.watcherMu.Unlock()
		return fmt.Errorf("config watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.watcherMu.Unlock()
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	m.watcher = watcher
	m.watcherMu.Unlock()

	if err := watcher.Add(m.configPath); err != nil {
		return fmt.Errorf("failed to watch config file %s: %w", m.configPath, err)
	}

	slog.Info("Started watching configuration file", "path", m.configPath)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping config file watcher due to context cancellation")
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				slog.Info("External config update detected, reloading", "path", m.configPath)

				if err := m.ReloadConfig(); err != nil {
					// Previous config remains active
					slog.Error("Failed to reload config", "error", err)
				}
			}

			// Atomic replaces and symlink swaps remove the watched file; the
			// replacement is a new file that needs its own watch
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				m.rewatch(watcher)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

// rewatch adds a watch on the replaced config file and applies its content
func (m *manager) rewatch(watcher *fsnotify.Watcher) {
	if err := watcher.Add(m.configPath); err != nil {
		slog.Error("Failed to re-watch replaced config file", "path", m.configPath, "error", err)
		return
	}

	slog.Info("Config file replaced, reloading", "path", m.configPath)
	if err := m.ReloadConfig(); err != nil {
		slog.Error("Failed to reload config", "error", err)
	}
}

// Close releases the file watcher, if any
func (m *manager) Close() error {
	m.watcherMu.Lock()
	defer m.watcherMu.Unlock()

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			return fmt.Errorf("failed to close file watcher: %w", err)
		}
		m.watcher = nil
		slog.Info("Config watcher closed")
	}

	return nil
}
