package logging

import (
	"fmt"
	"sync"

	"careerpilot-api/internal/logging/adapters"
	"careerpilot-api/internal/logging/types"
)

// Manager handles the lifecycle of the logging system
type Manager struct {
	logger *MultiLogger
	mu     sync.RWMutex
}

// Config represents the logging system configuration
type Config struct {
	Level    string                `yaml:"level"`
	Format   string                `yaml:"format"`
	Adapters []types.AdapterConfig `yaml:"adapters"`
}

// DefaultConfig returns a sensible default logging configuration
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Adapters: []types.AdapterConfig{
			{
				Name:    "stdout",
				Type:    "stdout",
				Enabled: true,
			},
		},
	}
}

// NewManager creates a new logging manager with the given configuration
func NewManager(config Config) (*Manager, error) {
	logger := NewMultiLogger()
	logger.SetLevel(ParseLogLevel(config.Level))

	for _, adapterCfg := range config.Adapters {
		if !adapterCfg.Enabled {
			continue
		}

		adapter, err := buildAdapter(adapterCfg, config.Format)
		if err != nil {
			return nil, fmt.Errorf("failed to create adapter %s: %w", adapterCfg.Name, err)
		}
		if err := logger.AddAdapter(adapter); err != nil {
			return nil, err
		}
	}

	return &Manager{logger: logger}, nil
}

// GetLogger returns the managed logger
func (m *Manager) GetLogger() Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logger
}

// Close shuts down the logging system
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logger.Close()
}

func buildAdapter(cfg types.AdapterConfig, defaultFormat string) (types.LogAdapter, error) {
	switch cfg.Type {
	case "stdout":
		format := defaultFormat
		if f, ok := cfg.Options["format"].(string); ok && f != "" {
			format = f
		}
		return adapters.NewStdoutAdapter(cfg.Name, adapters.StdoutConfig{Format: format}), nil
	case "file":
		fileCfg := adapters.FileConfig{CreateDirs: true}
		if p, ok := cfg.Options["file_path"].(string); ok {
			fileCfg.FilePath = p
		}
		if s, ok := cfg.Options["sync_on_write"].(bool); ok {
			fileCfg.SyncOnWrite = s
		}
		return adapters.NewFileAdapter(cfg.Name, fileCfg)
	default:
		return nil, fmt.Errorf("unknown adapter type: %s", cfg.Type)
	}
}

var (
	globalManager *Manager
	globalMu      sync.RWMutex
)

// InitializeLogging sets up the global logging system
func InitializeLogging(config Config) error {
	manager, err := NewManager(config)
	if err != nil {
		return err
	}

	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager != nil {
		globalManager.Close()
	}
	globalManager = manager
	return nil
}

// GetGlobalLogger returns the global logger, initializing a default one if needed
func GetGlobalLogger() Logger {
	globalMu.RLock()
	if globalManager != nil {
		defer globalMu.RUnlock()
		return globalManager.GetLogger()
	}
	globalMu.RUnlock()

	if err := InitializeLogging(DefaultConfig()); err != nil {
		// Fall back to a bare logger writing to stdout
		logger := NewMultiLogger()
		logger.AddAdapter(adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{Format: "json"}))
		return logger
	}

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalManager.GetLogger()
}

// ShutdownLogging closes the global logging system
func ShutdownLogging() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		return nil
	}
	err := globalManager.Close()
	globalManager = nil
	return err
}
