package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned when the configuration file does not exist.
var ErrNoConfig = errors.New("no config file found, please create one or provide the path with --config")

type Manager struct {
	configPath string
	config     *Config
}

func NewManager(configPath string) *Manager {
	return &Manager{configPath: configPath}
}

// Load reads and validates the configuration document.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoConfig
		}
		return fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	m.config = &cfg
	return nil
}

// Config returns the loaded configuration.
func (m *Manager) Config() *Config {
	return m.config
}

// Save rewrites the whole configuration document.
func (m *Manager) Save() error {
	if m.config == nil {
		return fmt.Errorf("no config to save")
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}

	return nil
}

// Init writes a fresh configuration document. It refuses to overwrite
// an existing file.
func (m *Manager) Init(cfg *Config) error {
	if _, err := os.Stat(m.configPath); err == nil {
		return fmt.Errorf("`%s` already exists", m.configPath)
	}

	m.config = cfg
	return m.Save()
}

// Add appends a destination to the loaded document and rewrites it.
func (m *Manager) Add(dest Destination) error {
	if m.config == nil {
		return ErrNoConfig
	}
	if err := dest.Validate(); err != nil {
		return err
	}

	m.config.Destination = append(m.config.Destination, dest)
	return m.Save()
}
