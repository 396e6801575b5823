// Package config defines the TOML configuration for tidy and its
// read/write helpers.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for tidy.
type Config struct {
	BaseDir     string            `toml:"base_dir"`
	LogDir      string            `toml:"log_dir"`
	Database    DatabaseConfig    `toml:"database"`
	Learning    LearningConfig    `toml:"learning"`
	Preferences PreferencesConfig `toml:"preferences"`
}

// DatabaseConfig represents configuration for the tracking store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// LearningConfig holds the prediction model settings.
type LearningConfig struct {
	Dir string `toml:"dir"` // where the trained model persists

	// ConfidenceBias multiplies every prediction confidence, clamped to
	// [0, 1] after scaling. 1.0 means no adjustment.
	ConfidenceBias float64 `toml:"confidence_bias"`

	// AutoThreshold is the confidence at or above which a prediction is
	// considered safe to act on without asking.
	AutoThreshold float64 `toml:"auto_threshold"`
}

// PreferencesConfig holds the user's organizing preferences.
type PreferencesConfig struct {
	OrganizeByDate    bool     `toml:"organize_by_date"`
	IgnoredFolders    []string `toml:"ignored_folders"`
	IgnoredExtensions []string `toml:"ignored_extensions"`
}

// NewConfig creates a Config rooted at baseDir with default preferences.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Learning: LearningConfig{
			Dir:            filepath.Join(baseDir, "learning"),
			ConfidenceBias: 1.0,
			AutoThreshold:  0.8,
		},
		Preferences: PreferencesConfig{
			OrganizeByDate:    true,
			IgnoredFolders:    []string{"temp", "cache", ".git", "__pycache__"},
			IgnoredExtensions: []string{".tmp", ".cache", ".lock"},
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
