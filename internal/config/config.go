// Package config loads the coderlm service configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigDir is the directory name, relative to a project root, that
// holds coderlm's persisted state (cache, annotations, config).
const DefaultConfigDir = ".coderlm"

// Config is the top-level coderlm configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Index   IndexConfig   `toml:"index"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig configures the HTTP transport collaborator.
type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

// IndexConfig configures the indexing engine.
type IndexConfig struct {
	MaxProjects    int      `toml:"max_projects"`
	MaxFileSize    int64    `toml:"max_file_size"`
	DebounceMs     int      `toml:"debounce_ms"`
	ExtraIgnore    []string `toml:"extra_ignore"`
	GrepMaxMatches int      `toml:"grep_max_matches"`
}

// LoggingConfig configures arbor.
type LoggingConfig struct {
	Level      string `toml:"level"`
	Output     string `toml:"output"` // "console", "file", or "both"
	Format     string `toml:"format"` // "json" or "text"
	TimeFormat string `toml:"time_format"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	dataDir    string
}

// DataDir returns the directory logs are written under.
func (c *Config) DataDir() string {
	if c.Logging.dataDir != "" {
		return c.Logging.dataDir
	}
	return DefaultConfigDir
}

// DefaultConfig returns the configuration used when no config.toml is
// present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 8420,
		},
		Index: IndexConfig{
			MaxProjects:    5,
			MaxFileSize:    1_000_000,
			DebounceMs:     500,
			GrepMaxMatches: 200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "console",
			Format: "json",
		},
	}
}

// Load reads <projectRoot>/.coderlm/config.toml, falling back to
// DefaultConfig when absent.
func Load(projectRoot string) (*Config, error) {
	configPath := filepath.Join(projectRoot, DefaultConfigDir, "config.toml")

	cfg := DefaultConfig()
	cfg.Logging.dataDir = filepath.Join(projectRoot, DefaultConfigDir)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to <projectRoot>/.coderlm/config.toml.
func Save(projectRoot string, cfg *Config) error {
	configDir := filepath.Join(projectRoot, DefaultConfigDir)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	header := []byte("# coderlm configuration\n# Only override values you need to change.\n\n")
	data = append(header, data...)

	configPath := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
