// Package config loads and validates the SWS configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigDirName is the per-project directory holding SWS state
const ConfigDirName = ".sws"

// Config represents the complete SWS configuration
type Config struct {
	Version  int            `json:"version" mapstructure:"version"`
	Language LanguageConfig `json:"language" mapstructure:"language"`
	Watcher  WatcherConfig  `json:"watcher" mapstructure:"watcher"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// LanguageConfig describes the project layout the copier and rewriter
// operate on. Defaults target Sway/Forc projects.
type LanguageConfig struct {
	SourceExtension  string `json:"sourceExtension" mapstructure:"sourceExtension"`
	ManifestFileName string `json:"manifestFileName" mapstructure:"manifestFileName"`
	LockFileName     string `json:"lockFileName" mapstructure:"lockFileName"`
}

// WatcherConfig contains manifest watcher configuration
type WatcherConfig struct {
	DebounceMs int `json:"debounceMs" mapstructure:"debounceMs"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Language: LanguageConfig{
			SourceExtension:  ".sw",
			ManifestFileName: "Forc.toml",
			LockFileName:     "Forc.lock",
		},
		Watcher: WatcherConfig{
			DebounceMs: 500,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <projectRoot>/.sws/config.json,
// falling back to defaults when no config file exists.
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("language.sourceExtension", def.Language.SourceExtension)
	v.SetDefault("language.manifestFileName", def.Language.ManifestFileName)
	v.SetDefault("language.lockFileName", def.Language.LockFileName)
	v.SetDefault("watcher.debounceMs", def.Watcher.DebounceMs)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ConfigDirName))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to <projectRoot>/.sws/config.json
func (c *Config) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Language.SourceExtension == "" || c.Language.SourceExtension[0] != '.' {
		return &ConfigError{Field: "language.sourceExtension", Message: "must start with a dot"}
	}
	if c.Language.ManifestFileName == "" {
		return &ConfigError{Field: "language.manifestFileName", Message: "must not be empty"}
	}
	if c.Watcher.DebounceMs <= 0 {
		return &ConfigError{Field: "watcher.debounceMs", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
