// Package config handles configuration loading for shellgate: the hook's
// own TOML config plus the permission rules from the Claude settings files.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/shellgate/shellgate/internal/constants"
	"github.com/shellgate/shellgate/internal/logger"
	"github.com/shellgate/shellgate/internal/rules"
)

//go:embed config.toml
var defaultConfig []byte

// File is the TOML schema of shellgate's own config file.
type File struct {
	Enabled *bool    `toml:"enabled"`
	Allow   []string `toml:"allow"`
	Deny    []string `toml:"deny"`
	Audit   struct {
		Disabled  bool   `toml:"disabled"`
		Path      string `toml:"path"`
		MaxSizeKB int64  `toml:"max_size_kb"`
	} `toml:"audit"`
}

// Config is the loaded hook configuration.
type Config struct {
	// Enabled gates the whole engine; when false the hook defers without
	// ever invoking the core.
	Enabled bool
	// ExtraAllow and ExtraDeny are rules contributed by config.toml,
	// merged after the settings-file rules.
	ExtraAllow []rules.Rule
	ExtraDeny  []rules.Rule
	// Audit log settings.
	AuditDisabled bool
	AuditPath     string
	AuditMaxSize  int64
}

var (
	globalConfig      *Config
	configInitialized bool
	configPath        string
	initErr           error
)

// GetConfigDir returns the config directory path.
// Uses SHELLGATE_CONFIG env var if set, otherwise ~/.config/shellgate.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.XDGConfigSubdir, constants.AppName), nil
}

// EnsureConfigFiles creates the config directory and writes the default
// config file if it doesn't exist.
func EnsureConfigFiles(configDir string) error {
	if err := os.MkdirAll(configDir, constants.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(configDir, constants.ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, defaultConfig, constants.FileMode); err != nil {
			return fmt.Errorf("failed to write %s: %w", constants.ConfigFileName, err)
		}
	}

	return nil
}

// LoadConfig parses TOML config data into a Config.
func LoadConfig(data []byte) (*Config, error) {
	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg := &Config{
		Enabled:       true,
		AuditDisabled: file.Audit.Disabled,
		AuditPath:     file.Audit.Path,
		AuditMaxSize:  file.Audit.MaxSizeKB * 1024,
	}
	if file.Enabled != nil {
		cfg.Enabled = *file.Enabled
	}

	var skipped []string
	cfg.ExtraAllow, skipped = rules.ParseAll(file.Allow)
	for _, lit := range skipped {
		logger.Debug("skipping invalid allow rule in config.toml", "rule", lit)
	}
	cfg.ExtraDeny, skipped = rules.ParseAll(file.Deny)
	for _, lit := range skipped {
		logger.Debug("skipping invalid deny rule in config.toml", "rule", lit)
	}

	return cfg, nil
}

func loadEmbeddedDefaults() *Config {
	cfg, _ := LoadConfig(defaultConfig)
	return cfg
}

// Init loads configuration from files, creating defaults if necessary.
// If loading fails, it falls back to embedded defaults.
func Init() error {
	if configInitialized {
		return initErr
	}
	configInitialized = true

	configDir, err := GetConfigDir()
	if err != nil {
		logger.Debug("failed to get config dir, using embedded defaults", "error", err)
		globalConfig = loadEmbeddedDefaults()
		initErr = err
		return err
	}

	if err := EnsureConfigFiles(configDir); err != nil {
		logger.Debug("failed to ensure config files, using embedded defaults", "error", err)
		globalConfig = loadEmbeddedDefaults()
		initErr = err
		return err
	}

	path := filepath.Join(configDir, constants.ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("failed to read config file, using embedded defaults", "path", path, "error", err)
		globalConfig = loadEmbeddedDefaults()
		initErr = fmt.Errorf("failed to read %s: %w", constants.ConfigFileName, err)
		return initErr
	}

	globalConfig, err = LoadConfig(data)
	if err != nil {
		logger.Debug("failed to parse config, using embedded defaults", "error", err)
		globalConfig = loadEmbeddedDefaults()
		initErr = fmt.Errorf("failed to load config: %w", err)
		return initErr
	}

	configPath = path
	logger.Debug("config loaded",
		"path", path,
		"enabled", globalConfig.Enabled,
		"extra_allow", len(globalConfig.ExtraAllow),
		"extra_deny", len(globalConfig.ExtraDeny))
	return nil
}

// Get returns the current configuration, initializing with defaults if
// Init has not been called.
func Get() *Config {
	if !configInitialized {
		Init()
	}
	return globalConfig
}

// GetConfigPath returns the path of the loaded config file, or "" when the
// embedded defaults are in use.
func GetConfigPath() string {
	return configPath
}

// InitError returns the error from config initialization, if any.
func InitError() error {
	return initErr
}

// Reset resets the configuration state. Used for testing.
func Reset() {
	configInitialized = false
	globalConfig = nil
	configPath = ""
	initErr = nil
}

// GetDefaultConfig returns the embedded default configuration.
func GetDefaultConfig() []byte {
	return defaultConfig
}
