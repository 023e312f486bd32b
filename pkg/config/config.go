/*
Package config manages the TOML config for stache.

A missing config file is created with defaults on first run. A file that fails
to decode is salvaged section by section, keeping every value whose type is
right and falling back to defaults for the rest.
*/
package config

import (
	"path/filepath"

	"github.com/bastiangx/stache/internal/utils"
	"github.com/bastiangx/stache/pkg/popup"
	"github.com/bastiangx/stache/pkg/session"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Completion CompletionConfig `toml:"completion"`
	Popup      popup.Options    `toml:"popup"`
	Catalog    CatalogConfig    `toml:"catalog"`
	LSP        LSPConfig        `toml:"lsp"`
	CLI        CliConfig        `toml:"cli"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit      int `toml:"max_limit"`
	MaxTextLength int `toml:"max_text_length"`
}

// CompletionConfig tunes suggestion sessions.
type CompletionConfig struct {
	PreserveSelection bool `toml:"preserve_selection"`
}

// CatalogConfig points at a catalog file. Empty uses the built-in catalog.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// LSPConfig holds language server options.
type LSPConfig struct {
	// WSAddr serves the language server over WebSocket when set, e.g. ":7998".
	WSAddr string `toml:"ws_addr"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:      64,
			MaxTextLength: 1 << 20,
		},
		Completion: CompletionConfig{
			PreserveSelection: false,
		},
		Popup: popup.DefaultOptions(),
		CLI: CliConfig{
			DefaultLimit: 10,
		},
	}
}

// SessionOptions derives the per-session options from the config.
func (c *Config) SessionOptions(limit int) session.Options {
	return session.Options{
		PreserveSelection: c.Completion.PreserveSelection,
		Limit:             limit,
		Popup:             c.Popup,
	}
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(FileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/stache/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse salvages what it can from a config that failed to decode.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "completion"); ok {
		if val, ok := utils.ExtractBool(section, "preserve_selection"); ok {
			config.Completion.PreserveSelection = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "popup"); ok {
		extractPopupConfig(section, &config.Popup)
	}
	if section, ok := utils.ExtractSection(tempConfig, "catalog"); ok {
		if val, ok := utils.ExtractString(section, "path"); ok {
			config.Catalog.Path = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "lsp"); ok {
		if val, ok := utils.ExtractString(section, "ws_addr"); ok {
			config.LSP.WSAddr = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractInt64(section, "default_limit"); ok {
			config.CLI.DefaultLimit = val
		}
	}
	config.normalize()
	return config, nil
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_text_length"); ok {
		server.MaxTextLength = val
	}
}

// extractPopupConfig extracts popup placement options from a map
func extractPopupConfig(data map[string]any, opts *popup.Options) {
	if val, ok := utils.ExtractFloat(data, "line_height_offset"); ok {
		opts.LineHeightOffset = val
	}
	if val, ok := utils.ExtractFloat(data, "margin"); ok {
		opts.Margin = val
	}
	if val, ok := utils.ExtractFloat(data, "min_width"); ok {
		opts.MinWidth = val
	}
}

// normalize replaces values that would break the engine with defaults.
func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.Server.MaxLimit <= 0 {
		log.Warnf("server.max_limit must be positive, using %d", defaults.Server.MaxLimit)
		c.Server.MaxLimit = defaults.Server.MaxLimit
	}
	if c.Server.MaxTextLength <= 0 {
		c.Server.MaxTextLength = defaults.Server.MaxTextLength
	}
	if c.Popup.MinWidth < 0 || c.Popup.Margin < 0 {
		log.Warnf("negative popup geometry in config, using defaults")
		c.Popup = defaults.Popup
	}
	if c.CLI.DefaultLimit < 0 {
		c.CLI.DefaultLimit = defaults.CLI.DefaultLimit
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server and completion values and saves to file.
// Nil arguments leave the current value untouched.
func (c *Config) Update(configPath string, maxLimit, maxTextLength *int, preserveSelection *bool) error {
	if maxLimit != nil {
		c.Server.MaxLimit = *maxLimit
	}
	if maxTextLength != nil {
		c.Server.MaxTextLength = *maxTextLength
	}
	if preserveSelection != nil {
		c.Completion.PreserveSelection = *preserveSelection
	}
	c.normalize()
	return SaveConfig(c, configPath)
}
