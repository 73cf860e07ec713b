// FILE: lixenwraith/smartlog/sink/file/config.go
package file

import (
	"strings"

	"github.com/lixenwraith/smartlog"
)

// ConfigPrefix is the key prefix of file sink settings in a config file
const ConfigPrefix = "file."

// Config holds the rotating file sink settings
type Config struct {
	Directory     string `toml:"directory"`       // Directory holding the daily files
	Prefix        string `toml:"prefix"`          // File name before the day key
	Suffix        string `toml:"suffix"`          // File name after the day key
	IdleTimeoutMs int64  `toml:"idle_timeout_ms"` // Sweep interval for idle handles
	UTC           bool   `toml:"utc"`             // Day keys in UTC instead of local time
	Level         string `toml:"level"`           // Optional severity filter, empty accepts all
}

var defaultConfig = Config{
	Directory:     "/var/log",
	Prefix:        "log-",
	Suffix:        ".log",
	IdleTimeoutMs: 60000,
	UTC:           false,
	Level:         "",
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads the file section of a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := smartlog.LoadConfig(path, ConfigPrefix, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverride applies "key=value" overrides, keeping the config unchanged on error
func (c *Config) ApplyOverride(overrides ...string) error {
	next := c.Clone()
	if err := smartlog.ApplyOverrides(next, overrides...); err != nil {
		return err
	}
	if err := next.validate(); err != nil {
		return err
	}
	*c = *next
	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.Directory) == "" {
		return configErrorf("directory cannot be empty")
	}
	if strings.ContainsRune(c.Prefix, '/') || strings.ContainsRune(c.Suffix, '/') {
		return configErrorf("prefix and suffix cannot contain path separators")
	}
	if c.IdleTimeoutMs <= 0 {
		return configErrorf("idle_timeout_ms must be positive: %d", c.IdleTimeoutMs)
	}
	if _, err := smartlog.LevelFilterString(c.Level); err != nil {
		return smartlog.CombineErrors(smartlog.ErrInvalidConfig, err)
	}
	return nil
}
