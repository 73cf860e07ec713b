// FILE: lixenwraith/smartlog/sink/syslog/config.go
package syslog

import (
	"os"
	"strings"

	"github.com/lixenwraith/smartlog"
)

// ConfigPrefix is the key prefix of syslog sink settings in a config file
const ConfigPrefix = "syslog."

// Config holds the syslog sink settings
type Config struct {
	ID       string `toml:"id"`       // Application identifier, mandatory
	Hostname string `toml:"hostname"` // Syslog server host
	Port     int64  `toml:"port"`     // Syslog server UDP port
	Facility string `toml:"facility"` // Facility name, see Facilities
	FQDN     string `toml:"fqdn"`     // Host name written in the header, empty uses os.Hostname
	Level    string `toml:"level"`    // Optional severity filter, empty accepts all
}

var defaultConfig = Config{
	ID:       "",
	Hostname: "127.0.0.1",
	Port:     514,
	Facility: "user",
	FQDN:     "",
	Level:    "",
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads the syslog section of a TOML file and returns a validated Config
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

// fqdn returns the configured header host name or the local host name
func (c *Config) fqdn() string {
	if c.FQDN != "" {
		return c.FQDN
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "localhost"
	}
	return host
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(c.Hostname) == "" {
		return configErrorf("hostname cannot be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return configErrorf("port out of range: %d", c.Port)
	}
	if _, ok := FacilityCode(c.Facility); !ok {
		return configErrorf("unknown facility '%s'", c.Facility)
	}
	if _, err := smartlog.LevelFilterString(c.Level); err != nil {
		return smartlog.CombineErrors(smartlog.ErrInvalidConfig, err)
	}
	return nil
}
