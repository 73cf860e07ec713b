// FILE: lixenwraith/smartlog/config.go
package smartlog

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/lixenwraith/config"
)

// ConfigPrefix is the key prefix of agent settings in a config file
const ConfigPrefix = "agent."

// Config holds the agent configuration values
type Config struct {
	Level               string `toml:"level"`                 // Severity threshold for log calls
	QueueStrategy       string `toml:"queue_strategy"`        // Delivery queue strategy, only "grow"
	BufferSize          int64  `toml:"buffer_size"`           // High-water mark of the default stream
	HeartbeatIntervalMs int64  `toml:"heartbeat_interval_ms"` // Self-metric interval, 0 disables
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Level:               "warning",
	QueueStrategy:       StrategyGrow,
	BufferSize:          16,
	HeartbeatIntervalMs: 0,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads the agent section of a TOML file and returns a validated Config.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadConfig(path, ConfigPrefix, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig fills target, a pointer to a struct with toml tags, from the section of a
// TOML file selected by prefix (e.g. "file."). Fields absent from the file keep their values.
func LoadConfig(path, prefix string, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmtErrorf("config target must be a struct pointer, got %T", target)
	}

	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct(prefix, v.Elem().Interface()); err != nil {
		return fmtErrorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, prefix, v.Elem()); err != nil {
		return fmtErrorf("failed to extract config values: %w", err)
	}
	return nil
}

// extractConfig copies loader values into the tagged fields of a struct
func extractConfig(loader *config.Config, prefix string, v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" || tomlTag == "-" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// fieldByTag returns the struct field carrying the given toml tag
func fieldByTag(v reflect.Value, tag string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == tag {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue sets a reflect.Value with proper type conversion.
// Strings are parsed for numeric and boolean fields so overrides and TOML share one path.
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int, reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value '%s': %w", v, err)
			}
			field.SetInt(n)
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Float64:
		switch v := value.(type) {
		case float64:
			field.SetFloat(v)
		case int64:
			field.SetFloat(float64(v))
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("invalid float value '%s': %w", v, err)
			}
			field.SetFloat(f)
		default:
			return fmt.Errorf("expected float64, got %T", value)
		}

	case reflect.Bool:
		switch v := value.(type) {
		case bool:
			field.SetBool(v)
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid boolean value '%s': %w", v, err)
			}
			field.SetBool(b)
		default:
			return fmt.Errorf("expected bool, got %T", value)
		}

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return CombineErrors(ErrInvalidConfig, err)
	}

	if c.QueueStrategy != StrategyGrow {
		return configErrorf("unknown queue_strategy '%s' (use %s)", c.QueueStrategy, StrategyGrow)
	}

	if c.BufferSize <= 0 {
		return configErrorf("buffer_size must be positive: %d", c.BufferSize)
	}

	if c.HeartbeatIntervalMs < 0 {
		return configErrorf("heartbeat_interval_ms cannot be negative: %d", c.HeartbeatIntervalMs)
	}

	return nil
}

// Validate checks the configuration without building an agent
func (c *Config) Validate() error {
	return c.validate()
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
