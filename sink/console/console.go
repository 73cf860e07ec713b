// FILE: lixenwraith/smartlog/sink/console/console.go
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/lixenwraith/smartlog"
	"github.com/lixenwraith/smartlog/formatter"
)

// ConfigPrefix is the key prefix of console sink settings in a config file
const ConfigPrefix = "console."

// Config holds the console sink settings
type Config struct {
	Target string `toml:"target"` // "stdout" or "stderr"
	Format string `toml:"format"` // "json" or "txt"
	Level  string `toml:"level"`  // Optional severity filter, empty accepts all
}

var defaultConfig = Config{
	Target: "stderr",
	Format: formatter.FormatJSON,
	Level:  "",
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads the console section of a TOML file and returns a validated Config
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
	next := *c
	if err := smartlog.ApplyOverrides(&next, overrides...); err != nil {
		return err
	}
	if err := next.validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *Config) validate() error {
	if c.Target != "stdout" && c.Target != "stderr" {
		return fmt.Errorf("smartlog/console: %w: invalid target '%s' (use stdout or stderr)", smartlog.ErrInvalidConfig, c.Target)
	}
	if c.Format != formatter.FormatJSON && c.Format != formatter.FormatTxt {
		return fmt.Errorf("smartlog/console: %w: invalid format '%s' (use json or txt)", smartlog.ErrInvalidConfig, c.Format)
	}
	if _, err := smartlog.LevelFilterString(c.Level); err != nil {
		return smartlog.CombineErrors(smartlog.ErrInvalidConfig, err)
	}
	return nil
}

var _ smartlog.Sink = (*Sink)(nil)

// Sink writes one line per record to a terminal stream
type Sink struct {
	mu        sync.Mutex
	w         io.Writer
	formatter *formatter.Formatter
	filter    smartlog.FilterFunc
}

// New creates a console sink for the configured target
func New(cfg *Config) (*Sink, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var w io.Writer = os.Stderr
	if cfg.Target == "stdout" {
		w = os.Stdout
	}
	return NewWriter(w, cfg.Format, cfg.Level)
}

// NewWriter creates a sink writing to any io.Writer
func NewWriter(w io.Writer, format, level string) (*Sink, error) {
	filter, err := smartlog.LevelFilterString(level)
	if err != nil {
		return nil, smartlog.CombineErrors(smartlog.ErrInvalidConfig, err)
	}
	return &Sink{
		w:         w,
		formatter: formatter.New().Type(format),
		filter:    filter,
	}, nil
}

// Filter reports whether the sink accepts rec
func (s *Sink) Filter(rec smartlog.Record) bool {
	return s.filter(rec)
}

// Write formats and writes rec
func (s *Sink) Write(rec smartlog.Record) error {
	if !s.filter(rec) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.formatter.Format(rec.Timestamp, rec.Level, rec.Fields)
	if _, err := s.w.Write(line); err != nil {
		return fmt.Errorf("smartlog/console: write failed: %w", err)
	}
	return nil
}

// Close is a no-op, the terminal streams stay open
func (s *Sink) Close() error {
	return nil
}
