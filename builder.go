// FILE: lixenwraith/smartlog/builder.go
package smartlog

// Builder provides a fluent API for building agents.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg      *Config
	defaults map[string]any
	out      Output
	err      error // Accumulate errors for deferred handling
}

// NewBuilder creates a new agent builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg:      DefaultConfig(),
		defaults: make(map[string]any),
	}
}

// Build creates a new Agent with the specified configuration.
func (b *Builder) Build() (*Agent, error) {
	if b.err != nil {
		return nil, b.err
	}
	return newAgent(b.cfg, b.defaults, b.out)
}

// Config replaces the whole configuration, e.g. one loaded from file.
func (b *Builder) Config(cfg *Config) *Builder {
	if cfg != nil {
		b.cfg = cfg.Clone()
	}
	return b
}

// Level sets the severity threshold.
func (b *Builder) Level(level Level) *Builder {
	if b.err != nil {
		return b
	}
	if !level.Valid() {
		b.err = fmtErrorf("%w: %s", ErrInvalidLevel, level)
		return b
	}
	b.cfg.Level = level.String()
	return b
}

// LevelString sets the severity threshold from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal.String()
	return b
}

// QueueStrategy sets the delivery queue strategy.
func (b *Builder) QueueStrategy(strategy string) *Builder {
	b.cfg.QueueStrategy = strategy
	return b
}

// BufferSize sets the high-water mark of the default stream.
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// HeartbeatIntervalMs sets the self-metric interval, 0 disables it.
func (b *Builder) HeartbeatIntervalMs(interval int64) *Builder {
	b.cfg.HeartbeatIntervalMs = interval
	return b
}

// Defaults merges fields into every log record of the agent.
func (b *Builder) Defaults(fields Fields) *Builder {
	for k, v := range fields {
		b.defaults[k] = v
	}
	return b
}

// Output replaces the default Stream with a custom output.
func (b *Builder) Output(out Output) *Builder {
	b.out = out
	return b
}

// Override applies "key=value" string overrides.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	if err := ApplyOverrides(b.cfg, overrides...); err != nil {
		b.err = err
	}
	return b
}
