// FILE: lixenwraith/smartlog/default.go
package smartlog

import "sync"

// Process-wide agent used by the package-level functions
var (
	defaultMu    sync.RWMutex
	defaultAgent *Agent
)

// Init creates the process-wide agent. A second call returns ErrAlreadyInitialized.
func Init(cfg *Config) (*Agent, error) {
	return InitWith(NewBuilder().Config(cfg))
}

// InitWith creates the process-wide agent from a builder
func InitWith(b *Builder) (*Agent, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultAgent != nil {
		return nil, ErrAlreadyInitialized
	}

	agent, err := b.Build()
	if err != nil {
		return nil, err
	}
	defaultAgent = agent
	return agent, nil
}

// Default returns the process-wide agent, nil before Init
func Default() *Agent {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultAgent
}

// resetDefault clears the process-wide agent, tests only
func resetDefault() {
	defaultMu.Lock()
	defaultAgent = nil
	defaultMu.Unlock()
}

// Default package-level functions that delegate to the default agent.
// They are no-ops before Init.

// Emergency logs at emergency severity
func Emergency(args ...Arg) { logDefault(LevelEmergency, args) }

// Alert logs at alert severity
func Alert(args ...Arg) { logDefault(LevelAlert, args) }

// Critical logs at critical severity
func Critical(args ...Arg) { logDefault(LevelCritical, args) }

// Error logs at error severity
func Error(args ...Arg) { logDefault(LevelError, args) }

// Warning logs at warning severity
func Warning(args ...Arg) { logDefault(LevelWarning, args) }

// Notice logs at notice severity
func Notice(args ...Arg) { logDefault(LevelNotice, args) }

// Info logs at info severity
func Info(args ...Arg) { logDefault(LevelInfo, args) }

// Debug logs at debug severity
func Debug(args ...Arg) { logDefault(LevelDebug, args) }

// Counter records a counter metric
func Counter(key string, value float64, unit ...string) {
	if a := Default(); a != nil {
		a.Counter(key, value, unit...)
	}
}

// Histogram records a histogram metric
func Histogram(key string, value float64, unit ...string) {
	if a := Default(); a != nil {
		a.Histogram(key, value, unit...)
	}
}

func logDefault(level Level, args []Arg) {
	if a := Default(); a != nil {
		a.Log(level, args...)
	}
}
