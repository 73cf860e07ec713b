// FILE: lixenwraith/smartlog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/smartlog"
	"github.com/valyala/fasthttp"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter turns an Agent into a fasthttp Logger
type FastHTTPAdapter struct {
	agent         *smartlog.Agent
	defaultLevel  smartlog.Level
	levelDetector func(string) (smartlog.Level, bool) // Detects level from message content
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(agent *smartlog.Agent, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		agent:         agent,
		defaultLevel:  smartlog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when no level is detected
func WithDefaultLevel(level smartlog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content
func WithLevelDetector(detector func(string) (smartlog.Level, bool)) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected, ok := a.levelDetector(msg); ok {
			level = detected
		}
	}

	a.agent.Log(level, smartlog.Msg(msg), fasthttpSource)
}

var fasthttpSource = smartlog.Fields{"source": "fasthttp"}

// DetectLogLevel guesses a severity from message keywords; ok is false when nothing matched
func DetectLogLevel(msg string) (smartlog.Level, bool) {
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "panic") || strings.Contains(msgLower, "fatal"):
		return smartlog.LevelCritical, true
	case strings.Contains(msgLower, "error") || strings.Contains(msgLower, "failed"):
		return smartlog.LevelError, true
	case strings.Contains(msgLower, "warn") || strings.Contains(msgLower, "deprecated"):
		return smartlog.LevelWarning, true
	case strings.Contains(msgLower, "debug") || strings.Contains(msgLower, "trace"):
		return smartlog.LevelDebug, true
	default:
		return smartlog.LevelInfo, false
	}
}
