// FILE: lixenwraith/smartlog/compat/gnet.go
package compat

import (
	"fmt"
	"os"

	"github.com/lixenwraith/smartlog"
	"github.com/panjf2000/gnet/v2/pkg/logging"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter turns an Agent into a gnet logging.Logger
type GnetAdapter struct {
	agent        *smartlog.Agent
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(agent *smartlog.Agent, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		agent: agent,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.agent.Debug(smartlog.Msg(fmt.Sprintf(format, args...)), gnetSource)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.agent.Info(smartlog.Msg(fmt.Sprintf(format, args...)), gnetSource)
}

// Warnf logs at warning level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.agent.Warning(smartlog.Msg(fmt.Sprintf(format, args...)), gnetSource)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.agent.Error(smartlog.Msg(fmt.Sprintf(format, args...)), gnetSource)
}

// Fatalf logs at critical level, ends the agent stream and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.agent.Critical(smartlog.Msg(msg), gnetSource, smartlog.Fields{"fatal": true})

	// Let pipes drain what is already buffered
	a.agent.End()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

var gnetSource = smartlog.Fields{"source": "gnet"}
