// FILE: lixenwraith/smartlog/compat/structured_gnet.go
package compat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lixenwraith/smartlog"
)

var (
	// keyValuePattern detects structured verbs like "key=%v" or "key: %d"
	keyValuePattern = regexp.MustCompile(`(\w+)\s*[:=]\s*%[vsdqxXeEfFgGtpbcU]`)
	verbPattern     = regexp.MustCompile(`%[-+# 0-9.]*[vsdqxXeEfFgGtpbcU]`)
)

// parseFormat extracts structured fields from printf-style format strings.
// Text around the key-value verbs becomes the msg field.
func parseFormat(format string, args []any) smartlog.Fields {
	matches := keyValuePattern.FindAllStringSubmatchIndex(format, -1)
	// Every verb must belong to a key, otherwise arguments cannot be paired
	verbs := len(verbPattern.FindAllStringIndex(strings.ReplaceAll(format, "%%", ""), -1))
	if len(matches) == 0 || len(matches) != verbs || verbs != len(args) {
		return smartlog.Fields{smartlog.KeyMessage: fmt.Sprintf(format, args...)}
	}

	fields := make(smartlog.Fields, len(matches)+1)
	var msg []string
	lastEnd := 0
	argIndex := 0

	for _, match := range matches {
		if prefix := strings.Trim(format[lastEnd:match[0]], ",; "); prefix != "" {
			msg = append(msg, strings.ReplaceAll(prefix, "%%", "%"))
		}

		key := format[match[2]:match[3]]
		fields[key] = args[argIndex]
		argIndex++
		lastEnd = match[1]
	}

	if remaining := strings.Trim(format[lastEnd:], ",; "); remaining != "" {
		msg = append(msg, strings.ReplaceAll(remaining, "%%", "%"))
	}

	if len(msg) > 0 {
		fields[smartlog.KeyMessage] = strings.Join(msg, " ")
	}
	return fields
}

// StructuredGnetAdapter provides enhanced structured logging for gnet
type StructuredGnetAdapter struct {
	*GnetAdapter
	extractFields bool
}

// NewStructuredGnetAdapter creates a gnet adapter with structured field extraction
func NewStructuredGnetAdapter(agent *smartlog.Agent, opts ...GnetOption) *StructuredGnetAdapter {
	return &StructuredGnetAdapter{
		GnetAdapter:   NewGnetAdapter(agent, opts...),
		extractFields: true,
	}
}

// Debugf logs with structured field extraction
func (a *StructuredGnetAdapter) Debugf(format string, args ...any) {
	a.logf(smartlog.LevelDebug, format, args)
}

// Infof logs with structured field extraction
func (a *StructuredGnetAdapter) Infof(format string, args ...any) {
	a.logf(smartlog.LevelInfo, format, args)
}

// Warnf logs with structured field extraction
func (a *StructuredGnetAdapter) Warnf(format string, args ...any) {
	a.logf(smartlog.LevelWarning, format, args)
}

// Errorf logs with structured field extraction
func (a *StructuredGnetAdapter) Errorf(format string, args ...any) {
	a.logf(smartlog.LevelError, format, args)
}

func (a *StructuredGnetAdapter) logf(level smartlog.Level, format string, args []any) {
	if !a.extractFields {
		a.agent.Log(level, smartlog.Msg(fmt.Sprintf(format, args...)), gnetSource)
		return
	}
	a.agent.Log(level, parseFormat(format, args), gnetSource)
}
