// FILE: lixenwraith/smartlog/errors.go
package smartlog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

var (
	// ErrInvalidLevel is returned for severity names outside the scale
	ErrInvalidLevel = errors.New("invalid level")
	// ErrInvalidConfig wraps every construction-time configuration failure
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrAlreadyInitialized is returned by Init when the default agent exists
	ErrAlreadyInitialized = errors.New("smartlog: default agent has already been initialized")
	// ErrDestroyed is returned by Stream.Read once the agent was destroyed
	ErrDestroyed = errors.New("smartlog: agent destroyed")
)

// ErrorHandler receives asynchronous failures that cannot be returned to a caller
type ErrorHandler func(err error)

var (
	errorHandlerMu sync.RWMutex
	errorHandler   ErrorHandler = stderrHandler
)

// stderrHandler is the default process-wide error hook
func stderrHandler(err error) {
	msg := err.Error()
	if !strings.HasPrefix(msg, "smartlog") {
		msg = "smartlog: " + msg
	}
	fmt.Fprintf(os.Stderr, "%s\n", msg)
}

// SetErrorHandler replaces the process-wide error hook, nil restores stderr reporting.
// Returns the previous handler.
func SetErrorHandler(h ErrorHandler) ErrorHandler {
	errorHandlerMu.Lock()
	defer errorHandlerMu.Unlock()

	prev := errorHandler
	if h == nil {
		h = stderrHandler
	}
	errorHandler = h
	return prev
}

// ReportError routes err to the process-wide error hook; nil is ignored.
// A panicking handler is recovered so reporting never fails the caller.
func ReportError(err error) {
	if err == nil {
		return
	}

	errorHandlerMu.RLock()
	h := errorHandler
	errorHandlerMu.RUnlock()

	defer func() {
		if r := recover(); r != nil {
			stderrHandler(fmt.Errorf("error handler panicked: %v (reporting: %w)", r, err))
		}
	}()
	h(err)
}

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "smartlog: ") {
		format = "smartlog: " + format
	}
	return fmt.Errorf(format, args...)
}

// configErrorf builds an error wrapping ErrInvalidConfig
func configErrorf(format string, args ...any) error {
	return fmtErrorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// CombineErrors joins two errors, either may be nil; both stay visible to errors.Is
func CombineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%w; %w", err1, err2)
}
