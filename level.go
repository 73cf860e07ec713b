// FILE: lixenwraith/smartlog/level.go
package smartlog

import (
	"strconv"
	"strings"
)

// Level is a syslog severity; lower values are more severe
type Level int

// Severity scale, most severe first
const (
	LevelEmergency Level = iota // system is unusable
	LevelAlert                  // action must be taken immediately
	LevelCritical               // critical conditions
	LevelError                  // error conditions
	LevelWarning                // warning conditions
	LevelNotice                 // normal but significant condition
	LevelInfo                   // informational
	LevelDebug                  // debug-level messages
)

// Metric record kinds, carried in Record.Level
const (
	MetricCounter   = "counter"
	MetricHistogram = "histogram"
)

var levelNames = [...]string{
	LevelEmergency: "emergency",
	LevelAlert:     "alert",
	LevelCritical:  "critical",
	LevelError:     "error",
	LevelWarning:   "warning",
	LevelNotice:    "notice",
	LevelInfo:      "info",
	LevelDebug:     "debug",
}

// String returns the lowercase severity name
func (l Level) String() string {
	if !l.Valid() {
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

// Rank returns the zero-based position of the level in the severity scale
func (l Level) Rank() int {
	return int(l)
}

// Valid reports whether l is one of the eight defined severities
func (l Level) Valid() bool {
	return l >= LevelEmergency && l <= LevelDebug
}

// Enabled reports whether a call at level l passes the given threshold
func (l Level) Enabled(threshold Level) bool {
	return l.Rank() <= threshold.Rank()
}

// Levels returns the severity scale, most severe first
func Levels() []Level {
	levels := make([]Level, 0, len(levelNames))
	for i := range levelNames {
		levels = append(levels, Level(i))
	}
	return levels
}

// ParseLevel converts a severity name to its Level
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "emergency", "emerg":
		return LevelEmergency, nil
	case "alert":
		return LevelAlert, nil
	case "critical", "crit":
		return LevelCritical, nil
	case "error", "err":
		return LevelError, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "notice":
		return LevelNotice, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return 0, fmtErrorf("%w: '%s' (use emergency, alert, critical, error, warning, notice, info, debug)",
			ErrInvalidLevel, name)
	}
}

// RankOf returns the severity rank of a record level name.
// Metric kinds and unknown names report ok == false.
func RankOf(name string) (rank int, ok bool) {
	for i, n := range levelNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// IsMetric reports whether a record level name is a metric kind
func IsMetric(name string) bool {
	return name == MetricCounter || name == MetricHistogram
}
