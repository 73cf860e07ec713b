// FILE: lixenwraith/smartlog/record.go
package smartlog

import (
	"time"

	"github.com/lixenwraith/smartlog/formatter"
)

// Payload keys set by the agent
const (
	KeyTimestamp = "ts"
	KeyLevel     = "level"
	KeyMessage   = "msg"
	KeyError     = "error"
	KeyMetric    = "key"
	KeyValue     = "value"
	KeyUnit      = "unit"
)

// Record is one structured unit of log or metric data.
// Records are built by the Agent only; consumers must treat Fields as read-only.
type Record struct {
	Timestamp int64          // milliseconds since epoch
	Level     string         // severity name or metric kind
	Fields    map[string]any // payload, never contains ts or level
}

// Time returns the record timestamp as time.Time
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Message returns the msg field, if any
func (r Record) Message() string {
	s, _ := r.Fields[KeyMessage].(string)
	return s
}

// Err returns the error field, if any
func (r Record) Err() error {
	err, _ := r.Fields[KeyError].(error)
	return err
}

// Get returns a payload value
func (r Record) Get(key string) (any, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// IsMetric reports whether the record carries a counter or histogram
func (r Record) IsMetric() bool {
	return IsMetric(r.Level)
}

// MarshalJSON encodes the record as a flat JSON object with ts and level first
func (r Record) MarshalJSON() ([]byte, error) {
	line := formatter.New().AppendJSON(nil, r.Timestamp, r.Level, r.Fields)
	// Drop the line terminator, json.Marshal callers expect a bare value
	return line[:len(line)-1], nil
}

// newLogRecord merges defaults and call arguments into a record
func newLogRecord(now time.Time, level Level, defaults map[string]any, args []Arg) *Record {
	fields := make(map[string]any, len(defaults)+len(args))
	for k, v := range defaults {
		fields[k] = v
	}
	for _, arg := range args {
		if arg != nil {
			arg.apply(fields)
		}
	}

	rec := &Record{
		Timestamp: now.UnixMilli(),
		Level:     level.String(),
		Fields:    fields,
	}

	// Caller supplied timestamp takes precedence, level is fixed by the call
	if ts, ok := fields[KeyTimestamp]; ok {
		if ms, ok := toMillis(ts); ok {
			rec.Timestamp = ms
		}
		delete(fields, KeyTimestamp)
	}
	delete(fields, KeyLevel)

	return rec
}

// newMetricRecord builds a counter or histogram record
func newMetricRecord(now time.Time, kind, key string, value float64, unit []string) *Record {
	fields := map[string]any{
		KeyMetric: key,
		KeyValue:  value,
	}
	if len(unit) > 0 && unit[0] != "" {
		fields[KeyUnit] = unit[0]
	}
	return &Record{
		Timestamp: now.UnixMilli(),
		Level:     kind,
		Fields:    fields,
	}
}

// toMillis converts supported timestamp representations to epoch milliseconds
func toMillis(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	case time.Time:
		return t.UnixMilli(), true
	default:
		return 0, false
	}
}
