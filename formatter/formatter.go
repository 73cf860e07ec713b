// FILE: lixenwraith/smartlog/formatter/formatter.go
package formatter

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// Output formats
const (
	FormatJSON = "json"
	FormatTxt  = "txt"
)

// Reserved record keys, always written first
const (
	keyTimestamp = "ts"
	keyLevel     = "level"
	keyMessage   = "msg"
)

// dumper renders values the txt format has no native representation for
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Formatter serializes records into newline terminated lines.
// A Formatter reuses its buffer and is not safe for concurrent use.
type Formatter struct {
	format          string
	timestampFormat string
	location        *time.Location
	buf             []byte
}

// New creates a JSON formatter
func New() *Formatter {
	return &Formatter{
		format:          FormatJSON,
		timestampFormat: time.RFC3339Nano,
		location:        time.Local,
		buf:             make([]byte, 0, 512),
	}
}

// Type sets the output format ("json" or "txt"), unknown values keep JSON
func (f *Formatter) Type(format string) *Formatter {
	if format == FormatTxt {
		f.format = FormatTxt
	} else {
		f.format = FormatJSON
	}
	return f
}

// TimestampFormat sets the time layout used by the txt format
func (f *Formatter) TimestampFormat(layout string) *Formatter {
	if layout != "" {
		f.timestampFormat = layout
	}
	return f
}

// UTC renders txt timestamps in UTC instead of local time
func (f *Formatter) UTC(utc bool) *Formatter {
	if utc {
		f.location = time.UTC
	} else {
		f.location = time.Local
	}
	return f
}

// Format serializes one record using the configured format.
// The returned slice is only valid until the next call.
func (f *Formatter) Format(ts int64, level string, fields map[string]any) []byte {
	f.buf = f.buf[:0]
	if f.format == FormatTxt {
		f.buf = f.AppendTxt(f.buf, ts, level, fields)
	} else {
		f.buf = f.AppendJSON(f.buf, ts, level, fields)
	}
	return f.buf
}

// AppendJSON appends a single-line JSON object: ts, level, then sorted payload keys
func (f *Formatter) AppendJSON(dst []byte, ts int64, level string, fields map[string]any) []byte {
	dst = append(dst, `{"ts":`...)
	dst = strconv.AppendInt(dst, ts, 10)
	dst = append(dst, `,"level":`...)
	dst = appendJSONString(dst, level)

	for _, k := range sortedKeys(fields) {
		dst = append(dst, ',')
		dst = appendJSONString(dst, k)
		dst = append(dst, ':')
		dst = appendJSONValue(dst, fields[k])
	}

	return append(dst, '}', '\n')
}

// AppendTxt appends a human-readable line: time, LEVEL, message, then key=value pairs
func (f *Formatter) AppendTxt(dst []byte, ts int64, level string, fields map[string]any) []byte {
	dst = time.UnixMilli(ts).In(f.location).AppendFormat(dst, f.timestampFormat)
	dst = append(dst, ' ')
	dst = append(dst, strings.ToUpper(level)...)

	if msg, ok := fields[keyMessage].(string); ok {
		dst = append(dst, ' ')
		dst = appendTxtString(dst, msg)
	}

	for _, k := range sortedKeys(fields) {
		if k == keyMessage {
			continue
		}
		dst = append(dst, ' ')
		dst = append(dst, sanitizeTxt(k)...)
		dst = append(dst, '=')
		dst = f.appendTxtValue(dst, fields[k])
	}

	return append(dst, '\n')
}

// sortedKeys returns payload keys except the reserved ones, sorted
func sortedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == keyTimestamp || k == keyLevel {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// appendJSONValue provides unified type conversion for JSON output
func appendJSONValue(dst []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return appendJSONString(dst, val)
	case []byte:
		return appendJSONString(dst, string(val))
	case int:
		return strconv.AppendInt(dst, int64(val), 10)
	case int32:
		return strconv.AppendInt(dst, int64(val), 10)
	case int64:
		return strconv.AppendInt(dst, val, 10)
	case uint:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(dst, val, 10)
	case float32:
		return appendJSONFloat(dst, float64(val), 32)
	case float64:
		return appendJSONFloat(dst, val, 64)
	case bool:
		return strconv.AppendBool(dst, val)
	case nil:
		return append(dst, "null"...)
	case time.Time:
		return appendJSONString(dst, val.Format(time.RFC3339Nano))
	case time.Duration:
		return appendJSONString(dst, val.String())
	case error:
		return appendJSONString(dst, val.Error())
	case json.Marshaler:
		return appendMarshaled(dst, val)
	case fmt.Stringer:
		return appendJSONString(dst, val.String())
	default:
		return appendMarshaled(dst, val)
	}
}

// appendJSONFloat writes NaN and infinities as null, JSON has no encoding for them
func appendJSONFloat(dst []byte, v float64, bitSize int) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(dst, "null"...)
	}
	return strconv.AppendFloat(dst, v, 'f', -1, bitSize)
}

// appendMarshaled falls back to encoding/json for composite values
func appendMarshaled(dst []byte, v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		dst = append(dst, `{"_marshal_error":`...)
		dst = appendJSONString(dst, err.Error())
		return append(dst, '}')
	}
	return append(dst, data...)
}

// appendTxtValue converts a payload value for txt output
func (f *Formatter) appendTxtValue(dst []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return appendTxtString(dst, val)
	case []byte:
		return appendTxtString(dst, string(val))
	case int:
		return strconv.AppendInt(dst, int64(val), 10)
	case int64:
		return strconv.AppendInt(dst, val, 10)
	case uint64:
		return strconv.AppendUint(dst, val, 10)
	case float32:
		return strconv.AppendFloat(dst, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(dst, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(dst, val)
	case nil:
		return append(dst, "null"...)
	case time.Time:
		return val.In(f.location).AppendFormat(dst, f.timestampFormat)
	case error:
		return appendTxtString(dst, val.Error())
	case fmt.Stringer:
		return appendTxtString(dst, val.String())
	default:
		return appendTxtString(dst, dumper.Sprintf("%+v", val))
	}
}
