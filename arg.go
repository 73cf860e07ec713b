// FILE: lixenwraith/smartlog/arg.go
package smartlog

// Arg is one argument of a logging call: a Msg, an Err, or Fields.
// Arguments apply in call order, later ones overwrite earlier keys.
type Arg interface {
	apply(fields map[string]any)
}

// Msg sets the msg field of a log record
type Msg string

func (m Msg) apply(fields map[string]any) {
	fields[KeyMessage] = string(m)
}

// Fields is shallow-merged into the record payload
type Fields map[string]any

func (f Fields) apply(fields map[string]any) {
	for k, v := range f {
		fields[k] = v
	}
}

type errArg struct {
	err error
}

func (e errArg) apply(fields map[string]any) {
	fields[KeyError] = e.err
}

// Err sets the error field of a log record; a nil error is ignored
func Err(err error) Arg {
	if err == nil {
		return nil
	}
	return errArg{err: err}
}
