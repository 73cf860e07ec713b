// FILE: lixenwraith/smartlog/errors_test.go
package smartlog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetErrorHandler(t *testing.T) {
	var got []error
	prev := SetErrorHandler(func(err error) { got = append(got, err) })
	defer SetErrorHandler(prev)

	ReportError(nil)
	assert.Empty(t, got)

	sent := errors.New("sink failed")
	ReportError(sent)
	assert.Equal(t, []error{sent}, got)

	// nil restores the default handler and returns the custom one
	custom := SetErrorHandler(nil)
	assert.NotNil(t, custom)
	custom(errors.New("direct"))
	assert.Len(t, got, 2)
}

func TestReportErrorRecoversPanic(t *testing.T) {
	prev := SetErrorHandler(func(err error) { panic("handler bug") })
	defer SetErrorHandler(prev)

	assert.NotPanics(t, func() {
		ReportError(errors.New("anything"))
	})
}

func TestCombineErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")

	assert.Nil(t, CombineErrors(nil, nil))
	assert.Equal(t, e1, CombineErrors(e1, nil))
	assert.Equal(t, e2, CombineErrors(nil, e2))

	combined := CombineErrors(e1, e2)
	assert.EqualError(t, combined, "first; second")
	assert.ErrorIs(t, combined, e1)
	assert.ErrorIs(t, combined, e2)
}

func TestErrorPrefix(t *testing.T) {
	err := fmtErrorf("thing %d failed", 3)
	assert.EqualError(t, err, "smartlog: thing 3 failed")

	err = configErrorf("bad %s", "value")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.EqualError(t, err, "smartlog: invalid configuration: bad value")
}
