// FILE: lixenwraith/smartlog/agent.go
package smartlog

import (
	"sync"
	"sync/atomic"
	"time"
)

// Agent builds log and metric records and delivers them to an Output without blocking
// producers. While the output is saturated, records wait in a FIFO delivery queue that
// drains when the consumer calls Pull.
type Agent struct {
	mu       sync.Mutex
	canPush  bool
	queue    *deliveryQueue // nil once destroyed
	ended    bool
	out      Output
	stream   *Stream // nil when a custom output is used
	defaults map[string]any

	level atomic.Int32
	state State
	now   func() time.Time

	heartbeatStop chan struct{}
	heartbeatDone chan struct{}
	stopOnce      sync.Once
}

// NewAgent creates an agent writing to its own Stream, nil cfg selects the defaults
func NewAgent(cfg *Config) (*Agent, error) {
	return newAgent(cfg, nil, nil)
}

// newAgent validates cfg and wires the agent to out, or to a new Stream when out is nil
func newAgent(cfg *Config, defaults map[string]any, out Output) (*Agent, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, CombineErrors(ErrInvalidConfig, err)
	}

	queue, err := newDeliveryQueue(cfg.QueueStrategy)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		canPush:  true,
		queue:    queue,
		defaults: make(map[string]any, len(defaults)),
		now:      time.Now,
	}
	for k, v := range defaults {
		a.defaults[k] = v
	}

	if out == nil {
		out = NewStream(int(cfg.BufferSize))
	}
	if s, ok := out.(*Stream); ok {
		s.bind(a)
		a.stream = s
	}
	a.out = out

	a.level.Store(int32(level))
	a.state.AgentStartTime.Store(time.Now())

	if cfg.HeartbeatIntervalMs > 0 {
		a.startHeartbeat(time.Duration(cfg.HeartbeatIntervalMs) * time.Millisecond)
	}

	return a, nil
}

// Level returns the current severity threshold
func (a *Agent) Level() Level {
	return Level(a.level.Load())
}

// SetLevel changes the threshold for subsequent log calls
func (a *Agent) SetLevel(level Level) error {
	if !level.Valid() {
		return fmtErrorf("%w: %s", ErrInvalidLevel, level)
	}
	a.level.Store(int32(level))
	return nil
}

// SetLevelString changes the threshold by name; an unknown name keeps the current threshold
func (a *Agent) SetLevelString(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	return a.SetLevel(level)
}

// Enabled reports whether a log call at level would be emitted
func (a *Agent) Enabled(level Level) bool {
	return level.Valid() && level.Enabled(a.Level())
}

// Log emits one record at the given severity if it passes the threshold
func (a *Agent) Log(level Level, args ...Arg) {
	if !a.Enabled(level) {
		a.state.TotalFiltered.Add(1)
		return
	}
	a.emit(newLogRecord(a.now(), level, a.defaults, args))
}

// Emergency logs at emergency severity
func (a *Agent) Emergency(args ...Arg) { a.Log(LevelEmergency, args...) }

// Alert logs at alert severity
func (a *Agent) Alert(args ...Arg) { a.Log(LevelAlert, args...) }

// Critical logs at critical severity
func (a *Agent) Critical(args ...Arg) { a.Log(LevelCritical, args...) }

// Error logs at error severity
func (a *Agent) Error(args ...Arg) { a.Log(LevelError, args...) }

// Warning logs at warning severity
func (a *Agent) Warning(args ...Arg) { a.Log(LevelWarning, args...) }

// Notice logs at notice severity
func (a *Agent) Notice(args ...Arg) { a.Log(LevelNotice, args...) }

// Info logs at info severity
func (a *Agent) Info(args ...Arg) { a.Log(LevelInfo, args...) }

// Debug logs at debug severity
func (a *Agent) Debug(args ...Arg) { a.Log(LevelDebug, args...) }

// Counter records a counter metric; metrics are never level gated
func (a *Agent) Counter(key string, value float64, unit ...string) {
	a.emit(newMetricRecord(a.now(), MetricCounter, key, value, unit))
}

// Inc records a counter metric with value 1
func (a *Agent) Inc(key string) {
	a.Counter(key, 1)
}

// Histogram records a histogram metric; metrics are never level gated
func (a *Agent) Histogram(key string, value float64, unit ...string) {
	a.emit(newMetricRecord(a.now(), MetricHistogram, key, value, unit))
}

// End emits the end-of-stream marker. Records emitted afterwards are dropped.
func (a *Agent) End() {
	a.mu.Lock()
	if a.queue != nil && !a.ended {
		a.ended = true
		a.state.Ended.Store(true)
		a.deliverLocked(nil)
	}
	a.mu.Unlock()

	a.stopHeartbeat()
}

// Pull signals that the consumer wants data: the agent may push again and
// drains queued records until the queue is empty or the output is saturated
func (a *Agent) Pull() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.queue == nil {
		return
	}

	a.canPush = true
	for a.canPush && a.queue.len() > 0 {
		rec, _ := a.queue.pop()
		a.canPush = a.out.Push(rec)
	}
}

// Destroy drops queued records, aborts the output and reports err, if any.
// Every later emission is a silent no-op.
func (a *Agent) Destroy(err error) {
	a.mu.Lock()
	if a.queue == nil {
		a.mu.Unlock()
		ReportError(err)
		return
	}
	a.queue = nil
	a.state.Destroyed.Store(true)
	out := a.out
	a.mu.Unlock()

	a.stopHeartbeat()

	if ab, ok := out.(Aborter); ok {
		ab.Abort()
	}
	ReportError(err)
}

// Len returns the number of entries waiting in the delivery queue
func (a *Agent) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.queue == nil {
		return 0
	}
	return a.queue.len()
}

// Stream returns the agent's default output, nil when built with a custom Output
func (a *Agent) Stream() *Stream {
	return a.stream
}

// Stats returns a snapshot of the agent counters
func (a *Agent) Stats() Stats {
	return a.state.snapshot(a.Len())
}

// Destroyed reports whether Destroy was called
func (a *Agent) Destroyed() bool {
	return a.state.Destroyed.Load()
}

// emit delivers a record unless the agent has ended or was destroyed, reporting whether it was taken
func (a *Agent) emit(rec *Record) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.queue == nil || a.ended {
		a.state.TotalDropped.Add(1)
		return false
	}
	a.state.TotalEmitted.Add(1)
	a.deliverLocked(rec)
	return true
}

// deliverLocked pushes rec while the output accepts data and queues it otherwise
func (a *Agent) deliverLocked(rec *Record) {
	if a.canPush {
		a.canPush = a.out.Push(rec)
		if rec != nil {
			a.state.TotalPushed.Add(1)
		}
		return
	}
	a.queue.push(rec)
	if rec != nil {
		a.state.TotalQueued.Add(1)
	}
}
