// FILE: lixenwraith/smartlog/state.go
package smartlog

import (
	"sync/atomic"
	"time"
)

// State encapsulates the runtime counters of an agent
type State struct {
	Ended     atomic.Bool
	Destroyed atomic.Bool

	TotalEmitted  atomic.Uint64 // Records built, logs and metrics
	TotalPushed   atomic.Uint64 // Records handed straight to the output
	TotalQueued   atomic.Uint64 // Records parked in the delivery queue
	TotalDropped  atomic.Uint64 // Records discarded after End or Destroy
	TotalFiltered atomic.Uint64 // Log calls below the threshold

	// Heartbeat statistics
	HeartbeatSequence atomic.Uint64
	AgentStartTime    atomic.Value // stores time.Time for uptime calculation
}

// Stats is a point-in-time copy of the agent counters
type Stats struct {
	Emitted  uint64
	Pushed   uint64
	Queued   uint64
	Dropped  uint64
	Filtered uint64
	Pending  int
	Uptime   time.Duration
}

// snapshot copies the counters; pending is read by the caller under the agent lock
func (s *State) snapshot(pending int) Stats {
	var uptime time.Duration
	if start, ok := s.AgentStartTime.Load().(time.Time); ok && !start.IsZero() {
		uptime = time.Since(start)
	}
	return Stats{
		Emitted:  s.TotalEmitted.Load(),
		Pushed:   s.TotalPushed.Load(),
		Queued:   s.TotalQueued.Load(),
		Dropped:  s.TotalDropped.Load(),
		Filtered: s.TotalFiltered.Load(),
		Pending:  pending,
		Uptime:   uptime,
	}
}
