// FILE: lixenwraith/smartlog/heartbeat.go
package smartlog

import (
	"runtime"
	"time"
)

// Self-metric keys emitted on every heartbeat
const (
	MetricQueueLength = "smartlog.queue_length"
	MetricEmitted     = "smartlog.emitted"
	MetricDropped     = "smartlog.dropped"
	MetricGoroutines  = "smartlog.goroutines"
	MetricHeapAlloc   = "smartlog.heap_alloc"
)

// startHeartbeat launches the self-metric ticker
func (a *Agent) startHeartbeat(interval time.Duration) {
	a.heartbeatStop = make(chan struct{})
	a.heartbeatDone = make(chan struct{})

	go func() {
		defer close(a.heartbeatDone)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var lastEmitted, lastDropped uint64
		for {
			select {
			case <-a.heartbeatStop:
				return
			case <-ticker.C:
				lastEmitted, lastDropped = a.handleHeartbeat(lastEmitted, lastDropped)
			}
		}
	}()
}

// stopHeartbeat stops the ticker goroutine and waits for it to exit
func (a *Agent) stopHeartbeat() {
	if a.heartbeatStop == nil {
		return
	}
	a.stopOnce.Do(func() {
		close(a.heartbeatStop)
	})
	<-a.heartbeatDone
}

// handleHeartbeat emits one round of self-metrics and returns the new counter baselines.
// The baselines include the round's own records so the next delta counts producer records only.
func (a *Agent) handleHeartbeat(lastEmitted, lastDropped uint64) (uint64, uint64) {
	a.state.HeartbeatSequence.Add(1)
	stats := a.Stats()

	var own, ownDropped uint64
	metric := func(kind, key string, value float64, unit ...string) {
		if a.emit(newMetricRecord(a.now(), kind, key, value, unit)) {
			own++
		} else {
			ownDropped++
		}
	}

	metric(MetricHistogram, MetricQueueLength, float64(stats.Pending), "records")
	metric(MetricCounter, MetricEmitted, float64(stats.Emitted-lastEmitted), "records")
	if dropped := stats.Dropped - lastDropped; dropped > 0 {
		metric(MetricCounter, MetricDropped, float64(dropped), "records")
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	metric(MetricHistogram, MetricGoroutines, float64(runtime.NumGoroutine()))
	metric(MetricHistogram, MetricHeapAlloc, float64(memStats.Alloc), "bytes")

	return stats.Emitted + own, stats.Dropped + ownDropped
}
