// FILE: lixenwraith/smartlog/sink.go
package smartlog

// Sink consumes records from a Pipeline.
// Write applies the sink's filter exactly once; rejected records have no side effect.
type Sink interface {
	Filter(rec Record) bool
	Write(rec Record) error
	Close() error
}

// FilterFunc decides whether a sink accepts a record
type FilterFunc func(rec Record) bool

// AcceptAll is the default sink filter
func AcceptAll(Record) bool { return true }

// LevelFilter passes log records at or above the threshold severity and all metrics.
// Records with an unknown level are rejected.
func LevelFilter(threshold Level) FilterFunc {
	return func(rec Record) bool {
		if rec.IsMetric() {
			return true
		}
		rank, ok := RankOf(rec.Level)
		return ok && rank <= threshold.Rank()
	}
}

// LevelFilterString is LevelFilter for a severity name; an empty name accepts everything
func LevelFilterString(name string) (FilterFunc, error) {
	if name == "" {
		return AcceptAll, nil
	}
	level, err := ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return LevelFilter(level), nil
}
