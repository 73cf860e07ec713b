// FILE: lixenwraith/smartlog/queue.go
package smartlog

// Queue strategies
const (
	// StrategyGrow keeps every pending record, the queue grows without bound
	StrategyGrow = "grow"
)

// deliveryQueue holds records the output could not take yet.
// A nil entry is the end-of-stream marker. Not safe for concurrent use, the agent mutex guards it.
type deliveryQueue struct {
	items []*Record
	head  int
}

// newDeliveryQueue creates a queue for the named strategy
func newDeliveryQueue(strategy string) (*deliveryQueue, error) {
	switch strategy {
	case StrategyGrow, "":
		return &deliveryQueue{items: make([]*Record, 0, 64)}, nil
	default:
		return nil, configErrorf("unknown queue strategy '%s' (use %s)", strategy, StrategyGrow)
	}
}

// push appends a record or the end marker
func (q *deliveryQueue) push(rec *Record) {
	q.items = append(q.items, rec)
}

// pop removes the oldest entry
func (q *deliveryQueue) pop() (*Record, bool) {
	if q.head >= len(q.items) {
		return nil, false
	}
	rec := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	// Compact once the consumed prefix dominates
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return rec, true
}

// len returns the number of pending entries, including a queued end marker
func (q *deliveryQueue) len() int {
	return len(q.items) - q.head
}
