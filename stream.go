// FILE: lixenwraith/smartlog/stream.go
package smartlog

import (
	"context"
	"io"
	"sync"
)

// Output receives records from an Agent. A nil record is the end-of-stream marker.
// Push always takes the record; the result reports whether the output wants more.
// After a false result the agent queues records until Agent.Pull is called.
type Output interface {
	Push(rec *Record) bool
}

// Aborter is implemented by outputs that can be torn down by Agent.Destroy
type Aborter interface {
	Abort()
}

// puller is the producing side a Stream asks for more data
type puller interface {
	Pull()
}

// Stream is the default Output, a FIFO buffer read by one or more consumers.
// Reads call back into the agent's Pull while the buffer is below its high-water mark.
type Stream struct {
	mu        sync.Mutex
	buf       []*Record
	head      int
	hwm       int
	ended     bool
	destroyed bool
	ready     chan struct{}
	src       puller
}

// NewStream creates a stream with the given high-water mark
func NewStream(highWaterMark int) *Stream {
	if highWaterMark <= 0 {
		highWaterMark = int(defaultConfig.BufferSize)
	}
	return &Stream{
		buf:   make([]*Record, 0, highWaterMark),
		hwm:   highWaterMark,
		ready: make(chan struct{}, 1),
	}
}

// bind sets the source asked for data on read
func (s *Stream) bind(src puller) {
	s.mu.Lock()
	s.src = src
	s.mu.Unlock()
}

// Push buffers a record, or marks the end of the stream when rec is nil
func (s *Stream) Push(rec *Record) bool {
	s.mu.Lock()
	if s.destroyed || s.ended {
		s.mu.Unlock()
		return false
	}

	if rec == nil {
		s.ended = true
	} else {
		s.buf = append(s.buf, rec)
	}
	more := !s.ended && s.lenLocked() < s.hwm
	s.mu.Unlock()

	s.signal()
	return more
}

// Abort discards buffered records and fails pending and future reads with ErrDestroyed
func (s *Stream) Abort() {
	s.mu.Lock()
	s.destroyed = true
	clear(s.buf)
	s.buf = s.buf[:0]
	s.head = 0
	s.mu.Unlock()

	s.signal()
}

// Read returns the next record. It blocks until data is available, the stream
// ends (io.EOF), the agent is destroyed (ErrDestroyed), or ctx is done.
func (s *Stream) Read(ctx context.Context) (Record, error) {
	for {
		s.mu.Lock()
		if s.destroyed {
			s.mu.Unlock()
			s.signal() // pass the wakeup on to other readers
			return Record{}, ErrDestroyed
		}

		if rec, ok := s.popLocked(); ok {
			remaining := s.lenLocked()
			wantMore := !s.ended && remaining < s.hwm
			src := s.src
			s.mu.Unlock()

			if remaining > 0 {
				s.signal()
			}
			if wantMore && src != nil {
				src.Pull()
			}
			return *rec, nil
		}

		if s.ended {
			s.mu.Unlock()
			s.signal()
			return Record{}, io.EOF
		}
		src := s.src
		s.mu.Unlock()

		// Empty buffer, ask the source; Pull may refill synchronously
		if src != nil {
			src.Pull()
			if s.available() {
				continue
			}
		}

		select {
		case <-s.ready:
		case <-ctx.Done():
			return Record{}, ctx.Err()
		}
	}
}

// Len returns the number of buffered records
func (s *Stream) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lenLocked()
}

// HighWaterMark returns the buffer size above which Push reports saturation
func (s *Stream) HighWaterMark() int {
	return s.hwm
}

// Ended reports whether the end marker was received
func (s *Stream) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *Stream) available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lenLocked() > 0 || s.ended || s.destroyed
}

func (s *Stream) lenLocked() int {
	return len(s.buf) - s.head
}

func (s *Stream) popLocked() (*Record, bool) {
	if s.head >= len(s.buf) {
		return nil, false
	}
	rec := s.buf[s.head]
	s.buf[s.head] = nil
	s.head++

	// Compact once the consumed prefix dominates; under sustained load the buffer never empties
	if s.head == len(s.buf) {
		s.buf = s.buf[:0]
		s.head = 0
	} else if s.head >= max(s.hwm, 64) && s.head*2 > len(s.buf) {
		n := copy(s.buf, s.buf[s.head:])
		clear(s.buf[n:])
		s.buf = s.buf[:n]
		s.head = 0
	}
	return rec, true
}

// signal wakes one waiting reader without blocking
func (s *Stream) signal() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}
