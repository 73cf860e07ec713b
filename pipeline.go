// FILE: lixenwraith/smartlog/pipeline.go
package smartlog

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Pipeline pumps records from an agent's Stream into a set of sinks
type Pipeline struct {
	stream *Stream
	sinks  []Sink
	done   chan struct{}
	err    error

	mu      sync.Mutex
	written uint64
	failed  uint64
}

// Pipe starts a goroutine that reads the agent's stream and writes every record to each
// sink in order. Write errors go to the error hook and never stop the pump.
// When the stream ends, the agent is destroyed, or ctx is done, all sinks are closed.
func Pipe(ctx context.Context, agent *Agent, sinks ...Sink) *Pipeline {
	p := &Pipeline{
		stream: agent.Stream(),
		sinks:  sinks,
		done:   make(chan struct{}),
	}
	go p.run(ctx)
	return p
}

// run is the pump loop
func (p *Pipeline) run(ctx context.Context) {
	defer close(p.done)

	if p.stream == nil {
		ReportError(fmtErrorf("pipeline requires an agent with a default stream"))
		p.err = p.closeSinks()
		return
	}

	for {
		rec, err := p.stream.Read(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, ErrDestroyed) &&
				!errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				ReportError(err)
			}
			break
		}
		p.write(rec)
	}

	p.err = p.closeSinks()
}

// write hands one record to every sink
func (p *Pipeline) write(rec Record) {
	var failed uint64
	for _, s := range p.sinks {
		if err := s.Write(rec); err != nil {
			failed++
			ReportError(err)
		}
	}

	p.mu.Lock()
	p.written++
	p.failed += failed
	p.mu.Unlock()
}

// closeSinks closes every sink and combines their errors
func (p *Pipeline) closeSinks() error {
	var err error
	for _, s := range p.sinks {
		err = CombineErrors(err, s.Close())
	}
	return err
}

// Wait blocks until the pump exits and returns the combined close errors
func (p *Pipeline) Wait() error {
	<-p.done
	return p.err
}

// Done is closed when the pump has exited and the sinks are closed
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}

// Counts returns the number of records pumped and the number of failed sink writes
func (p *Pipeline) Counts() (written, failed uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written, p.failed
}
