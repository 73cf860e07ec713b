// FILE: lixenwraith/smartlog/stream_test.go
package smartlog

import (
	"context"
	"io"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingPuller counts Pull calls
type countingPuller struct {
	calls atomic.Int32
}

func (p *countingPuller) Pull() { p.calls.Add(1) }

func TestStreamPush(t *testing.T) {
	s := NewStream(2)

	assert.True(t, s.Push(&Record{Level: "info"}))
	assert.False(t, s.Push(&Record{Level: "info"}), "reaching the mark reports saturation")
	assert.False(t, s.Push(&Record{Level: "info"}), "records above the mark are still taken")
	assert.Equal(t, 3, s.Len())

	assert.False(t, s.Push(nil))
	assert.True(t, s.Ended())
	assert.False(t, s.Push(&Record{Level: "info"}))
	assert.Equal(t, 3, s.Len(), "pushes after the end marker are ignored")
}

func TestStreamRead(t *testing.T) {
	t.Run("fifo then eof", func(t *testing.T) {
		s := NewStream(8)
		s.Push(&Record{Timestamp: 1})
		s.Push(&Record{Timestamp: 2})
		s.Push(nil)

		ctx := context.Background()
		rec, err := s.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.Timestamp)

		rec, err = s.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rec.Timestamp)

		_, err = s.Read(ctx)
		assert.ErrorIs(t, err, io.EOF)
		_, err = s.Read(ctx)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("blocks until push", func(t *testing.T) {
		s := NewStream(8)
		go func() {
			time.Sleep(20 * time.Millisecond)
			s.Push(&Record{Timestamp: 42})
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		rec, err := s.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(42), rec.Timestamp)
	})

	t.Run("context cancel", func(t *testing.T) {
		s := NewStream(8)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := s.Read(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("abort", func(t *testing.T) {
		s := NewStream(8)
		s.Push(&Record{Timestamp: 1})
		s.Abort()

		assert.Equal(t, 0, s.Len())
		_, err := s.Read(context.Background())
		assert.ErrorIs(t, err, ErrDestroyed)
		assert.False(t, s.Push(&Record{}))
	})

	t.Run("abort wakes waiting readers", func(t *testing.T) {
		s := NewStream(8)
		errs := make(chan error, 2)
		for i := 0; i < 2; i++ {
			go func() {
				_, err := s.Read(context.Background())
				errs <- err
			}()
		}
		time.Sleep(20 * time.Millisecond)
		s.Abort()

		for i := 0; i < 2; i++ {
			select {
			case err := <-errs:
				assert.ErrorIs(t, err, ErrDestroyed)
			case <-time.After(time.Second):
				t.Fatal("reader not woken by abort")
			}
		}
	})

	t.Run("pulls source below mark", func(t *testing.T) {
		s := NewStream(2)
		src := &countingPuller{}
		s.bind(src)

		s.Push(&Record{})
		s.Push(&Record{})
		_, err := s.Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(1), src.calls.Load())
	})
}

func TestNewStreamDefaultMark(t *testing.T) {
	s := NewStream(0)
	assert.Equal(t, 16, s.HighWaterMark())
}

func TestStreamSustainedLoadBoundedBuffer(t *testing.T) {
	agent, err := NewBuilder().LevelString("info").BufferSize(4).Build()
	require.NoError(t, err)
	defer agent.Destroy(nil)
	s := agent.Stream()

	// Producers stay ahead of the consumer: the buffer never drains to empty
	next := 0
	for ; next < 8; next++ {
		agent.Info(Msg(strconv.Itoa(next)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i := 0; i < 50000; i++ {
		agent.Info(Msg(strconv.Itoa(next)))
		next++

		rec, err := s.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, strconv.Itoa(i), rec.Message(), "records stay in FIFO order")
	}

	s.mu.Lock()
	length, capacity, head := len(s.buf), cap(s.buf), s.head
	s.mu.Unlock()

	assert.Equal(t, 4, s.Len())
	assert.LessOrEqual(t, length, 256, "consumed prefix is compacted")
	assert.LessOrEqual(t, capacity, 512)
	assert.Less(t, head, 128)
}
