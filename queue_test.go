// FILE: lixenwraith/smartlog/queue_test.go
package smartlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryQueue(t *testing.T) {
	q, err := newDeliveryQueue(StrategyGrow)
	require.NoError(t, err)

	_, ok := q.pop()
	assert.False(t, ok)

	const n = 5000
	for i := 0; i < n; i++ {
		q.push(&Record{Timestamp: int64(i)})
	}
	q.push(nil)
	assert.Equal(t, n+1, q.len())

	for i := 0; i < n; i++ {
		rec, ok := q.pop()
		require.True(t, ok)
		require.Equal(t, int64(i), rec.Timestamp)

		if i == n/2 {
			assert.Equal(t, n-i, q.len())
		}
	}

	marker, ok := q.pop()
	assert.True(t, ok)
	assert.Nil(t, marker)
	assert.Equal(t, 0, q.len())
}

func TestDeliveryQueueInterleaved(t *testing.T) {
	q, err := newDeliveryQueue("")
	require.NoError(t, err)

	next := int64(0)
	expect := int64(0)
	for round := 0; round < 100; round++ {
		for i := 0; i < 30; i++ {
			q.push(&Record{Timestamp: next})
			next++
		}
		for i := 0; i < 20; i++ {
			rec, ok := q.pop()
			require.True(t, ok)
			require.Equal(t, expect, rec.Timestamp)
			expect++
		}
	}
	assert.Equal(t, int(next-expect), q.len())
}

func TestDeliveryQueueUnknownStrategy(t *testing.T) {
	q, err := newDeliveryQueue("drop-oldest")
	assert.Nil(t, q)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
