package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
)

func TestMemQueueEnqueueDequeueOrder(t *testing.T) {
	q := NewMemQueue(4)

	r1 := &domain.Reading{EntityID: "r1", Seq: 1}
	r2 := &domain.Reading{EntityID: "r2", Seq: 1}

	require.True(t, q.Enqueue(r1))
	require.True(t, q.Enqueue(r2))

	batch := q.DequeueBatch(1)
	require.Len(t, batch, 1)
	assert.Equal(t, domain.EntityID("r1"), batch[0].EntityID)

	remaining := q.DequeueBatch(10)
	require.Len(t, remaining, 1)
	assert.Equal(t, domain.EntityID("r2"), remaining[0].EntityID)

	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.DequeueBatch(5))
}

func TestMemQueueCapacity(t *testing.T) {
	q := NewMemQueue(2)

	reading := &domain.Reading{EntityID: "cap"}

	require.True(t, q.Enqueue(reading))
	require.True(t, q.Enqueue(reading))
	assert.False(t, q.Enqueue(reading), "enqueue should fail when capacity exceeded")

	q.DequeueBatch(1)
	assert.True(t, q.Enqueue(reading), "expected enqueue to succeed after dequeue")
}

func TestMemQueueIgnoresNil(t *testing.T) {
	q := NewMemQueue(1)
	assert.True(t, q.Enqueue(nil), "nil reading should be accepted and discarded")
	assert.Equal(t, 0, q.Len(), "nil reading must not occupy capacity")
}
