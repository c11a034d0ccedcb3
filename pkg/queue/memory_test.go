package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue(t *testing.T) {
	t.Run("enqueue and drain in order", func(t *testing.T) {
		q := NewInMemoryQueue(4)
		require.NoError(t, q.Enqueue("a"))
		require.NoError(t, q.Enqueue("b"))
		assert.Equal(t, 2, q.Size())

		items, err := q.ReadAllMessages()
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"a", "b"}, items)
		assert.Equal(t, 0, q.Size())
	})

	t.Run("enqueue fails when full instead of blocking", func(t *testing.T) {
		q := NewInMemoryQueue(1)
		require.NoError(t, q.Enqueue("a"))
		assert.Error(t, q.Enqueue("b"))
		assert.Equal(t, 1, q.Size())
	})

	t.Run("drain of an empty queue returns nothing", func(t *testing.T) {
		q := NewInMemoryQueue(1)
		items, err := q.ReadAllMessages()
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("clear empties the queue", func(t *testing.T) {
		q := NewInMemoryQueue(4)
		require.NoError(t, q.Enqueue("a"))
		require.NoError(t, q.ClearQueue())
		assert.Equal(t, 0, q.Size())
	})
}
