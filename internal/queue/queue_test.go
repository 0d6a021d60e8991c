package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_DrainKeepsOrder(t *testing.T) {
	q := New[string]()
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())

	q.Push("a")
	q.Push("b", "c")
	assert.Equal(t, 3, q.Len())

	assert.Equal(t, []string{"a", "b", "c"}, q.Drain())
	assert.Zero(t, q.Len())
}

func TestQueue_BatchesAreIndependent(t *testing.T) {
	q := New[int]()
	q.Push(1, 2)
	first := q.Drain()

	q.Push(3)
	second := q.Drain()

	assert.Equal(t, []int{1, 2}, first, "later pushes must not reuse a drained batch")
	assert.Equal(t, []int{3}, second)
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				q.Push(n)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, q.Drain(), 200)
}
