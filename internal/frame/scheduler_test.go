package frame

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsInOrder(t *testing.T) {
	s := NewScheduler()

	var got []int
	for i := 0; i < 3; i++ {
		s.NextFrame(func() { got = append(got, i) })
	}
	s.NextFrame(nil)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.RunFrame())
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(1), s.Frame())
}

func TestScheduler_QueuedDuringFrameRunsNext(t *testing.T) {
	s := NewScheduler()

	ran := 0
	s.NextFrame(func() {
		ran++
		s.NextFrame(func() { ran++ })
	})

	assert.Equal(t, 1, s.RunFrame())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, s.RunFrame())
	assert.Equal(t, 2, ran)
	assert.Equal(t, 0, s.RunFrame())
}

func TestScheduler_ConcurrentProducers(t *testing.T) {
	s := NewScheduler()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NextFrame(func() {})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.RunFrame())
}
