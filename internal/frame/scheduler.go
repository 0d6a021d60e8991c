// Package frame marshals work from background goroutines back onto the game thread.
package frame

import (
	"sync/atomic"

	"github.com/retakesallocator/loadout/internal/queue"
)

// Scheduler collects callbacks to run on the next game frame.
// NextFrame is safe from any goroutine; RunFrame must only be called by the game thread.
type Scheduler struct {
	pending *queue.Queue[func()]
	frame   atomic.Uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: queue.New[func()]()}
}

// NextFrame queues fn for the next RunFrame.
func (s *Scheduler) NextFrame(fn func()) {
	if fn == nil {
		return
	}
	s.pending.Push(fn)
}

// Len returns the number of queued callbacks.
func (s *Scheduler) Len() int {
	return s.pending.Len()
}

// Frame returns how many frames have run.
func (s *Scheduler) Frame() uint64 {
	return s.frame.Load()
}

// RunFrame runs everything queued before the call, in order, and returns how many ran.
// Callbacks queued while running wait for the following frame.
func (s *Scheduler) RunFrame() int {
	batch := s.pending.Drain()
	s.frame.Add(1)

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}
