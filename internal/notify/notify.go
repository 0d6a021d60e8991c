// Package notify delivers player-facing feedback on the game thread.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/retakesallocator/loadout/internal/players"
)

// Sink shows a message to a player. Messages may contain several lines separated by '\n'.
type Sink interface {
	Deliver(h players.Handle, message string)
}

// Validator reports whether a player handle is still live.
type Validator interface {
	Valid(h players.Handle) bool
}

// Scheduler runs callbacks on the next game frame.
type Scheduler interface {
	NextFrame(fn func())
}

// Notifier hops feedback onto the next frame and drops it when the player is gone.
type Notifier struct {
	frames  Scheduler
	players Validator
	sink    Sink
	log     *slog.Logger
}

// New creates a Notifier.
func New(frames Scheduler, players Validator, sink Sink, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{frames: frames, players: players, sink: sink, log: log}
}

// Notify queues message for h. Empty messages are ignored.
func (n *Notifier) Notify(h players.Handle, message string) {
	if message == "" {
		return
	}
	n.OnFrame(h, func() {
		n.sink.Deliver(h, message)
	})
}

// OnFrame runs fn on the next frame if h is still valid at that point.
func (n *Notifier) OnFrame(h players.Handle, fn func()) {
	n.frames.NextFrame(func() {
		if !n.players.Valid(h) {
			n.log.Debug("dropping feedback for stale player", "slot", h.Slot)
			return
		}
		fn()
	})
}

// Lines splits a message into its display lines.
func Lines(message string) []string {
	if message == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(message, "\n"), "\n")
}

// WriterSink prints messages line by line, prefixed with the player's slot.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Deliver implements Sink.
func (s *WriterSink) Deliver(h players.Handle, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range Lines(message) {
		fmt.Fprintf(s.w, "[%d] %s\n", h.Slot, line)
	}
}
