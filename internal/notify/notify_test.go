package notify

import (
	"bytes"
	"testing"

	"github.com/retakesallocator/loadout/internal/frame"
	"github.com/retakesallocator/loadout/internal/players"
	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	got []string
}

func (s *recordingSink) Deliver(_ players.Handle, message string) {
	s.got = append(s.got, message)
}

func TestNotifier_DeliversOnNextFrame(t *testing.T) {
	frames := frame.NewScheduler()
	registry := players.NewRegistry()
	sink := &recordingSink{}
	n := New(frames, registry, sink, nil)

	h := registry.Connect(1, "76561197960287930", "p")
	n.Notify(h, "saved")
	n.Notify(h, "")

	assert.Empty(t, sink.got, "nothing before the frame runs")
	frames.RunFrame()
	assert.Equal(t, []string{"saved"}, sink.got)
}

func TestNotifier_DropsForDisconnectedPlayer(t *testing.T) {
	frames := frame.NewScheduler()
	registry := players.NewRegistry()
	sink := &recordingSink{}
	n := New(frames, registry, sink, nil)

	h := registry.Connect(1, "76561197960287930", "p")
	n.Notify(h, "saved")
	registry.Disconnect(1)
	registry.Connect(1, "76561197960287930", "p")

	frames.RunFrame()
	assert.Empty(t, sink.got)
}

func TestLines(t *testing.T) {
	assert.Nil(t, Lines(""))
	assert.Equal(t, []string{"a"}, Lines("a\n"))
	assert.Equal(t, []string{"a", "", "b"}, Lines("a\n\nb"))
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	NewWriterSink(&buf).Deliver(players.Handle{Slot: 4}, "first\nsecond")
	assert.Equal(t, "[4] first\n[4] second\n", buf.String())
}
