package players

import (
	"sync"
	"testing"

	"github.com/retakesallocator/loadout/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gabenID = "76561197960287930"

func TestParseIdentity(t *testing.T) {
	assert.Equal(t, uint64(76561197960287930), ParseIdentity(gabenID))
	assert.Equal(t, uint64(0), ParseIdentity("BOT"))
	assert.Equal(t, uint64(0), ParseIdentity(""))
}

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry()

	h := r.Connect(3, gabenID, "gaben")
	assert.Equal(t, 3, h.Slot)
	assert.Equal(t, uint64(76561197960287930), h.SteamID)
	assert.True(t, r.Valid(h))
	assert.Equal(t, 1, r.Count())

	p, ok := r.Get(3)
	require.True(t, ok)
	assert.Equal(t, core.TeamNone, p.Team)
	assert.True(t, p.HasIdentity())

	require.NoError(t, r.SetTeam(3, core.TeamTerrorist))
	p, _ = r.Get(3)
	assert.Equal(t, core.TeamTerrorist, p.Team)

	old, ok := r.Disconnect(3)
	require.True(t, ok)
	assert.Equal(t, h, old)
	assert.False(t, r.Valid(h))

	_, ok = r.Disconnect(3)
	assert.False(t, ok)
	assert.ErrorIs(t, r.SetTeam(3, core.TeamCounterTerrorist), ErrNoSuchPlayer)
}

func TestRegistry_ReusedSlotInvalidatesOldHandle(t *testing.T) {
	r := NewRegistry()

	first := r.Connect(1, gabenID, "first")
	second := r.Connect(1, "BOT", "second")

	assert.False(t, r.Valid(first))
	assert.True(t, r.Valid(second))

	p, _ := r.Get(1)
	assert.False(t, p.HasIdentity())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := r.Connect(i, gabenID, "p")
			_ = r.SetTeam(i, core.TeamCounterTerrorist)
			r.Valid(h)
		}()
	}
	wg.Wait()

	assert.Equal(t, 32, r.Count())
}
