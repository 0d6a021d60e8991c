// Package players tracks connected players and the liveness of their handles.
package players

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/leighmacdonald/steamid/v4/steamid"
	"github.com/retakesallocator/loadout/pkg/core"
)

// ErrNoSuchPlayer is returned for an empty slot.
var ErrNoSuchPlayer = errors.New("no player in slot")

// Handle identifies one connection of a player. A handle becomes invalid once the
// slot disconnects or is taken by another connection.
type Handle struct {
	Slot    int
	Conn    uuid.UUID
	SteamID uint64
}

// Player is a snapshot of a connected player.
type Player struct {
	Handle
	Name string
	Team core.Team
}

// HasIdentity reports whether the player has a usable steam identity.
func (p Player) HasIdentity() bool {
	return p.SteamID != 0
}

// Registry is the set of connected players keyed by slot.
type Registry struct {
	mu     sync.RWMutex
	bySlot map[int]*Player
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{bySlot: make(map[int]*Player)}
}

// ParseIdentity converts any steam id format to the 64-bit identity. Bots and
// malformed ids yield 0.
func ParseIdentity(raw string) uint64 {
	sid := steamid.New(raw)
	if !sid.Valid() {
		return 0
	}
	return uint64(sid.Int64())
}

// Connect registers a new connection in slot, replacing whatever was there.
func (r *Registry) Connect(slot int, rawSteamID, name string) Handle {
	p := &Player{
		Handle: Handle{
			Slot:    slot,
			Conn:    uuid.New(),
			SteamID: ParseIdentity(rawSteamID),
		},
		Name: name,
		Team: core.TeamNone,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySlot[slot] = p
	return p.Handle
}

// Disconnect removes the slot and returns the handle it held.
func (r *Registry) Disconnect(slot int) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.bySlot[slot]
	if !ok {
		return Handle{}, false
	}
	delete(r.bySlot, slot)
	return p.Handle, true
}

// SetTeam records a team change.
func (r *Registry) SetTeam(slot int, team core.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.bySlot[slot]
	if !ok {
		return fmt.Errorf("slot %d: %w", slot, ErrNoSuchPlayer)
	}
	p.Team = team
	return nil
}

// Get returns a snapshot of the player in slot.
func (r *Registry) Get(slot int) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.bySlot[slot]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Valid reports whether the connection behind h is still live.
func (r *Registry) Valid(h Handle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.bySlot[h.Slot]
	return ok && p.Conn == h.Conn
}

// Count returns the number of connected players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySlot)
}
