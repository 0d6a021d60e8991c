// Package memory keeps preferences in process memory. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/retakesallocator/loadout/pkg/core"
)

// Store implements storage.PreferenceStore with a mutex-guarded map.
type Store struct {
	mu       sync.RWMutex
	settings map[uint64]*core.UserLoadoutSettings
}

// New creates an empty store.
func New() *Store {
	return &Store{settings: make(map[uint64]*core.UserLoadoutSettings)}
}

// Init initializes the backend
func (s *Store) Init() error {
	return nil
}

// Close cleans up resources
func (s *Store) Close() error {
	return nil
}

// GetUserSettings returns a copy of the stored settings.
func (s *Store) GetUserSettings(_ context.Context, playerID uint64) (*core.UserLoadoutSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings[playerID].Clone(), nil
}

// SetWeaponPreference stores one key.
func (s *Store) SetWeaponPreference(_ context.Context, playerID uint64, team core.Team, category core.AllocationType, weapon core.WeaponID) error {
	s.update(playerID, func(u *core.UserLoadoutSettings) {
		u.SetWeaponPreference(team, category, weapon)
	})
	return nil
}

// SetSniperPreference stores the Preferred key of both teams.
func (s *Store) SetSniperPreference(_ context.Context, playerID uint64, pref core.SniperPreference) error {
	s.update(playerID, func(u *core.UserLoadoutSettings) {
		for _, team := range core.PlayingTeams {
			u.SetWeaponPreference(team, core.Preferred, pref.Encode())
		}
	})
	return nil
}

// SetZeusPreference stores the zeus flag.
func (s *Store) SetZeusPreference(_ context.Context, playerID uint64, enabled bool) error {
	s.update(playerID, func(u *core.UserLoadoutSettings) {
		u.ZeusEnabled = enabled
	})
	return nil
}

// SetEnemyEquipmentPreference stores the raw enemy equipment flags.
func (s *Store) SetEnemyEquipmentPreference(_ context.Context, playerID uint64, flags core.EnemyStuffFlags) error {
	s.update(playerID, func(u *core.UserLoadoutSettings) {
		u.EnemyStuff = flags
	})
	return nil
}

// Len returns the number of players with stored settings.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.settings)
}

func (s *Store) update(playerID uint64, fn func(*core.UserLoadoutSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.settings[playerID]
	if !ok {
		u = core.NewUserLoadoutSettings(playerID)
		s.settings[playerID] = u
	}
	fn(u)
}
