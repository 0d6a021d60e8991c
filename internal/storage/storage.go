// Package storage defines the preference store the allocator persists through.
package storage

import (
	"context"

	"github.com/retakesallocator/loadout/pkg/core"
)

// PreferenceStore persists loadout preferences per player identity. Every Set
// call targets one key and is atomic for it; no call spans keys transactionally.
// Implementations are safe for concurrent use.
type PreferenceStore interface {
	// Lifecycle
	Init() error
	Close() error

	// GetUserSettings returns nil settings and no error when nothing is stored.
	GetUserSettings(ctx context.Context, playerID uint64) (*core.UserLoadoutSettings, error)

	// SetWeaponPreference stores one (team, category) choice. An empty weapon clears it.
	SetWeaponPreference(ctx context.Context, playerID uint64, team core.Team, category core.AllocationType, weapon core.WeaponID) error
	// SetSniperPreference stores the Preferred choice of both teams.
	SetSniperPreference(ctx context.Context, playerID uint64, pref core.SniperPreference) error
	SetZeusPreference(ctx context.Context, playerID uint64, enabled bool) error
	SetEnemyEquipmentPreference(ctx context.Context, playerID uint64, flags core.EnemyStuffFlags) error
}
