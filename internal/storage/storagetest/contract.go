// Package storagetest holds the behavior every PreferenceStore backend must share.
package storagetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retakesallocator/loadout/internal/storage"
	"github.com/retakesallocator/loadout/pkg/core"
)

// Run exercises newStore against the PreferenceStore contract. newStore returns an
// initialized, empty store and registers its own cleanup.
func Run(t *testing.T, newStore func(t *testing.T) storage.PreferenceStore) {
	ctx := context.Background()

	t.Run("MissingPlayerHasNoSettings", func(t *testing.T) {
		s := newStore(t)
		got, err := s.GetUserSettings(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("WeaponPreferencePerKey", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetWeaponPreference(ctx, 7, core.TeamTerrorist, core.FullBuyPrimary, "weapon_ak47"))
		require.NoError(t, s.SetWeaponPreference(ctx, 7, core.TeamCounterTerrorist, core.FullBuyPrimary, "weapon_m4a1"))
		require.NoError(t, s.SetWeaponPreference(ctx, 7, core.TeamTerrorist, core.FullBuyPrimary, "weapon_galilar"))

		got, err := s.GetUserSettings(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, uint64(7), got.PlayerID)

		w, ok := got.WeaponPreference(core.TeamTerrorist, core.FullBuyPrimary)
		require.True(t, ok)
		assert.Equal(t, core.WeaponID("weapon_galilar"), w)
		w, ok = got.WeaponPreference(core.TeamCounterTerrorist, core.FullBuyPrimary)
		require.True(t, ok)
		assert.Equal(t, core.WeaponID("weapon_m4a1"), w)

		other, err := s.GetUserSettings(ctx, 8)
		require.NoError(t, err)
		assert.Nil(t, other)
	})

	t.Run("EmptyWeaponClears", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetWeaponPreference(ctx, 7, core.TeamTerrorist, core.Secondary, "weapon_p250"))
		require.NoError(t, s.SetWeaponPreference(ctx, 7, core.TeamTerrorist, core.Secondary, ""))

		got, err := s.GetUserSettings(ctx, 7)
		require.NoError(t, err)
		_, ok := got.WeaponPreference(core.TeamTerrorist, core.Secondary)
		assert.False(t, ok)
	})

	t.Run("SniperPreferenceBothTeams", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetSniperPreference(ctx, 3, core.SniperWeapon("weapon_awp")))

		got, err := s.GetUserSettings(ctx, 3)
		require.NoError(t, err)
		for _, team := range core.PlayingTeams {
			assert.Equal(t, core.SniperWeapon("weapon_awp"), got.PreferredSniper(team), team.String())
		}

		require.NoError(t, s.SetSniperPreference(ctx, 3, core.RandomSniper()))
		got, err = s.GetUserSettings(ctx, 3)
		require.NoError(t, err)
		assert.True(t, got.PreferredSniper(core.TeamTerrorist).IsRandom())

		require.NoError(t, s.SetSniperPreference(ctx, 3, core.NoSniper()))
		got, err = s.GetUserSettings(ctx, 3)
		require.NoError(t, err)
		for _, team := range core.PlayingTeams {
			assert.False(t, got.PreferredSniper(team).IsSet(), team.String())
		}
	})

	t.Run("FlagsKeepWeapons", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetWeaponPreference(ctx, 5, core.TeamTerrorist, core.PistolRound, "weapon_glock"))
		require.NoError(t, s.SetZeusPreference(ctx, 5, true))
		require.NoError(t, s.SetEnemyEquipmentPreference(ctx, 5, core.EnemyStuffFlagCounterTerrorist))

		got, err := s.GetUserSettings(ctx, 5)
		require.NoError(t, err)
		assert.True(t, got.ZeusEnabled)
		assert.Equal(t, core.EnemyStuffCounterTerroristOnly, got.EnemyStuffPreference())
		_, ok := got.WeaponPreference(core.TeamTerrorist, core.PistolRound)
		assert.True(t, ok)

		require.NoError(t, s.SetZeusPreference(ctx, 5, false))
		got, err = s.GetUserSettings(ctx, 5)
		require.NoError(t, err)
		assert.False(t, got.ZeusEnabled)
		assert.Equal(t, core.EnemyStuffCounterTerroristOnly, got.EnemyStuffPreference())
	})

	t.Run("ConcurrentWritersDistinctKeys", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(id uint64) {
				defer wg.Done()
				assert.NoError(t, s.SetWeaponPreference(ctx, id, core.TeamTerrorist, core.FullBuyPrimary, "weapon_ak47"))
				assert.NoError(t, s.SetZeusPreference(ctx, id, true))
			}(uint64(100 + i))
		}
		wg.Wait()

		for i := 0; i < 8; i++ {
			got, err := s.GetUserSettings(ctx, uint64(100+i))
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.ZeusEnabled)
		}
	})
}
