package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retakesallocator/loadout/internal/storage"
	"github.com/retakesallocator/loadout/internal/storage/memory"
	"github.com/retakesallocator/loadout/internal/storage/storagetest"
	"github.com/retakesallocator/loadout/pkg/core"
)

// Verify Store implements storage.PreferenceStore interface
var _ storage.PreferenceStore = (*memory.Store)(nil)

func TestContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.PreferenceStore {
		s := memory.New()
		require.NoError(t, s.Init())
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestGetUserSettings_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.SetWeaponPreference(ctx, 1, core.TeamTerrorist, core.FullBuyPrimary, "weapon_ak47"))

	got, err := s.GetUserSettings(ctx, 1)
	require.NoError(t, err)
	got.SetWeaponPreference(core.TeamTerrorist, core.FullBuyPrimary, "weapon_sg556")
	got.ZeusEnabled = true

	again, err := s.GetUserSettings(ctx, 1)
	require.NoError(t, err)
	w, _ := again.WeaponPreference(core.TeamTerrorist, core.FullBuyPrimary)
	assert.Equal(t, core.WeaponID("weapon_ak47"), w)
	assert.False(t, again.ZeusEnabled)
	assert.Equal(t, 1, s.Len())
}
