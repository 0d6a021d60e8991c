package loadout

import (
	"testing"

	"github.com/retakesallocator/loadout/internal/catalog"
	"github.com/retakesallocator/loadout/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legalT() catalog.LegalSet {
	return catalog.LegalSet{
		core.FullBuyPrimary: {"weapon_ak47", "weapon_galilar"},
		core.HalfBuyPrimary: {"weapon_mac10", "weapon_mp7"},
		core.Secondary:      {"weapon_glock", "weapon_deagle"},
		core.PistolRound:    {"weapon_glock"},
	}
}

func TestResolve_NoSettingsUsesFirstLegal(t *testing.T) {
	v := Resolve(nil, legalT(), core.TeamTerrorist, nil)

	w, ok := v.Current(core.FullBuyPrimary)
	require.True(t, ok)
	assert.Equal(t, core.WeaponID("weapon_ak47"), w)

	w, _ = v.Current(core.HalfBuyPrimary)
	assert.Equal(t, core.WeaponID("weapon_mac10"), w)
	assert.False(t, v.PreferredSniper.IsSet())
	assert.False(t, v.ZeusEnabled)
	assert.Equal(t, core.EnemyStuffNone, v.EnemyStuff)
}

func TestResolve_StoredLegalPreferenceWins(t *testing.T) {
	s := core.NewUserLoadoutSettings(9)
	s.SetWeaponPreference(core.TeamTerrorist, core.FullBuyPrimary, "weapon_galilar")
	s.ZeusEnabled = true
	s.EnemyStuff = core.EnemyStuffFlagTerrorist | core.EnemyStuffFlagCounterTerrorist

	v := Resolve(s, legalT(), core.TeamTerrorist, Defaults{
		core.TeamTerrorist: {core.FullBuyPrimary: "weapon_ak47"},
	})

	w, _ := v.Current(core.FullBuyPrimary)
	assert.Equal(t, core.WeaponID("weapon_galilar"), w)
	assert.Equal(t, uint64(9), v.PlayerID)
	assert.True(t, v.ZeusEnabled)
	assert.Equal(t, core.EnemyStuffBoth, v.EnemyStuff)
}

func TestResolve_IllegalStoredEqualsAbsent(t *testing.T) {
	defaultsCases := []Defaults{
		nil,
		{core.TeamTerrorist: {core.Secondary: "weapon_deagle"}},
		{core.TeamTerrorist: {core.Secondary: "weapon_usp_silencer"}},
	}

	for _, defaults := range defaultsCases {
		stale := core.NewUserLoadoutSettings(1)
		stale.SetWeaponPreference(core.TeamTerrorist, core.Secondary, "weapon_usp_silencer_old")
		stale.SetWeaponPreference(core.TeamTerrorist, core.FullBuyPrimary, "weapon_m4a1")
		empty := core.NewUserLoadoutSettings(1)

		coerced := Resolve(stale, legalT(), core.TeamTerrorist, defaults)
		absent := Resolve(empty, legalT(), core.TeamTerrorist, defaults)

		for _, category := range core.MenuCategories {
			a, aok := coerced.Current(category)
			b, bok := absent.Current(category)
			assert.Equal(t, bok, aok, category.String())
			assert.Equal(t, b, a, category.String())
		}
	}
}

func TestResolve_DefaultIsNotLegalityChecked(t *testing.T) {
	v := Resolve(nil, legalT(), core.TeamTerrorist, Defaults{
		core.TeamTerrorist: {core.PistolRound: "weapon_usp_silencer"},
	})

	w, ok := v.Current(core.PistolRound)
	require.True(t, ok)
	assert.Equal(t, core.WeaponID("weapon_usp_silencer"), w)
}

func TestResolve_DefaultsArePerTeam(t *testing.T) {
	v := Resolve(nil, legalT(), core.TeamTerrorist, Defaults{
		core.TeamCounterTerrorist: {core.FullBuyPrimary: "weapon_m4a1"},
	})

	w, _ := v.Current(core.FullBuyPrimary)
	assert.Equal(t, core.WeaponID("weapon_ak47"), w)
}

func TestResolve_EmptyCategoryIsAbsent(t *testing.T) {
	legal := legalT()
	legal[core.HalfBuyPrimary] = nil

	v := Resolve(nil, legal, core.TeamTerrorist, nil)
	_, ok := v.Current(core.HalfBuyPrimary)
	assert.False(t, ok)
	assert.Empty(t, v.Choices(core.HalfBuyPrimary))
}

func TestResolve_SniperIsNotFiltered(t *testing.T) {
	s := core.NewUserLoadoutSettings(1)
	s.SetWeaponPreference(core.TeamCounterTerrorist, core.Preferred, "weapon_not_in_catalog")
	v := Resolve(s, legalT(), core.TeamCounterTerrorist, nil)

	w, ok := v.PreferredSniper.Weapon()
	require.True(t, ok)
	assert.Equal(t, core.WeaponID("weapon_not_in_catalog"), w)

	s.SetWeaponPreference(core.TeamTerrorist, core.Preferred, core.RandomSniperWeapon)
	assert.True(t, Resolve(s, legalT(), core.TeamTerrorist, nil).PreferredSniper.IsRandom())
}

func TestView_SetCurrent(t *testing.T) {
	v := &View{}
	v.SetCurrent(core.Secondary, "weapon_p250")

	w, ok := v.Current(core.Secondary)
	require.True(t, ok)
	assert.Equal(t, core.WeaponID("weapon_p250"), w)
}
