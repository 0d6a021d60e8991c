package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retakesallocator/loadout/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestDefault_Loads(t *testing.T) {
	c := mustDefault(t)
	assert.Greater(t, c.Len(), 30)

	w, ok := c.Weapon("weapon_ak47")
	require.True(t, ok)
	assert.Equal(t, "AK-47", w.Name)
	assert.True(t, w.UsableBy(core.TeamTerrorist))
	assert.False(t, w.UsableBy(core.TeamCounterTerrorist))
}

func TestLoad_UsableWhitelist(t *testing.T) {
	c, err := Load("", []core.WeaponID{"weapon_galilar", "weapon_ak47"})
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	// catalog order, not whitelist order
	assert.Equal(t, []core.WeaponID{"weapon_ak47", "weapon_galilar"},
		c.LegalSet(core.TeamTerrorist, false)[core.FullBuyPrimary])
}

func TestLoad_UnknownUsableWeapon(t *testing.T) {
	_, err := Load("", []core.WeaponID{"weapon_raygun"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownWeapon)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weapons.yaml")
	data := `weapons:
  - id: weapon_glock
    name: Glock
    class: pistol
    teams: [T]
    pistolRound: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []core.WeaponID{"weapon_glock"}, c.LegalSet(core.TeamTerrorist, false)[core.PistolRound])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", `weapons: []`},
		{"missing id", "weapons:\n  - name: X\n    class: rifle\n    teams: [T]\n"},
		{"bad class", "weapons:\n  - id: a\n    class: laser\n    teams: [T]\n"},
		{"bad team", "weapons:\n  - id: a\n    class: rifle\n    teams: [blue]\n"},
		{"no team", "weapons:\n  - id: a\n    class: rifle\n"},
		{"duplicate", "weapons:\n  - id: a\n    class: rifle\n    teams: [T]\n  - id: a\n    class: rifle\n    teams: [T]\n"},
		{"not yaml", "weapons: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), nil)
			assert.Error(t, err)
		})
	}
}

func TestLegalWeapons_PerTeamOnlyStrictCategory(t *testing.T) {
	c := mustDefault(t)

	for _, round := range core.RoundTypes {
		for _, team := range core.PlayingTeams {
			for category, ids := range c.LegalWeapons(round, team, false) {
				for _, id := range ids {
					derived, ok := c.CategoryFor(round, team, id, false)
					require.True(t, ok, "%s %s %s", round, team, id)
					assert.Equal(t, category, derived, "%s %s %s", round, team, id)
				}
			}
		}
	}
}

func TestLegalWeapons_StrictPassDropsLooseCandidates(t *testing.T) {
	c := mustDefault(t)

	loose := c.Candidates(core.PistolRound, core.TeamTerrorist)
	assert.Contains(t, loose, core.WeaponID("weapon_deagle"))

	strict := c.LegalWeapons(core.RoundPistol, core.TeamTerrorist, false)[core.PistolRound]
	assert.NotContains(t, strict, core.WeaponID("weapon_deagle"))
	assert.NotContains(t, strict, core.WeaponID("weapon_revolver"))
	assert.Contains(t, strict, core.WeaponID("weapon_glock"))
	assert.NotContains(t, strict, core.WeaponID("weapon_usp_silencer"))
}

func TestLegalWeapons_SharedPoolIsUnion(t *testing.T) {
	c := mustDefault(t)

	for _, round := range core.RoundTypes {
		tSet := c.LegalWeapons(round, core.TeamTerrorist, false)
		ctSet := c.LegalWeapons(round, core.TeamCounterTerrorist, false)

		for _, team := range core.PlayingTeams {
			shared := c.LegalWeapons(round, team, true)
			for _, category := range RoundCategories(round) {
				want := map[core.WeaponID]bool{}
				for _, id := range tSet[category] {
					want[id] = true
				}
				for _, id := range ctSet[category] {
					want[id] = true
				}

				got := shared[category]
				seen := map[core.WeaponID]bool{}
				for _, id := range got {
					assert.False(t, seen[id], "duplicate %s", id)
					seen[id] = true
				}
				assert.Equal(t, want, seen, "%s %s", round, category)
			}
		}
	}
}

func TestLegalSet_HomeRounds(t *testing.T) {
	c := mustDefault(t)
	set := c.LegalSet(core.TeamCounterTerrorist, false)

	assert.Contains(t, set[core.FullBuyPrimary], core.WeaponID("weapon_m4a1"))
	assert.NotContains(t, set[core.FullBuyPrimary], core.WeaponID("weapon_ak47"))
	assert.Contains(t, set[core.HalfBuyPrimary], core.WeaponID("weapon_mp9"))
	assert.Contains(t, set[core.Secondary], core.WeaponID("weapon_deagle"))
	assert.Contains(t, set[core.PistolRound], core.WeaponID("weapon_usp_silencer"))
	assert.True(t, set.Contains(core.Secondary, "weapon_fiveseven"))
	assert.False(t, set.Contains(core.Secondary, "weapon_tec9"))
}

func TestCategoryFor(t *testing.T) {
	c := mustDefault(t)

	tests := []struct {
		name   string
		round  core.RoundType
		team   core.Team
		id     core.WeaponID
		shared bool
		want   core.AllocationType
		ok     bool
	}{
		{"rifle full buy", core.RoundFullBuy, core.TeamTerrorist, "weapon_ak47", false, core.FullBuyPrimary, true},
		{"rifle wrong team", core.RoundFullBuy, core.TeamCounterTerrorist, "weapon_ak47", false, 0, false},
		{"rifle wrong team shared", core.RoundFullBuy, core.TeamCounterTerrorist, "weapon_galilar", true, core.FullBuyPrimary, true},
		{"rifle half buy", core.RoundHalfBuy, core.TeamTerrorist, "weapon_ak47", false, 0, false},
		{"smg half buy", core.RoundHalfBuy, core.TeamTerrorist, "weapon_mac10", false, core.HalfBuyPrimary, true},
		{"pistol half buy", core.RoundHalfBuy, core.TeamTerrorist, "weapon_glock", false, core.Secondary, true},
		{"pistol full buy", core.RoundFullBuy, core.TeamTerrorist, "weapon_deagle", false, core.Secondary, true},
		{"deagle pistol round", core.RoundPistol, core.TeamTerrorist, "weapon_deagle", false, 0, false},
		{"glock pistol round", core.RoundPistol, core.TeamTerrorist, "weapon_glock", false, core.PistolRound, true},
		{"sniper full buy", core.RoundFullBuy, core.TeamCounterTerrorist, "weapon_awp", false, core.Preferred, true},
		{"unknown", core.RoundFullBuy, core.TeamTerrorist, "weapon_raygun", false, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.CategoryFor(tt.round, tt.team, tt.id, tt.shared)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSnipers(t *testing.T) {
	c := mustDefault(t)
	assert.Equal(t, []core.WeaponID{"weapon_awp", "weapon_ssg08"}, c.Snipers(core.TeamTerrorist, false))
}

func TestFindByName(t *testing.T) {
	c := mustDefault(t)

	tests := []struct {
		query string
		want  core.WeaponID
	}{
		{"weapon_ak47", "weapon_ak47"},
		{"ak47", "weapon_ak47"},
		{"AK-47", "weapon_ak47"},
		{"scout", "weapon_ssg08"},
		{"m4a1-s", "weapon_m4a1_silencer"},
		{"Desert Eagle", "weapon_deagle"},
		{"glockk", "weapon_glock"},
		{"famass", "weapon_famas"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := c.FindByName(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "zz", "flamethrower"} {
		_, err := c.FindByName(bad)
		assert.ErrorIs(t, err, ErrUnknownWeapon, bad)
	}
}

func TestDisplayName(t *testing.T) {
	c := mustDefault(t)
	assert.Equal(t, "USP-S", c.DisplayName("weapon_usp_silencer"))
	assert.Equal(t, "weapon_raygun", c.DisplayName("weapon_raygun"))
}
