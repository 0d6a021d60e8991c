package convert

import (
	"github.com/retakesallocator/loadout/internal/model"
	"github.com/retakesallocator/loadout/pkg/core"
)

// CoreToWeaponPreference converts one preference key to its GORM row.
func CoreToWeaponPreference(playerID uint64, team core.Team, category core.AllocationType, weapon core.WeaponID) model.WeaponPreference {
	return model.WeaponPreference{
		PlayerID: playerID,
		Team:     int(team),
		Category: int(category),
		Weapon:   string(weapon),
	}
}

// CoreToSniperPreferences returns the Preferred rows of both playing teams.
func CoreToSniperPreferences(playerID uint64, pref core.SniperPreference) []model.WeaponPreference {
	rows := make([]model.WeaponPreference, 0, len(core.PlayingTeams))
	for _, team := range core.PlayingTeams {
		rows = append(rows, CoreToWeaponPreference(playerID, team, core.Preferred, pref.Encode()))
	}
	return rows
}

// SettingsToRows splits settings into their GORM rows.
func SettingsToRows(s *core.UserLoadoutSettings) (model.UserSetting, []model.WeaponPreference) {
	setting := model.UserSetting{
		PlayerID:    s.PlayerID,
		ZeusEnabled: s.ZeusEnabled,
		EnemyStuff:  uint8(s.EnemyStuff),
	}
	var prefs []model.WeaponPreference
	for _, team := range core.PlayingTeams {
		for _, category := range []core.AllocationType{core.FullBuyPrimary, core.HalfBuyPrimary, core.Secondary, core.PistolRound, core.Preferred} {
			if w, ok := s.WeaponPreference(team, category); ok {
				prefs = append(prefs, CoreToWeaponPreference(s.PlayerID, team, category, w))
			}
		}
	}
	return setting, prefs
}
