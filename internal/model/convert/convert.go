// Package convert provides functions to convert GORM models to core models
package convert

import (
	"github.com/retakesallocator/loadout/internal/model"
	"github.com/retakesallocator/loadout/pkg/core"
)

// RowsToSettings assembles settings from a player's rows. setting may be nil when
// the player only has weapon rows.
func RowsToSettings(playerID uint64, setting *model.UserSetting, prefs []model.WeaponPreference) *core.UserLoadoutSettings {
	s := core.NewUserLoadoutSettings(playerID)
	if setting != nil {
		s.ZeusEnabled = setting.ZeusEnabled
		s.EnemyStuff = core.EnemyStuffFlags(setting.EnemyStuff)
	}
	for _, p := range prefs {
		s.SetWeaponPreference(core.Team(p.Team), core.AllocationType(p.Category), core.WeaponID(p.Weapon))
	}
	return s
}
