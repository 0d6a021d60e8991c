// Package loadout resolves stored preferences into the effective loadout a player sees.
package loadout

import (
	"github.com/retakesallocator/loadout/internal/catalog"
	"github.com/retakesallocator/loadout/pkg/core"
)

// Defaults is the configured default weapon table.
type Defaults map[core.Team]map[core.AllocationType]core.WeaponID

// Lookup returns the configured default for a key.
func (d Defaults) Lookup(team core.Team, category core.AllocationType) (core.WeaponID, bool) {
	w, ok := d[team][category]
	return w, ok && w != ""
}

// View is the per-session projection of stored settings plus the catalog.
// It is owned by the game thread and mutated optimistically on selection.
type View struct {
	PlayerID        uint64
	Team            core.Team
	Options         catalog.LegalSet
	PreferredSniper core.SniperPreference
	ZeusEnabled     bool
	EnemyStuff      core.EnemyStuffPreference

	current map[core.AllocationType]core.WeaponID
}

// Current returns the effective choice for a category, if any.
func (v *View) Current(category core.AllocationType) (core.WeaponID, bool) {
	w, ok := v.current[category]
	return w, ok
}

// SetCurrent replaces the effective choice for a category.
func (v *View) SetCurrent(category core.AllocationType, weapon core.WeaponID) {
	if v.current == nil {
		v.current = make(map[core.AllocationType]core.WeaponID)
	}
	v.current[category] = weapon
}

// Choices returns the legal weapons for a category.
func (v *View) Choices(category core.AllocationType) []core.WeaponID {
	return v.Options[category]
}

// Resolve builds the view for one player and team. settings may be nil.
//
// Per category the effective choice is the stored preference when it is still
// legal, otherwise the configured default, otherwise the first legal weapon.
// A configured default is taken as-is, even when it is not in the legal set.
func Resolve(settings *core.UserLoadoutSettings, legal catalog.LegalSet, team core.Team, defaults Defaults) *View {
	v := &View{
		Team:            team,
		Options:         legal,
		PreferredSniper: settings.PreferredSniper(team),
		EnemyStuff:      settings.EnemyStuffPreference(),
		current:         make(map[core.AllocationType]core.WeaponID, len(core.MenuCategories)),
	}
	if settings != nil {
		v.PlayerID = settings.PlayerID
		v.ZeusEnabled = settings.ZeusEnabled
	}

	for _, category := range core.MenuCategories {
		if w, ok := effective(settings, legal, team, category, defaults); ok {
			v.current[category] = w
		}
	}
	return v
}

func effective(settings *core.UserLoadoutSettings, legal catalog.LegalSet, team core.Team, category core.AllocationType, defaults Defaults) (core.WeaponID, bool) {
	if stored, ok := settings.WeaponPreference(team, category); ok && legal.Contains(category, stored) {
		return stored, true
	}
	if w, ok := defaults.Lookup(team, category); ok {
		return w, true
	}
	if options := legal[category]; len(options) > 0 {
		return options[0], true
	}
	return "", false
}
