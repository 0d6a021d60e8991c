package messages

import "github.com/retakesallocator/loadout/pkg/core"

// TeamKey is the message key of a team's display name.
func TeamKey(team core.Team) string {
	if team == core.TeamTerrorist {
		return "teams.terrorist"
	}
	return "teams.counter_terrorist"
}

// RoundKey is the message key of a round type's display name.
func RoundKey(round core.RoundType) string {
	switch round {
	case core.RoundHalfBuy:
		return "round_type.half_buy"
	case core.RoundPistol:
		return "round_type.pistol"
	default:
		return "round_type.full_buy"
	}
}

// CategoryKey is the message key of an allocation category's weapon type.
func CategoryKey(category core.AllocationType) string {
	switch category {
	case core.Secondary:
		return "weapon_type.secondary"
	case core.PistolRound:
		return "weapon_type.pistol"
	case core.Preferred:
		return "guns_menu.sniper_label"
	default:
		return "weapon_type.primary"
	}
}

// EnemyStuffChoiceKey is the message key of an enemy equipment menu choice.
func EnemyStuffChoiceKey(p core.EnemyStuffPreference) string {
	switch p {
	case core.EnemyStuffTerroristOnly:
		return "guns_menu.enemy_stuff_choice_t_only"
	case core.EnemyStuffCounterTerroristOnly:
		return "guns_menu.enemy_stuff_choice_ct_only"
	case core.EnemyStuffBoth:
		return "guns_menu.enemy_stuff_choice_both"
	default:
		return "guns_menu.enemy_stuff_choice_disable"
	}
}

// EnemyStuffResultKey is the message key sent after the enemy equipment preference changes.
func EnemyStuffResultKey(p core.EnemyStuffPreference) string {
	switch p {
	case core.EnemyStuffTerroristOnly:
		return "guns_menu.enemy_stuff_enabled_t_message"
	case core.EnemyStuffCounterTerroristOnly:
		return "guns_menu.enemy_stuff_enabled_ct_message"
	case core.EnemyStuffBoth:
		return "guns_menu.enemy_stuff_enabled_both_message"
	default:
		return "guns_menu.enemy_stuff_disabled_message"
	}
}
