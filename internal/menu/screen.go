// Package menu turns a loadout view into a navigable screen graph. Screens are
// plain data: every entry carries a tagged action instead of a callback, so any
// host can render them and tests can walk them without a UI.
package menu

import (
	"fmt"

	"github.com/retakesallocator/loadout/pkg/core"
)

// SelectedMark prefixes the label of the entry that is currently in effect.
const SelectedMark = "✔ "

// Kind is the type of a screen.
type Kind int

const (
	KindRoot Kind = iota
	KindRound
	KindCategory
	KindSniper
	KindEnemyStuff
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindRound:
		return "round"
	case KindCategory:
		return "category"
	case KindSniper:
		return "sniper"
	case KindEnemyStuff:
		return "enemy_stuff"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ScreenID addresses one screen. Round is set for round and category screens,
// Category only for category screens.
type ScreenID struct {
	Kind     Kind
	Round    core.RoundType
	Category core.AllocationType
}

// RootScreen is the entry point of every session.
var RootScreen = ScreenID{Kind: KindRoot}

// RoundScreen addresses a round type screen.
func RoundScreen(round core.RoundType) ScreenID {
	return ScreenID{Kind: KindRound, Round: round}
}

// CategoryScreen addresses a weapon list hosted by a round screen.
func CategoryScreen(round core.RoundType, category core.AllocationType) ScreenID {
	return ScreenID{Kind: KindCategory, Round: round, Category: category}
}

// SniperScreen and EnemyStuffScreen hang off the full buy round screen.
var (
	SniperScreen     = ScreenID{Kind: KindSniper, Round: core.RoundFullBuy}
	EnemyStuffScreen = ScreenID{Kind: KindEnemyStuff, Round: core.RoundFullBuy}
)

func (id ScreenID) String() string {
	switch id.Kind {
	case KindRound:
		return fmt.Sprintf("%s/%s", id.Kind, id.Round)
	case KindCategory:
		return fmt.Sprintf("%s/%s/%s", id.Kind, id.Round, id.Category)
	default:
		return id.Kind.String()
	}
}

// ActionKind tags what an entry does when activated.
type ActionKind int

const (
	ActionNavigate ActionKind = iota
	ActionSelectWeapon
	ActionSelectSniper
	ActionToggleZeus
	ActionSetEnemyStuff
	ActionBack
	ActionExit
)

// Action is the tagged payload of an entry. Only the fields of its Kind are set.
type Action struct {
	Kind ActionKind

	// ActionNavigate, ActionBack
	Target ScreenID

	// ActionSelectWeapon
	Round    core.RoundType
	Category core.AllocationType
	Weapon   core.WeaponID

	// ActionSelectSniper
	Sniper core.SniperPreference

	// ActionToggleZeus
	Zeus bool

	// ActionSetEnemyStuff
	EnemyStuff core.EnemyStuffFlags
}

// Navigate opens another screen.
func Navigate(target ScreenID) Action { return Action{Kind: ActionNavigate, Target: target} }

// SelectWeapon applies a weapon for the category shown on a round's screen.
func SelectWeapon(round core.RoundType, category core.AllocationType, weapon core.WeaponID) Action {
	return Action{Kind: ActionSelectWeapon, Round: round, Category: category, Weapon: weapon}
}

// SelectSniper applies a preferred sniper.
func SelectSniper(pref core.SniperPreference) Action {
	return Action{Kind: ActionSelectSniper, Sniper: pref}
}

// ToggleZeus sets the zeus preference.
func ToggleZeus(enabled bool) Action { return Action{Kind: ActionToggleZeus, Zeus: enabled} }

// SetEnemyStuff applies an enemy equipment preference.
func SetEnemyStuff(flags core.EnemyStuffFlags) Action {
	return Action{Kind: ActionSetEnemyStuff, EnemyStuff: flags}
}

// Back returns to the screen that hosts the current one.
func Back(target ScreenID) Action { return Action{Kind: ActionBack, Target: target} }

// Exit collapses to the root screen, or closes the session from the root.
func Exit() Action { return Action{Kind: ActionExit} }

// Entry is one selectable line of a screen.
type Entry struct {
	Label    string
	Selected bool
	Action   Action
}

// Screen is a rendered screen: a title and its ordered entries.
type Screen struct {
	ID      ScreenID
	Title   string
	Entries []Entry
}

func markSelected(label string, selected bool) string {
	if selected {
		return SelectedMark + label
	}
	return label
}
