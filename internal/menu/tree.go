package menu

import (
	"github.com/retakesallocator/loadout/internal/catalog"
	"github.com/retakesallocator/loadout/internal/loadout"
	"github.com/retakesallocator/loadout/internal/messages"
	"github.com/retakesallocator/loadout/pkg/core"
)

// Text looks up localized labels.
type Text interface {
	T(key string, args ...any) string
}

// WeaponNames projects weapon ids to display names.
type WeaponNames interface {
	DisplayName(id core.WeaponID) string
}

// Options are the per-session switches decided when the menu opens.
type Options struct {
	// SniperScreen offers the preferred sniper screen; callers combine the
	// server toggle with the player's VIP status.
	SniperScreen bool
	// EnemyStuffScreen offers the enemy equipment screen.
	EnemyStuffScreen bool
	// ZeusToggle offers the zeus toggle on the full buy screen.
	ZeusToggle bool
	// Snipers are the concrete choices of the sniper screen, in display order.
	Snipers []core.WeaponID
}

// Tree builds screens from a view. It holds no navigation state.
type Tree struct {
	view  *loadout.View
	opts  Options
	text  Text
	names WeaponNames
}

// NewTree creates a Tree over view.
func NewTree(view *loadout.View, opts Options, text Text, names WeaponNames) *Tree {
	return &Tree{view: view, opts: opts, text: text, names: names}
}

// Build renders the screen with the given id from the current state of the view.
func (t *Tree) Build(id ScreenID) Screen {
	switch id.Kind {
	case KindRound:
		return t.round(id.Round)
	case KindCategory:
		return t.category(id.Round, id.Category)
	case KindSniper:
		return t.sniper()
	case KindEnemyStuff:
		return t.enemyStuff()
	default:
		return t.root()
	}
}

// Parent returns the screen a selection or back action on id returns to.
func Parent(id ScreenID) ScreenID {
	switch id.Kind {
	case KindCategory, KindSniper, KindEnemyStuff:
		return RoundScreen(id.Round)
	default:
		return RootScreen
	}
}

func (t *Tree) root() Screen {
	s := Screen{
		ID:    RootScreen,
		Title: t.text.T("guns_menu.title", t.teamName()),
	}
	for _, round := range core.RoundTypes {
		if len(t.round(round).Entries) <= 1 {
			continue
		}
		s.Entries = append(s.Entries, Entry{
			Label:  t.text.T(messages.RoundKey(round)),
			Action: Navigate(RoundScreen(round)),
		})
	}
	s.Entries = append(s.Entries, Entry{Label: t.text.T("menu.exit"), Action: Exit()})
	return s
}

func (t *Tree) round(round core.RoundType) Screen {
	s := Screen{
		ID:    RoundScreen(round),
		Title: t.text.T(messages.RoundKey(round)),
	}
	for _, category := range catalog.RoundCategories(round) {
		if len(t.view.Choices(category)) == 0 {
			continue
		}
		s.Entries = append(s.Entries, Entry{
			Label:  t.text.T(messages.CategoryKey(category)),
			Action: Navigate(CategoryScreen(round, category)),
		})
	}

	if round == core.RoundFullBuy {
		if t.opts.SniperScreen {
			s.Entries = append(s.Entries, Entry{
				Label:  t.text.T("guns_menu.sniper_label"),
				Action: Navigate(SniperScreen),
			})
		}
		if t.opts.EnemyStuffScreen {
			s.Entries = append(s.Entries, Entry{
				Label:  t.text.T("guns_menu.enemy_stuff_label"),
				Action: Navigate(EnemyStuffScreen),
			})
		}
		if t.opts.ZeusToggle {
			choice := "guns_menu.zeus_choice_disable"
			if t.view.ZeusEnabled {
				choice = "guns_menu.zeus_choice_enable"
			}
			s.Entries = append(s.Entries, Entry{
				Label:  t.text.T("guns_menu.zeus_label") + ": " + t.text.T(choice),
				Action: ToggleZeus(!t.view.ZeusEnabled),
			})
		}
	}

	s.Entries = append(s.Entries, Entry{Label: t.text.T("menu.exit"), Action: Exit()})
	return s
}

// category lists the legal weapons with the effective one first; the rest keep catalog order.
func (t *Tree) category(round core.RoundType, category core.AllocationType) Screen {
	s := Screen{
		ID:    CategoryScreen(round, category),
		Title: t.text.T(messages.CategoryKey(category)),
	}

	current, hasCurrent := t.view.Current(category)
	options := t.view.Choices(category)
	ordered := make([]core.WeaponID, 0, len(options))
	if hasCurrent {
		for _, w := range options {
			if w == current {
				ordered = append(ordered, w)
			}
		}
	}
	for _, w := range options {
		if !hasCurrent || w != current {
			ordered = append(ordered, w)
		}
	}

	for _, w := range ordered {
		selected := hasCurrent && w == current
		s.Entries = append(s.Entries, Entry{
			Label:    markSelected(t.names.DisplayName(w), selected),
			Selected: selected,
			Action:   SelectWeapon(round, category, w),
		})
	}

	s.Entries = append(s.Entries, Entry{Label: t.text.T("menu.exit"), Action: Exit()})
	return s
}

func (t *Tree) sniper() Screen {
	s := Screen{ID: SniperScreen, Title: t.text.T("guns_menu.sniper_label")}
	current := t.view.PreferredSniper

	for _, w := range t.opts.Snipers {
		pref := core.SniperWeapon(w)
		selected := current == pref
		s.Entries = append(s.Entries, Entry{
			Label:    markSelected(t.names.DisplayName(w), selected),
			Selected: selected,
			Action:   SelectSniper(pref),
		})
	}
	s.Entries = append(s.Entries,
		Entry{
			Label:    markSelected(t.text.T("guns_menu.sniper_random"), current.IsRandom()),
			Selected: current.IsRandom(),
			Action:   SelectSniper(core.RandomSniper()),
		},
		Entry{
			Label:    markSelected(t.text.T("guns_menu.sniper_disabled"), !current.IsSet()),
			Selected: !current.IsSet(),
			Action:   SelectSniper(core.NoSniper()),
		},
		Entry{Label: t.text.T("menu.back"), Action: Back(Parent(SniperScreen))},
	)
	return s
}

func (t *Tree) enemyStuff() Screen {
	s := Screen{ID: EnemyStuffScreen, Title: t.text.T("guns_menu.enemy_stuff_label")}
	for _, p := range core.EnemyStuffPreferences {
		selected := t.view.EnemyStuff == p
		s.Entries = append(s.Entries, Entry{
			Label:    markSelected(t.text.T(messages.EnemyStuffChoiceKey(p)), selected),
			Selected: selected,
			Action:   SetEnemyStuff(p.Flags()),
		})
	}
	s.Entries = append(s.Entries, Entry{Label: t.text.T("menu.back"), Action: Back(Parent(EnemyStuffScreen))})
	return s
}

func (t *Tree) teamName() string {
	return t.text.T(messages.TeamKey(t.view.Team))
}

// choiceLabel is the plain label of an entry, without the selection mark.
func choiceLabel(e Entry) string {
	if e.Selected {
		return e.Label[len(SelectedMark):]
	}
	return e.Label
}
