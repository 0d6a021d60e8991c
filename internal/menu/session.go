package menu

import (
	"errors"
	"fmt"

	"github.com/retakesallocator/loadout/internal/loadout"
	"github.com/retakesallocator/loadout/internal/players"
	"github.com/retakesallocator/loadout/pkg/core"
)

// ErrNoSuchEntry is returned when activating an index the screen does not have.
var ErrNoSuchEntry = errors.New("no such menu entry")

// ErrClosed is returned when activating an entry of a closed session.
var ErrClosed = errors.New("menu session closed")

// Controller applies the side effects of menu choices. Implementations must not block.
type Controller interface {
	ApplyWeaponSelection(p players.Player, team core.Team, round core.RoundType, weapon core.WeaponID)
	ApplySniperPreference(p players.Player, view *loadout.View, pref core.SniperPreference)
	ApplyZeusPreference(p players.Player, view *loadout.View, enabled bool)
	ApplyEnemyEquipmentPreference(p players.Player, view *loadout.View, raw core.EnemyStuffFlags)
}

// Transition tells the host what to do after an activation.
type Transition int

const (
	// TransitionShow opens Session.Screen as a new screen.
	TransitionShow Transition = iota
	// TransitionRefresh redraws the current screen in place.
	TransitionRefresh
	// TransitionClose closes the menu.
	TransitionClose
)

func (t Transition) String() string {
	switch t {
	case TransitionShow:
		return "show"
	case TransitionRefresh:
		return "refresh"
	case TransitionClose:
		return "close"
	default:
		return fmt.Sprintf("Transition(%d)", int(t))
	}
}

// Session is the navigation state of one open menu. It runs on the game thread only.
type Session struct {
	player  players.Player
	view    *loadout.View
	tree    *Tree
	ctrl    Controller
	current ScreenID
	suffix  string
	closed  bool
}

// NewSession starts at the root screen.
func NewSession(p players.Player, view *loadout.View, tree *Tree, ctrl Controller) *Session {
	return &Session{player: p, view: view, tree: tree, ctrl: ctrl, current: RootScreen}
}

// Player returns the player the session belongs to.
func (s *Session) Player() players.Player { return s.player }

// View returns the session's loadout view.
func (s *Session) View() *loadout.View { return s.view }

// Current returns the id of the screen on display.
func (s *Session) Current() ScreenID { return s.current }

// Closed reports whether the session has ended.
func (s *Session) Closed() bool { return s.closed }

// Screen renders the current screen.
func (s *Session) Screen() Screen {
	screen := s.tree.Build(s.current)
	if s.suffix != "" {
		screen.Title = screen.Title + " - " + s.suffix
	}
	return screen
}

// Close ends the session.
func (s *Session) Close() {
	s.closed = true
}

// Activate runs the entry at index of the current screen.
func (s *Session) Activate(index int) (Transition, error) {
	if s.closed {
		return TransitionClose, ErrClosed
	}
	screen := s.tree.Build(s.current)
	if index < 0 || index >= len(screen.Entries) {
		return TransitionRefresh, fmt.Errorf("%s entry %d: %w", s.current, index, ErrNoSuchEntry)
	}
	entry := screen.Entries[index]
	a := entry.Action

	switch a.Kind {
	case ActionNavigate, ActionBack:
		s.show(a.Target)
		return TransitionShow, nil

	case ActionExit:
		if s.current == RootScreen {
			s.closed = true
			return TransitionClose, nil
		}
		s.show(RootScreen)
		return TransitionShow, nil

	case ActionSelectWeapon:
		s.view.SetCurrent(a.Category, a.Weapon)
		s.ctrl.ApplyWeaponSelection(s.player, s.view.Team, a.Round, a.Weapon)
		s.show(RoundScreen(a.Round))
		return TransitionShow, nil

	case ActionSelectSniper:
		s.ctrl.ApplySniperPreference(s.player, s.view, a.Sniper)
		s.suffix = choiceLabel(entry)
		return TransitionRefresh, nil

	case ActionSetEnemyStuff:
		s.ctrl.ApplyEnemyEquipmentPreference(s.player, s.view, a.EnemyStuff)
		s.suffix = choiceLabel(entry)
		return TransitionRefresh, nil

	case ActionToggleZeus:
		s.ctrl.ApplyZeusPreference(s.player, s.view, a.Zeus)
		return TransitionRefresh, nil

	default:
		return TransitionRefresh, fmt.Errorf("%s entry %d: unknown action %d", s.current, index, a.Kind)
	}
}

func (s *Session) show(id ScreenID) {
	s.current = id
	s.suffix = ""
}
