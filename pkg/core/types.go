package core

import (
	"fmt"
	"strings"
)

// Team is a side in a retakes round. Values match the game's team numbers.
type Team int

const (
	TeamNone             Team = 0
	TeamSpectator        Team = 1
	TeamTerrorist        Team = 2
	TeamCounterTerrorist Team = 3
)

// PlayingTeams lists the two teams that own loadout preferences, in storage order.
var PlayingTeams = []Team{TeamTerrorist, TeamCounterTerrorist}

// IsPlaying reports whether the team can hold weapon preferences.
func (t Team) IsPlaying() bool {
	return t == TeamTerrorist || t == TeamCounterTerrorist
}

// Opposite returns the other playing team. Non-playing teams map to themselves.
func (t Team) Opposite() Team {
	switch t {
	case TeamTerrorist:
		return TeamCounterTerrorist
	case TeamCounterTerrorist:
		return TeamTerrorist
	default:
		return t
	}
}

func (t Team) String() string {
	switch t {
	case TeamTerrorist:
		return "T"
	case TeamCounterTerrorist:
		return "CT"
	case TeamSpectator:
		return "SPEC"
	default:
		return "NONE"
	}
}

// ParseTeam accepts "T", "CT" and the long names, case-insensitively.
func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "terrorist", "terrorists":
		return TeamTerrorist, nil
	case "ct", "counterterrorist", "counter_terrorist", "counter-terrorist", "counterterrorists":
		return TeamCounterTerrorist, nil
	case "spec", "spectator":
		return TeamSpectator, nil
	default:
		return TeamNone, fmt.Errorf("unknown team %q", s)
	}
}

// RoundType drives which allocation categories are offered.
type RoundType int

const (
	RoundFullBuy RoundType = iota
	RoundHalfBuy
	RoundPistol
)

// RoundTypes in menu order.
var RoundTypes = []RoundType{RoundFullBuy, RoundHalfBuy, RoundPistol}

func (r RoundType) String() string {
	switch r {
	case RoundFullBuy:
		return "FullBuy"
	case RoundHalfBuy:
		return "HalfBuy"
	case RoundPistol:
		return "Pistol"
	default:
		return fmt.Sprintf("RoundType(%d)", int(r))
	}
}

// AllocationType is the purchase-context bucket a weapon is assigned to.
type AllocationType int

const (
	FullBuyPrimary AllocationType = iota
	HalfBuyPrimary
	Secondary
	PistolRound
	Preferred
)

// MenuCategories are the categories that carry a legal set and an effective choice.
var MenuCategories = []AllocationType{FullBuyPrimary, HalfBuyPrimary, Secondary, PistolRound}

func (a AllocationType) String() string {
	switch a {
	case FullBuyPrimary:
		return "FullBuyPrimary"
	case HalfBuyPrimary:
		return "HalfBuyPrimary"
	case Secondary:
		return "Secondary"
	case PistolRound:
		return "PistolRound"
	case Preferred:
		return "Preferred"
	default:
		return fmt.Sprintf("AllocationType(%d)", int(a))
	}
}

// ParseAllocationType matches the String form case-insensitively.
func ParseAllocationType(s string) (AllocationType, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, a := range []AllocationType{FullBuyPrimary, HalfBuyPrimary, Secondary, PistolRound, Preferred} {
		if strings.ToLower(a.String()) == want {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown allocation type %q", s)
}

// WeaponID is the game's item class name, e.g. "weapon_ak47".
type WeaponID string

func (w WeaponID) String() string { return string(w) }
