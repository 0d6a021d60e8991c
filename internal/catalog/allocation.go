package catalog

import (
	"github.com/agnivade/levenshtein"
	"github.com/retakesallocator/loadout/pkg/core"
)

// maxNameDistance bounds fuzzy name matches.
const maxNameDistance = 2

// LegalSet maps each menu category to its legal weapons in catalog order.
type LegalSet map[core.AllocationType][]core.WeaponID

// Contains reports whether id is legal for the category.
func (l LegalSet) Contains(category core.AllocationType, id core.WeaponID) bool {
	for _, w := range l[category] {
		if w == id {
			return true
		}
	}
	return false
}

// RoundCategories lists the menu categories a round type offers.
func RoundCategories(round core.RoundType) []core.AllocationType {
	switch round {
	case core.RoundFullBuy:
		return []core.AllocationType{core.FullBuyPrimary, core.Secondary}
	case core.RoundHalfBuy:
		return []core.AllocationType{core.HalfBuyPrimary, core.Secondary}
	case core.RoundPistol:
		return []core.AllocationType{core.PistolRound}
	default:
		return nil
	}
}

// HomeRound is the round type whose rules decide a category's legal set.
func HomeRound(category core.AllocationType) core.RoundType {
	switch category {
	case core.HalfBuyPrimary:
		return core.RoundHalfBuy
	case core.PistolRound:
		return core.RoundPistol
	default:
		return core.RoundFullBuy
	}
}

func candidateClasses(category core.AllocationType) []Class {
	switch category {
	case core.FullBuyPrimary:
		return []Class{ClassRifle}
	case core.HalfBuyPrimary:
		return []Class{ClassSMG, ClassShotgun, ClassMachineGun}
	case core.Secondary, core.PistolRound:
		return []Class{ClassPistol}
	case core.Preferred:
		return []Class{ClassSniper}
	default:
		return nil
	}
}

// Candidates is the loose lookup: weapons of a category's classes that the team can buy,
// without applying any round rules.
func (c *Catalog) Candidates(category core.AllocationType, team core.Team) []core.WeaponID {
	classes := candidateClasses(category)
	var out []core.WeaponID
	for _, w := range c.weapons {
		if !w.UsableBy(team) {
			continue
		}
		for _, cl := range classes {
			if w.Class == cl {
				out = append(out, w.ID)
				break
			}
		}
	}
	return out
}

// CategoryFor derives the allocation category of a weapon from the round rules.
// In shared-pool mode team ownership is ignored.
func (c *Catalog) CategoryFor(round core.RoundType, team core.Team, id core.WeaponID, sharedPool bool) (core.AllocationType, bool) {
	w, ok := c.byID[id]
	if !ok {
		return 0, false
	}
	if !sharedPool && !w.UsableBy(team) {
		return 0, false
	}

	switch round {
	case core.RoundFullBuy:
		switch w.Class {
		case ClassRifle:
			return core.FullBuyPrimary, true
		case ClassSniper:
			return core.Preferred, true
		case ClassPistol:
			return core.Secondary, true
		}
	case core.RoundHalfBuy:
		switch w.Class {
		case ClassSMG, ClassShotgun, ClassMachineGun:
			return core.HalfBuyPrimary, true
		case ClassPistol:
			return core.Secondary, true
		}
	case core.RoundPistol:
		if w.Class == ClassPistol && w.PistolRound {
			return core.PistolRound, true
		}
	}
	return 0, false
}

// teamLegal runs the loose lookup and keeps only weapons whose strict category
// for this exact team and round is the queried one.
func (c *Catalog) teamLegal(category core.AllocationType, round core.RoundType, team core.Team) []core.WeaponID {
	var out []core.WeaponID
	for _, id := range c.Candidates(category, team) {
		if derived, ok := c.CategoryFor(round, team, id, false); ok && derived == category {
			out = append(out, id)
		}
	}
	return out
}

func (c *Catalog) legal(category core.AllocationType, round core.RoundType, team core.Team, sharedPool bool) []core.WeaponID {
	if !sharedPool {
		return c.teamLegal(category, round, team)
	}
	return union(
		c.teamLegal(category, round, core.TeamTerrorist),
		c.teamLegal(category, round, core.TeamCounterTerrorist),
	)
}

// LegalWeapons returns the legal weapons for every category the round offers.
func (c *Catalog) LegalWeapons(round core.RoundType, team core.Team, sharedPool bool) LegalSet {
	out := LegalSet{}
	for _, category := range RoundCategories(round) {
		out[category] = c.legal(category, round, team, sharedPool)
	}
	return out
}

// LegalSet returns the legal weapons of the four menu categories, each computed
// under its home round.
func (c *Catalog) LegalSet(team core.Team, sharedPool bool) LegalSet {
	out := LegalSet{}
	for _, category := range core.MenuCategories {
		out[category] = c.legal(category, HomeRound(category), team, sharedPool)
	}
	return out
}

// Snipers lists the concrete sniper choices for the preferred-sniper screen.
func (c *Catalog) Snipers(team core.Team, sharedPool bool) []core.WeaponID {
	return c.legal(core.Preferred, core.RoundFullBuy, team, sharedPool)
}

func union(a, b []core.WeaponID) []core.WeaponID {
	seen := make(map[core.WeaponID]bool, len(a)+len(b))
	out := make([]core.WeaponID, 0, len(a)+len(b))
	for _, list := range [][]core.WeaponID{a, b} {
		for _, id := range list {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (c *Catalog) closest(key string) (core.WeaponID, bool) {
	if len(key) < 3 {
		return "", false
	}
	best := maxNameDistance + 1
	var found core.WeaponID
	for _, w := range c.weapons {
		for _, candidate := range w.names() {
			if d := levenshtein.ComputeDistance(key, candidate); d < best {
				best = d
				found = w.ID
			}
		}
	}
	return found, found != ""
}
