// Package catalog decides which weapons are legal for a team, round type and pool mode.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/retakesallocator/loadout/pkg/core"

	"gopkg.in/yaml.v3"
)

// ErrUnknownWeapon is returned when an id or name does not match any catalog weapon.
var ErrUnknownWeapon = errors.New("unknown weapon")

//go:embed weapons.yaml
var defaultWeaponsYAML []byte

// Class groups weapons by how they are bought.
type Class string

const (
	ClassPistol     Class = "pistol"
	ClassSMG        Class = "smg"
	ClassShotgun    Class = "shotgun"
	ClassMachineGun Class = "machinegun"
	ClassRifle      Class = "rifle"
	ClassSniper     Class = "sniper"
)

// Weapon is one catalog row.
type Weapon struct {
	ID          core.WeaponID `yaml:"id"`
	Name        string        `yaml:"name"`
	Class       Class         `yaml:"class"`
	Teams       []string      `yaml:"teams"`
	PistolRound bool          `yaml:"pistolRound"`
	Aliases     []string      `yaml:"aliases"`

	teams map[core.Team]bool
}

// UsableBy reports whether the weapon can be bought by the team.
func (w *Weapon) UsableBy(team core.Team) bool {
	return w.teams[team]
}

type weaponFile struct {
	Weapons []*Weapon `yaml:"weapons"`
}

// Catalog holds the usable weapons in file order.
type Catalog struct {
	weapons []*Weapon
	byID    map[core.WeaponID]*Weapon
}

// Default returns the embedded catalog with every weapon usable.
func Default() (*Catalog, error) {
	return Parse(defaultWeaponsYAML, nil)
}

// Load reads the catalog from path, or the embedded table when path is empty,
// and keeps only the usable weapons (all when usable is empty).
func Load(path string, usable []core.WeaponID) (*Catalog, error) {
	if path == "" {
		return Parse(defaultWeaponsYAML, usable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weapon catalog %s: %w", path, err)
	}
	return Parse(data, usable)
}

// Parse builds a catalog from YAML.
func Parse(data []byte, usable []core.WeaponID) (*Catalog, error) {
	var file weaponFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse weapon catalog: %w", err)
	}
	if len(file.Weapons) == 0 {
		return nil, fmt.Errorf("weapon catalog is empty")
	}

	all := make(map[core.WeaponID]*Weapon, len(file.Weapons))
	for i, w := range file.Weapons {
		if w == nil || w.ID == "" {
			return nil, fmt.Errorf("weapon %d: id is required", i)
		}
		if _, dup := all[w.ID]; dup {
			return nil, fmt.Errorf("weapon %s: duplicate id", w.ID)
		}
		if err := w.validate(); err != nil {
			return nil, err
		}
		all[w.ID] = w
	}

	keep := make(map[core.WeaponID]bool, len(usable))
	for _, id := range usable {
		if _, ok := all[id]; !ok {
			return nil, fmt.Errorf("usable weapon %q: %w", id, ErrUnknownWeapon)
		}
		keep[id] = true
	}

	c := &Catalog{byID: make(map[core.WeaponID]*Weapon, len(file.Weapons))}
	for _, w := range file.Weapons {
		if len(keep) > 0 && !keep[w.ID] {
			continue
		}
		c.weapons = append(c.weapons, w)
		c.byID[w.ID] = w
	}
	return c, nil
}

func (w *Weapon) validate() error {
	switch w.Class {
	case ClassPistol, ClassSMG, ClassShotgun, ClassMachineGun, ClassRifle, ClassSniper:
	default:
		return fmt.Errorf("weapon %s: unknown class %q", w.ID, w.Class)
	}
	if w.Name == "" {
		w.Name = string(w.ID)
	}
	w.teams = make(map[core.Team]bool, 2)
	for _, raw := range w.Teams {
		team, err := core.ParseTeam(raw)
		if err != nil || !team.IsPlaying() {
			return fmt.Errorf("weapon %s: bad team %q", w.ID, raw)
		}
		w.teams[team] = true
	}
	if len(w.teams) == 0 {
		return fmt.Errorf("weapon %s: at least one team is required", w.ID)
	}
	return nil
}

// Weapon looks up a usable weapon by id.
func (c *Catalog) Weapon(id core.WeaponID) (*Weapon, bool) {
	w, ok := c.byID[id]
	return w, ok
}

// DisplayName is the human name of a weapon, or its id when unknown.
func (c *Catalog) DisplayName(id core.WeaponID) string {
	if w, ok := c.byID[id]; ok {
		return w.Name
	}
	return string(id)
}

// Len returns the number of usable weapons.
func (c *Catalog) Len() int {
	return len(c.weapons)
}

// FindByName resolves a player-typed weapon name.
// Exact matches on id, name or alias win; otherwise the closest name within a small edit distance.
func (c *Catalog) FindByName(query string) (core.WeaponID, error) {
	key := nameKey(query)
	if key == "" {
		return "", ErrUnknownWeapon
	}
	for _, w := range c.weapons {
		for _, candidate := range w.names() {
			if candidate == key {
				return w.ID, nil
			}
		}
	}
	if id, ok := c.closest(key); ok {
		return id, nil
	}
	return "", fmt.Errorf("%q: %w", query, ErrUnknownWeapon)
}

func (w *Weapon) names() []string {
	out := []string{nameKey(string(w.ID)), nameKey(strings.TrimPrefix(string(w.ID), "weapon_")), nameKey(w.Name)}
	for _, a := range w.Aliases {
		out = append(out, nameKey(a))
	}
	return out
}

func nameKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "", ".", "").Replace(s)
}
