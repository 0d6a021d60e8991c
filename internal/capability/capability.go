// Package capability answers permission questions about players.
package capability

import (
	"github.com/retakesallocator/loadout/internal/config"
	"github.com/retakesallocator/loadout/internal/players"
)

// Provider is queried synchronously while menus are built and actions are applied.
type Provider interface {
	IsVip(p players.Player) bool
	HasEnemyEquipmentCapability(p players.Player) bool
}

// Static is a Provider backed by steam id lists from config.
type Static struct {
	vips              map[uint64]bool
	enemyStuff        map[uint64]bool
	enemyStuffVipOnly bool
}

// NewStatic builds a Provider from config. Unparseable ids are skipped.
func NewStatic(cfg config.CapabilityConfig) *Static {
	return &Static{
		vips:              identitySet(cfg.VipPlayers),
		enemyStuff:        identitySet(cfg.EnemyStuffPlayers),
		enemyStuffVipOnly: cfg.EnemyStuffVipOnly,
	}
}

func identitySet(raw []string) map[uint64]bool {
	out := make(map[uint64]bool, len(raw))
	for _, s := range raw {
		if id := players.ParseIdentity(s); id != 0 {
			out[id] = true
		}
	}
	return out
}

// IsVip implements Provider.
func (s *Static) IsVip(p players.Player) bool {
	return p.SteamID != 0 && s.vips[p.SteamID]
}

// HasEnemyEquipmentCapability implements Provider. Explicitly listed players
// always qualify; otherwise VIPs, or everyone when the preference is not VIP-only.
func (s *Static) HasEnemyEquipmentCapability(p players.Player) bool {
	if p.SteamID == 0 {
		return false
	}
	if s.enemyStuff[p.SteamID] {
		return true
	}
	if s.enemyStuffVipOnly {
		return s.IsVip(p)
	}
	return true
}
