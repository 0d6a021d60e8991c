package core

// EnemyStuffFlags is the raw stored bit-set for the enemy equipment preference.
// Unknown bits are tolerated and ignored by NormalizeEnemyStuff.
type EnemyStuffFlags uint8

const (
	EnemyStuffFlagTerrorist        EnemyStuffFlags = 1 << 0
	EnemyStuffFlagCounterTerrorist EnemyStuffFlags = 1 << 1
)

// Has reports whether every bit of f is set.
func (e EnemyStuffFlags) Has(f EnemyStuffFlags) bool {
	return e&f == f
}

// EnemyStuffPreference is the canonical form of EnemyStuffFlags.
type EnemyStuffPreference int

const (
	EnemyStuffNone EnemyStuffPreference = iota
	EnemyStuffTerroristOnly
	EnemyStuffCounterTerroristOnly
	EnemyStuffBoth
)

// EnemyStuffPreferences in menu order.
var EnemyStuffPreferences = []EnemyStuffPreference{
	EnemyStuffNone,
	EnemyStuffTerroristOnly,
	EnemyStuffCounterTerroristOnly,
	EnemyStuffBoth,
}

// NormalizeEnemyStuff collapses any flag combination into one canonical value.
func NormalizeEnemyStuff(flags EnemyStuffFlags) EnemyStuffPreference {
	t := flags.Has(EnemyStuffFlagTerrorist)
	ct := flags.Has(EnemyStuffFlagCounterTerrorist)
	switch {
	case t && ct:
		return EnemyStuffBoth
	case t:
		return EnemyStuffTerroristOnly
	case ct:
		return EnemyStuffCounterTerroristOnly
	default:
		return EnemyStuffNone
	}
}

// Flags returns the bit-set encoding of the canonical value.
func (p EnemyStuffPreference) Flags() EnemyStuffFlags {
	switch p {
	case EnemyStuffTerroristOnly:
		return EnemyStuffFlagTerrorist
	case EnemyStuffCounterTerroristOnly:
		return EnemyStuffFlagCounterTerrorist
	case EnemyStuffBoth:
		return EnemyStuffFlagTerrorist | EnemyStuffFlagCounterTerrorist
	default:
		return 0
	}
}

// Includes reports whether the preference shows equipment of the given team.
func (p EnemyStuffPreference) Includes(team Team) bool {
	switch team {
	case TeamTerrorist:
		return p.Flags().Has(EnemyStuffFlagTerrorist)
	case TeamCounterTerrorist:
		return p.Flags().Has(EnemyStuffFlagCounterTerrorist)
	default:
		return false
	}
}

func (p EnemyStuffPreference) String() string {
	switch p {
	case EnemyStuffTerroristOnly:
		return "TerroristOnly"
	case EnemyStuffCounterTerroristOnly:
		return "CounterTerroristOnly"
	case EnemyStuffBoth:
		return "Both"
	default:
		return "None"
	}
}

// RandomSniperWeapon is the stored sentinel for "random sniper". It never names a real item.
const RandomSniperWeapon WeaponID = "@random_sniper"

type sniperKind uint8

const (
	sniperNone sniperKind = iota
	sniperRandom
	sniperWeapon
)

// SniperPreference is none, random, or a concrete weapon.
type SniperPreference struct {
	kind   sniperKind
	weapon WeaponID
}

// NoSniper is the unset preference.
func NoSniper() SniperPreference { return SniperPreference{} }

// RandomSniper picks a sniper at random each round.
func RandomSniper() SniperPreference { return SniperPreference{kind: sniperRandom} }

// SniperWeapon prefers one concrete weapon.
func SniperWeapon(id WeaponID) SniperPreference {
	if id == "" {
		return NoSniper()
	}
	if id == RandomSniperWeapon {
		return RandomSniper()
	}
	return SniperPreference{kind: sniperWeapon, weapon: id}
}

// DecodeSniper reverses Encode.
func DecodeSniper(id WeaponID) SniperPreference {
	return SniperWeapon(id)
}

// Encode returns the stored form: "" for none, the sentinel for random.
func (s SniperPreference) Encode() WeaponID {
	switch s.kind {
	case sniperRandom:
		return RandomSniperWeapon
	case sniperWeapon:
		return s.weapon
	default:
		return ""
	}
}

func (s SniperPreference) IsSet() bool    { return s.kind != sniperNone }
func (s SniperPreference) IsRandom() bool { return s.kind == sniperRandom }

// Weapon returns the concrete weapon, if any.
func (s SniperPreference) Weapon() (WeaponID, bool) {
	return s.weapon, s.kind == sniperWeapon
}

func (s SniperPreference) String() string {
	switch s.kind {
	case sniperRandom:
		return "random"
	case sniperWeapon:
		return string(s.weapon)
	default:
		return "none"
	}
}

// UserLoadoutSettings is what the store holds for one player identity.
// A nil *UserLoadoutSettings means "all defaults".
type UserLoadoutSettings struct {
	PlayerID          uint64
	WeaponPreferences map[Team]map[AllocationType]WeaponID
	ZeusEnabled       bool
	EnemyStuff        EnemyStuffFlags
}

// NewUserLoadoutSettings returns empty settings for a player.
func NewUserLoadoutSettings(playerID uint64) *UserLoadoutSettings {
	return &UserLoadoutSettings{
		PlayerID:          playerID,
		WeaponPreferences: make(map[Team]map[AllocationType]WeaponID),
	}
}

// WeaponPreference returns the explicit preference for a key. Safe on nil receiver.
func (s *UserLoadoutSettings) WeaponPreference(team Team, category AllocationType) (WeaponID, bool) {
	if s == nil {
		return "", false
	}
	byType, ok := s.WeaponPreferences[team]
	if !ok {
		return "", false
	}
	w, ok := byType[category]
	if !ok || w == "" {
		return "", false
	}
	return w, true
}

// SetWeaponPreference sets or clears (empty weapon) one key.
func (s *UserLoadoutSettings) SetWeaponPreference(team Team, category AllocationType, weapon WeaponID) {
	if s.WeaponPreferences == nil {
		s.WeaponPreferences = make(map[Team]map[AllocationType]WeaponID)
	}
	byType, ok := s.WeaponPreferences[team]
	if !ok {
		byType = make(map[AllocationType]WeaponID)
		s.WeaponPreferences[team] = byType
	}
	if weapon == "" {
		delete(byType, category)
		return
	}
	byType[category] = weapon
}

// PreferredSniper reads the Preferred slot for a team.
func (s *UserLoadoutSettings) PreferredSniper(team Team) SniperPreference {
	w, _ := s.WeaponPreference(team, Preferred)
	return DecodeSniper(w)
}

// EnemyStuffPreference returns the normalized enemy equipment preference. Safe on nil receiver.
func (s *UserLoadoutSettings) EnemyStuffPreference() EnemyStuffPreference {
	if s == nil {
		return EnemyStuffNone
	}
	return NormalizeEnemyStuff(s.EnemyStuff)
}

// Clone returns a deep copy.
func (s *UserLoadoutSettings) Clone() *UserLoadoutSettings {
	if s == nil {
		return nil
	}
	out := NewUserLoadoutSettings(s.PlayerID)
	out.ZeusEnabled = s.ZeusEnabled
	out.EnemyStuff = s.EnemyStuff
	for team, byType := range s.WeaponPreferences {
		for category, w := range byType {
			out.SetWeaponPreference(team, category, w)
		}
	}
	return out
}
