package types

// EffectID identifies an entry in the effect catalog. Cards reference
// effects by id so rule content stays data and the catalog stays the
// single place effect behavior lives.
type EffectID int

const (
	EffectNone EffectID = iota
	EffectGainWater
	EffectDrawCard
	EffectRestoreCard
	EffectDamageCard
	EffectInjurePerson
	EffectRaid
	EffectHighGround
)

func (id EffectID) String() string {
	switch id {
	case EffectNone:
		return "none"
	case EffectGainWater:
		return "gainWater"
	case EffectDrawCard:
		return "drawCard"
	case EffectRestoreCard:
		return "restoreCard"
	case EffectDamageCard:
		return "damageCard"
	case EffectInjurePerson:
		return "injurePerson"
	case EffectRaid:
		return "raid"
	case EffectHighGround:
		return "highGround"
	default:
		return "unknown"
	}
}
