package combat

// CounterResult names what a counter-attack did to its target.
type CounterResult uint8

const (
	CounterNone        CounterResult = iota
	CounterShieldStrip               // Shielded tag removed
	CounterArmorBreak                // Defence reduced
)

func (c CounterResult) String() string {
	switch c {
	case CounterShieldStrip:
		return "shield_strip"
	case CounterArmorBreak:
		return "armor_break"
	default:
		return "none"
	}
}

// CounterAttack strips a shield if the target has one, otherwise reduces an
// armored target's defence by the given fraction. Anything else is unaffected.
func CounterAttack(target *Entity, reduction float64) CounterResult {
	if target == nil || !target.IsAlive() {
		return CounterNone
	}

	switch {
	case target.Tags.Has(TagShielded):
		target.Tags.Remove(TagShielded)
		return CounterShieldStrip

	case target.Tags.Has(TagArmored):
		res := target.Resources.Get()
		res.DefencePoint *= 1 - reduction
		target.Resources.SetResources(res)
		return CounterArmorBreak

	default:
		return CounterNone
	}
}
