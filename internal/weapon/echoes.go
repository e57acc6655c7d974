package weapon

import "github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"

// Echoes tracks the marked enemy that receives a share of the wielder's damage.
type Echoes struct {
	target    combat.EntityID
	remaining float64
}

// Target returns the marked entity, empty when none.
func (e *Echoes) Target() combat.EntityID { return e.target }

// Remaining returns the seconds left on the mark.
func (e *Echoes) Remaining() float64 { return e.remaining }

// Mark makes t the echo target for duration seconds, unmarking the previous one.
func (e *Echoes) Mark(arena Arena, t *combat.Entity, duration float64) {
	if e.target != "" && e.target != t.ID {
		e.Clear(arena)
	}
	e.target = t.ID
	e.remaining = duration
	t.Status.SetMarked(duration)
}

// Clear drops the mark.
func (e *Echoes) Clear(arena Arena) {
	if e.target == "" {
		return
	}
	if arena != nil {
		if t, ok := arena.Lookup(e.target); ok {
			t.Status.Remove(combat.StatusMarked)
		}
	}
	e.target = ""
	e.remaining = 0
}

// Tick expires the mark.
func (e *Echoes) Tick(arena Arena, dt float64) {
	if e.target == "" {
		return
	}
	e.remaining -= dt
	if e.remaining <= 0 {
		e.Clear(arena)
	}
}

// OnDamageDealt echoes damage dealt to another entity onto the marked target
// as Soul damage. The amount is halved before the Soul doubling so the marked
// target loses fraction of what the victim lost.
func (e *Echoes) OnDamageDealt(arena Arena, instigator combat.EntityID, victim *combat.Entity, dealt, fraction float64) {
	if e.target == "" || dealt <= 0 || victim.ID == e.target || arena == nil {
		return
	}
	marked, ok := arena.Lookup(e.target)
	if !ok || !marked.IsAlive() {
		e.target, e.remaining = "", 0
		return
	}
	if !marked.Status.Has(combat.StatusMarked) {
		return
	}

	echo := combat.DamageDescriptor{
		Amount:     dealt * fraction / 2,
		Type:       combat.DamageSoul,
		Instigator: instigator,
	}
	marked.TakeDamage(echo, combat.DirectionFromTo(victim.Position, marked.Position))
}
