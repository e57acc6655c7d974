package world

import (
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/ai"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
)

// Occluder is a sphere that blocks line of sight.
type Occluder struct {
	Center combat.Vec3 `json:"center"`
	Radius float64     `json:"radius"`
}

// Blocks reports whether the segment from a to b passes through the sphere.
func (o Occluder) Blocks(a, b combat.Vec3) bool {
	ab := b.Sub(a)
	t := 0.0
	if l2 := ab.Dot(ab); l2 > 0 {
		t = o.Center.Sub(a).Dot(ab) / l2
		t = max(0, min(1, t))
	}
	closest := a.Add(ab.Scale(t))
	return closest.Distance(o.Center) < o.Radius
}

type lookupFunc func(id combat.EntityID) (*combat.Entity, bool)

// Perception answers AI visibility queries against the engine's entities.
type Perception struct {
	lookup    lookupFunc
	occluders *[]Occluder
}

var _ ai.Perception = (*Perception)(nil)

// CanSee is true when target is alive, within maxRange and not hidden by an occluder.
func (p *Perception) CanSee(observer, target combat.EntityID, maxRange float64) bool {
	o, ok := p.lookup(observer)
	if !ok {
		return false
	}
	t, ok := p.lookup(target)
	if !ok || !t.IsAlive() {
		return false
	}
	if o.Position.Distance(t.Position) > maxRange {
		return false
	}
	for _, occ := range *p.occluders {
		if occ.Blocks(o.Position, t.Position) {
			return false
		}
	}
	return true
}

// Locate returns the position of an entity still in the world.
func (p *Perception) Locate(id combat.EntityID) (combat.Vec3, bool) {
	e, ok := p.lookup(id)
	if !ok {
		return combat.Vec3{}, false
	}
	return e.Position, true
}
