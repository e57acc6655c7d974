package world

import (
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/ai"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"
)

// arena gives the weapon kit access to the world. It is only called while the
// engine lock is held.
type arena struct {
	e *Engine
}

var _ weapon.Arena = (*arena)(nil)

func (a *arena) Lookup(id combat.EntityID) (*combat.Entity, bool) { return a.e.lookup(id) }

func (a *arena) Within(center combat.Vec3, radius float64) []*combat.Entity {
	return a.e.within(center, radius)
}

func (a *arena) After(delay float64, fn func()) { a.e.scheduler.After(delay, fn) }

// enemyAttacker exposes an enemy's attack component to its AI machine.
type enemyAttacker struct {
	e    *Engine
	self *combat.Entity
}

var _ ai.Attacker = (*enemyAttacker)(nil)

func (a *enemyAttacker) CanAttack() bool {
	return a.self.Attack != nil && a.self.IsAlive() && a.self.Attack.CanAttack()
}

func (a *enemyAttacker) AttackRange() float64 { return a.self.AttackRange }

func (a *enemyAttacker) PerformAttack(target combat.EntityID, distance float64) bool {
	t, ok := a.e.lookup(target)
	if !ok || !t.IsAlive() || a.self.Attack == nil {
		return false
	}
	if err := a.self.Attack.StartAttack(target, distance, a.self.AttackRange, combat.DamagePhysical, false); err != nil {
		a.e.logger.Debug("world: enemy attack rejected", "entity", a.self.ID, "target", target, "err", err)
		return false
	}
	a.self.FaceTowards(t.Position)
	return true
}
