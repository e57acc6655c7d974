package ai

import "github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"

//go:generate go tool mockgen -destination=./mocks/collaborators_mock.go -package=mocks . Perception,Motion,Attacker,CombatStatus,CombatNotifier

// MoveResult is the answer to a move request.
type MoveResult uint8

const (
	MoveSucceeded MoveResult = iota
	MoveAlreadyAtGoal
	MoveFailed
)

func (r MoveResult) String() string {
	switch r {
	case MoveSucceeded:
		return "succeeded"
	case MoveAlreadyAtGoal:
		return "already_at_goal"
	default:
		return "failed"
	}
}

// Perception answers visibility and position queries about the world.
type Perception interface {
	// CanSee reports whether target is within maxRange of observer with a clear line of sight.
	CanSee(observer, target combat.EntityID, maxRange float64) bool
	// Locate returns an entity's position; false when it no longer exists.
	Locate(id combat.EntityID) (combat.Vec3, bool)
}

// Motion moves an entity through the world.
type Motion interface {
	MoveTo(self combat.EntityID, goal combat.Vec3, acceptanceRadius float64) MoveResult
	Stop(self combat.EntityID)
	// Face turns self toward target without moving it.
	Face(self, target combat.EntityID)
}

// Attacker is the entity's attack capability. Its cooldown is the only one.
type Attacker interface {
	CanAttack() bool
	AttackRange() float64
	PerformAttack(target combat.EntityID, distance float64) bool
}

// CombatStatus is the owner's Combat/NonCombat status pair.
type CombatStatus interface {
	EnterCombat()
	LeaveCombat()
}

// CombatNotifier is told when an enemy starts or stops engaging.
type CombatNotifier interface {
	OnSeesTarget(id combat.EntityID)
	OnLostTarget(id combat.EntityID)
}
