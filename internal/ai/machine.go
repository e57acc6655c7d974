// Package ai drives enemies with a small finite-state controller.
//
// The machine is a tagged union over Idle, Chase and Attack: one StateID plus
// the fields every state shares, with enter/update/exit dispatched by switch.
// Perception, motion and attacking are external collaborators; a missing one
// makes the current state skip its work for the tick instead of failing.
package ai

import (
	"log/slog"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
)

// StateID names an AI state.
type StateID uint8

const (
	StateNone StateID = iota // Before Initialize
	StateIdle
	StateChase
	StateAttack
)

func (s StateID) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	default:
		return "none"
	}
}

// Deps wires a Machine to its collaborators. Any of them may be nil.
type Deps struct {
	Perception Perception
	Motion     Motion
	Attacker   Attacker
	Status     CombatStatus
	Notifier   CombatNotifier
	Bus        *events.Bus
	Logger     *slog.Logger
}

// Machine is one enemy's controller.
type Machine struct {
	self       combat.EntityID
	cfg        config.AIConfig
	sightRange float64
	deps       Deps
	logger     *slog.Logger

	current StateID
	quarry  combat.EntityID // Who Idle looks for
	target  combat.EntityID // Who Chase and Attack pursue; empty when lost

	detectTimer float64
	pathTimer   float64

	onTransition func(from, to StateID)
}

// NewMachine creates an uninitialized machine. It stays inert until Initialize.
func NewMachine(self combat.EntityID, sightRange float64, cfg config.AIConfig, deps Deps) *Machine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if sightRange <= 0 {
		sightRange = cfg.SightRange
	}
	return &Machine{
		self:       self,
		cfg:        cfg,
		sightRange: sightRange,
		deps:       deps,
		logger:     logger.With("entity", string(self)),
	}
}

// OnTransition registers a hook called after every state change.
func (m *Machine) OnTransition(fn func(from, to StateID)) { m.onTransition = fn }

// Initialize sets who the enemy looks for and enters Idle.
func (m *Machine) Initialize(quarry combat.EntityID) {
	m.quarry = quarry
	if m.current == StateNone {
		m.ChangeState(StateIdle)
	}
}

// SetQuarry changes who Idle looks for, e.g. after the player respawns.
func (m *Machine) SetQuarry(id combat.EntityID) { m.quarry = id }

// Current returns the active state.
func (m *Machine) Current() StateID { return m.current }

// Target returns the pursued entity, empty outside Chase and Attack.
func (m *Machine) Target() combat.EntityID { return m.target }

// ClearTarget drops the pursued entity. The next update reacts to the loss.
func (m *Machine) ClearTarget() { m.target = "" }

// ChangeState exits the current state and enters next. Changing to the
// current state is a no-op.
func (m *Machine) ChangeState(next StateID) {
	if next == m.current || next == StateNone {
		return
	}
	prev := m.current
	m.exit(prev)
	m.current = next
	m.enter(next)

	m.logger.Debug("ai: state change", "from", prev.String(), "to", next.String(), "target", string(m.target))
	m.deps.Bus.Emit(events.EventTypeAIStateChanged, string(m.self), events.AIStatePayload{
		From:     prev.String(),
		To:       next.String(),
		TargetID: string(m.target),
	})
	if m.onTransition != nil {
		m.onTransition(prev, next)
	}
}

// Update runs the active state for one tick.
func (m *Machine) Update(dt float64) {
	switch m.current {
	case StateIdle:
		m.updateIdle(dt)
	case StateChase:
		m.updateChase(dt)
	case StateAttack:
		m.updateAttack()
	}
}

func (m *Machine) enter(s StateID) {
	switch s {
	case StateIdle:
		m.detectTimer = 0
		if m.deps.Status != nil {
			m.deps.Status.LeaveCombat()
		}

	case StateChase:
		m.pathTimer = 0
		if m.deps.Status != nil {
			m.deps.Status.EnterCombat()
		}
		if m.deps.Notifier != nil {
			m.deps.Notifier.OnSeesTarget(m.self)
		}
		m.updatePath()

	case StateAttack:
		if m.deps.Motion != nil {
			m.deps.Motion.Stop(m.self)
		}
		if m.deps.Status != nil {
			m.deps.Status.EnterCombat()
		}
	}
}

func (m *Machine) exit(s StateID) {
	if s == StateChase && m.deps.Motion != nil {
		m.deps.Motion.Stop(m.self)
	}
}

// =============================================================================
// IDLE
// =============================================================================

func (m *Machine) updateIdle(dt float64) {
	m.detectTimer += dt
	if m.detectTimer < m.cfg.DetectionCheckInterval {
		return
	}
	m.detectTimer = 0

	if m.deps.Perception == nil || m.quarry == "" {
		m.logger.Debug("ai: idle skipped detection", "perception", m.deps.Perception != nil, "quarry", string(m.quarry))
		return
	}
	if m.deps.Perception.CanSee(m.self, m.quarry, m.sightRange) {
		m.target = m.quarry
		m.ChangeState(StateChase)
	}
}

// =============================================================================
// CHASE
// =============================================================================

func (m *Machine) updateChase(dt float64) {
	if m.target == "" {
		m.loseTarget()
		return
	}
	if m.deps.Perception == nil {
		m.logger.Debug("ai: chase skipped, no perception")
		return
	}

	dist, ok := m.distanceToTarget()
	if !ok || m.hasLostTarget(dist) {
		m.loseTarget()
		return
	}
	m.faceTarget()

	if m.inAttackRange(dist) {
		m.ChangeState(StateAttack)
		return
	}

	m.pathTimer += dt
	if m.pathTimer >= m.cfg.PathUpdateInterval {
		m.pathTimer = 0
		m.updatePath()
	}
}

// hasLostTarget is true beyond the lost distance or without line of sight.
// Sight is tested against the lost distance, not the detection range.
func (m *Machine) hasLostTarget(dist float64) bool {
	if dist > m.cfg.LostTargetDistance {
		return true
	}
	return !m.deps.Perception.CanSee(m.self, m.target, m.cfg.LostTargetDistance)
}

func (m *Machine) updatePath() {
	if m.deps.Motion == nil || m.deps.Perception == nil || m.target == "" {
		m.logger.Debug("ai: path update skipped", "motion", m.deps.Motion != nil, "target", string(m.target))
		return
	}
	goal, ok := m.deps.Perception.Locate(m.target)
	if !ok {
		return
	}
	if res := m.deps.Motion.MoveTo(m.self, goal, m.cfg.AcceptanceRadius); res == MoveFailed {
		m.logger.Debug("ai: move request failed", "target", string(m.target))
	}
}

// =============================================================================
// ATTACK
// =============================================================================

func (m *Machine) updateAttack() {
	if m.target == "" {
		m.loseTarget()
		return
	}
	if m.deps.Perception == nil {
		m.logger.Debug("ai: attack skipped, no perception")
		return
	}

	// Attack is only entered with a live, visible target. Anything else here
	// means the target died or vanished under us.
	dist, ok := m.distanceToTarget()
	if !ok || m.hasLostTarget(dist) {
		m.logger.Warn("ai: attack target no longer valid, dropping it", "target", string(m.target), "located", ok)
		m.loseTarget()
		return
	}
	m.faceTarget()

	if !m.inAttackRange(dist) {
		m.ChangeState(StateChase)
		return
	}

	if m.deps.Attacker == nil {
		return
	}
	if m.deps.Attacker.CanAttack() {
		m.deps.Attacker.PerformAttack(m.target, dist)
	}
}

// =============================================================================
// SHARED
// =============================================================================

func (m *Machine) loseTarget() {
	m.target = ""
	if m.deps.Notifier != nil {
		m.deps.Notifier.OnLostTarget(m.self)
	}
	m.ChangeState(StateIdle)
}

func (m *Machine) faceTarget() {
	if m.deps.Motion != nil {
		m.deps.Motion.Face(m.self, m.target)
	}
}

func (m *Machine) distanceToTarget() (float64, bool) {
	self, ok := m.deps.Perception.Locate(m.self)
	if !ok {
		return 0, false
	}
	other, ok := m.deps.Perception.Locate(m.target)
	if !ok {
		return 0, false
	}
	return self.Distance(other), true
}

func (m *Machine) inAttackRange(dist float64) bool {
	if m.deps.Attacker == nil {
		return false
	}
	return dist <= m.deps.Attacker.AttackRange()
}
