package world

import (
	"sort"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/ai"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
)

type moveGoal struct {
	goal   combat.Vec3
	accept float64
}

// Motion walks entities toward their goals at a fixed speed.
type Motion struct {
	lookup lookupFunc
	speed  float64
	goals  map[combat.EntityID]moveGoal
}

var _ ai.Motion = (*Motion)(nil)

func newMotion(lookup lookupFunc, speed float64) *Motion {
	return &Motion{lookup: lookup, speed: speed, goals: make(map[combat.EntityID]moveGoal)}
}

// MoveTo replaces self's goal. The entity moves on the following Steps.
func (m *Motion) MoveTo(self combat.EntityID, goal combat.Vec3, acceptanceRadius float64) ai.MoveResult {
	e, ok := m.lookup(self)
	if !ok || !e.IsAlive() || m.speed <= 0 {
		return ai.MoveFailed
	}
	if e.Position.Distance(goal) <= acceptanceRadius {
		delete(m.goals, self)
		return ai.MoveAlreadyAtGoal
	}
	m.goals[self] = moveGoal{goal: goal, accept: acceptanceRadius}
	return ai.MoveSucceeded
}

// Stop clears self's goal.
func (m *Motion) Stop(self combat.EntityID) {
	delete(m.goals, self)
}

// Face turns self toward a living target. Position is untouched.
func (m *Motion) Face(self, target combat.EntityID) {
	e, ok := m.lookup(self)
	if !ok || !e.IsAlive() {
		return
	}
	t, ok := m.lookup(target)
	if !ok || !t.IsAlive() {
		return
	}
	e.FaceTowards(t.Position)
}

// Moving reports whether self has a goal.
func (m *Motion) Moving(self combat.EntityID) bool {
	_, ok := m.goals[self]
	return ok
}

// Step advances every mover by speed*dt, stopping at its acceptance radius.
func (m *Motion) Step(dt float64) {
	ids := make([]combat.EntityID, 0, len(m.goals))
	for id := range m.goals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		g := m.goals[id]
		e, ok := m.lookup(id)
		if !ok || !e.IsAlive() {
			delete(m.goals, id)
			continue
		}

		remaining := e.Position.Distance(g.goal) - g.accept
		if remaining <= 0 {
			delete(m.goals, id)
			continue
		}
		dir := combat.DirectionFromTo(e.Position, g.goal)
		step := min(m.speed*dt, remaining)
		e.Position = e.Position.Add(dir.Scale(step))
		e.Forward = dir
		if step >= remaining {
			delete(m.goals, id)
		}
	}
}
