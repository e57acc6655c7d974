// Package tracker aggregates per-enemy alert state into a single in-combat flag.
package tracker

import (
	"log/slog"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
)

// PlayerStatus receives the aggregate flag as the player's combat status.
type PlayerStatus interface {
	EnterCombat()
	LeaveCombat()
}

// Tracker holds the registered and alerted enemy sets.
// It implements ai.CombatNotifier.
type Tracker struct {
	subject    string
	registered map[combat.EntityID]struct{}
	alerted    map[combat.EntityID]struct{}
	inCombat   bool

	player PlayerStatus
	bus    *events.Bus
	logger *slog.Logger
}

// New creates a tracker out of combat. subject names the entity that events are attributed to.
func New(subject string, bus *events.Bus, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		subject:    subject,
		registered: make(map[combat.EntityID]struct{}),
		alerted:    make(map[combat.EntityID]struct{}),
		bus:        bus,
		logger:     logger,
	}
}

// SetPlayer attaches the status that mirrors the aggregate flag and syncs it.
func (t *Tracker) SetPlayer(p PlayerStatus) {
	t.player = p
	t.syncPlayer()
}

// Register starts tracking an enemy.
func (t *Tracker) Register(id combat.EntityID) {
	t.registered[id] = struct{}{}
}

// Unregister forgets an enemy and re-evaluates the aggregate.
func (t *Tracker) Unregister(id combat.EntityID) {
	delete(t.registered, id)
	delete(t.alerted, id)
	t.update()
}

// OnSeesTarget marks an enemy alerted.
func (t *Tracker) OnSeesTarget(id combat.EntityID) {
	t.alerted[id] = struct{}{}
	t.update()
}

// OnLostTarget clears an enemy's alert.
func (t *Tracker) OnLostTarget(id combat.EntityID) {
	delete(t.alerted, id)
	t.update()
}

// InCombat reports whether any enemy is alerted.
func (t *Tracker) InCombat() bool { return t.inCombat }

// AlertedCount returns how many enemies are alerted.
func (t *Tracker) AlertedCount() int { return len(t.alerted) }

// RegisteredCount returns how many enemies are tracked.
func (t *Tracker) RegisteredCount() int { return len(t.registered) }

// IsAlerted reports whether id is in the alerted set.
func (t *Tracker) IsAlerted(id combat.EntityID) bool {
	_, ok := t.alerted[id]
	return ok
}

func (t *Tracker) update() {
	next := len(t.alerted) > 0
	if next == t.inCombat {
		return
	}
	t.inCombat = next
	t.syncPlayer()

	t.logger.Info("tracker: combat state changed", "inCombat", next, "alerted", len(t.alerted))
	t.bus.Emit(events.EventTypeCombatStateChanged, t.subject, events.CombatStatePayload{
		InCombat:     next,
		AlertedCount: len(t.alerted),
	})
}

func (t *Tracker) syncPlayer() {
	if t.player == nil {
		return
	}
	if t.inCombat {
		t.player.EnterCombat()
	} else {
		t.player.LeaveCombat()
	}
}
