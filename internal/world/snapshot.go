package world

import (
	"sort"
	"time"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/shard"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"
)

// EntitySnapshot is the read-only view of one entity.
type EntitySnapshot struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Kind      string           `json:"kind"`
	Preset    string           `json:"preset,omitempty"`
	Position  combat.Vec3      `json:"position"`
	Forward   combat.Vec3      `json:"forward"`
	Resources combat.Resources `json:"resources"`
	Tags      []string         `json:"tags"`
	Status    []string         `json:"status"`
	Alive     bool             `json:"alive"`

	AIState string `json:"aiState,omitempty"`
	Target  string `json:"target,omitempty"`

	Casting      bool    `json:"casting"`
	CastProgress float64 `json:"castProgress,omitempty"`
	CastZone     string  `json:"castZone,omitempty"`
	Cooldown     float64 `json:"cooldown"`
}

// PlayerSnapshot carries the player-only state the UI renders.
type PlayerSnapshot struct {
	ID         string  `json:"id"`
	Weapon     string  `json:"weapon"`
	QCooldown  float64 `json:"qCooldown"`
	ECooldown  float64 `json:"eCooldown"`
	EchoTarget string  `json:"echoTarget,omitempty"`

	Defending       bool    `json:"defending"`
	DefenseProgress float64 `json:"defenseProgress,omitempty"`
	DefenseZone     string  `json:"defenseZone,omitempty"`

	Shards      map[string]shard.Inventory `json:"shards"`
	Stance      string                     `json:"stance"`
	Multipliers map[string]float64         `json:"multipliers"`
}

// CombatSnapshot is the aggregate combat state.
type CombatSnapshot struct {
	InCombat     bool `json:"inCombat"`
	AlertedCount int  `json:"alertedCount"`
	Registered   int  `json:"registered"`
}

// AltarSnapshot describes one shard altar.
type AltarSnapshot struct {
	ID         string      `json:"id"`
	Category   string      `json:"category"`
	Position   combat.Vec3 `json:"position"`
	Activating bool        `json:"activating"`
	Progress   float64     `json:"progress,omitempty"`
}

// PickupSnapshot describes one shard pickup.
type PickupSnapshot struct {
	ID        string      `json:"id"`
	Category  string      `json:"category"`
	Position  combat.Vec3 `json:"position"`
	Available bool        `json:"available"`
}

// Snapshot is an immutable copy of the world published after every step.
// Readers must not modify it.
type Snapshot struct {
	Sequence  uint64  `json:"sequence"`
	Timestamp int64   `json:"timestamp"` // Unix milli
	Tick      uint64  `json:"tick"`
	Time      float64 `json:"time"` // Simulation seconds

	Entities  []EntitySnapshot `json:"entities"` // Sorted by ID
	Player    *PlayerSnapshot  `json:"player,omitempty"`
	Combat    CombatSnapshot   `json:"combat"`
	Altars    []AltarSnapshot  `json:"altars,omitempty"`
	Pickups   []PickupSnapshot `json:"pickups,omitempty"`
	Occluders []Occluder       `json:"occluders,omitempty"`
}

// Entity finds an entity by ID.
func (s *Snapshot) Entity(id string) (EntitySnapshot, bool) {
	i := sort.Search(len(s.Entities), func(i int) bool { return s.Entities[i].ID >= id })
	if i < len(s.Entities) && s.Entities[i].ID == id {
		return s.Entities[i], true
	}
	return EntitySnapshot{}, false
}

// Enemies returns the entities of kind enemy.
func (s *Snapshot) Enemies() []EntitySnapshot {
	out := make([]EntitySnapshot, 0, len(s.Entities))
	for _, e := range s.Entities {
		if e.Kind == string(combat.KindEnemy) {
			out = append(out, e)
		}
	}
	return out
}

// publish copies the world into a new snapshot. Callers hold the engine lock.
func (e *Engine) publish() {
	e.sequence++
	s := &Snapshot{
		Sequence:  e.sequence,
		Timestamp: time.Now().UnixMilli(),
		Tick:      e.tick,
		Time:      e.scheduler.Now(),
		Entities:  make([]EntitySnapshot, 0, len(e.order)),
		Combat: CombatSnapshot{
			InCombat:     e.tracker.InCombat(),
			AlertedCount: e.tracker.AlertedCount(),
			Registered:   e.tracker.RegisteredCount(),
		},
		Occluders: append([]Occluder(nil), e.occluders...),
	}

	for _, id := range e.order {
		s.Entities = append(s.Entities, e.entitySnapshot(e.entities[id]))
	}
	if e.player != nil {
		s.Player = e.playerSnapshot()
	}
	for _, a := range e.altars {
		s.Altars = append(s.Altars, AltarSnapshot{
			ID:         a.ID,
			Category:   a.Config().Category.String(),
			Position:   a.Position,
			Activating: a.Activating(),
			Progress:   a.Progress(),
		})
	}
	for _, p := range e.pickups {
		s.Pickups = append(s.Pickups, PickupSnapshot{
			ID:        p.ID,
			Category:  p.Category.String(),
			Position:  p.Position,
			Available: p.Available(),
		})
	}

	e.snapshot.Store(s)
}

func (e *Engine) entitySnapshot(ent *combat.Entity) EntitySnapshot {
	es := EntitySnapshot{
		ID:        string(ent.ID),
		Name:      ent.Name,
		Kind:      string(ent.Kind),
		Preset:    ent.Preset,
		Position:  ent.Position,
		Forward:   ent.Forward,
		Resources: ent.Resources.Get(),
		Tags:      ent.Tags.Tags().Names(),
		Status:    ent.Status.Flags().Names(),
		Alive:     ent.IsAlive(),
	}
	if m, ok := e.machines[ent.ID]; ok {
		es.AIState = m.Current().String()
		es.Target = string(m.Target())
	}
	if a := ent.Attack; a != nil {
		es.Casting = a.IsCasting()
		es.Cooldown = a.CooldownRemaining()
		if es.Casting {
			es.CastProgress = a.CastProgress()
			es.CastZone = a.CastZone().String()
		}
	}
	return es
}

func (e *Engine) playerSnapshot() *PlayerSnapshot {
	ps := &PlayerSnapshot{
		ID:          string(e.player.ID),
		Shards:      make(map[string]shard.Inventory, len(shard.Categories)),
		Stance:      e.shards.Stance().String(),
		Multipliers: make(map[string]float64, len(shard.Categories)),
	}
	for _, c := range shard.Categories {
		ps.Shards[c.String()] = e.shards.Counts(c)
		ps.Multipliers[c.String()] = e.shards.Multiplier(c)
	}
	if e.kit != nil {
		ps.Weapon = string(e.kit.Name())
		ps.QCooldown = e.kit.Cooldown(weapon.SlotQ)
		ps.ECooldown = e.kit.Cooldown(weapon.SlotE)
		ps.EchoTarget = string(e.kit.Echoes().Target())
	}
	if d := e.player.Defense; d != nil && d.Active() {
		ps.Defending = true
		ps.DefenseProgress = d.Progress()
		ps.DefenseZone = d.Zone().String()
	}
	return ps
}
