// Package world runs the combat core as a fixed-rate simulation: entities, enemy
// AI, the player's weapon kit, shards and the built-in perception, motion and
// scheduling collaborators.
package world

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/ai"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/shard"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/stats"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/tracker"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"
)

// timeEpsilon absorbs float drift when comparing simulation times.
const timeEpsilon = 1e-9

// PlayerID is the fixed identity of the player entity. Shards and the combat
// tracker are attributed to it across respawns.
const PlayerID combat.EntityID = "player"

var (
	ErrUnknownEntity = errors.New("world: unknown entity")
	ErrUnknownPreset = errors.New("world: unknown preset")
	ErrUnknownWeapon = errors.New("world: unknown weapon")
	ErrUnknownAltar  = errors.New("world: unknown altar")
	ErrNoPlayer      = errors.New("world: no living player")
)

// Options configures an Engine.
type Options struct {
	Balance  config.BalanceConfig
	TickRate int
	Tables   *stats.Tables // Defaults to the embedded tables
	Bus      *events.Bus   // Created when nil
	Logger   *slog.Logger
}

// Engine owns every entity and is the only writer. Commands and Step take the
// engine mutex; readers use the snapshot published at the end of each step.
type Engine struct {
	mu       sync.Mutex
	balance  config.BalanceConfig
	tickRate int
	tables   *stats.Tables
	bus      *events.Bus
	logger   *slog.Logger

	entities map[combat.EntityID]*combat.Entity
	order    []combat.EntityID // Sorted; update order for AI
	machines map[combat.EntityID]*ai.Machine

	player  *combat.Entity
	kit     *weapon.Kit
	kits    map[weapon.Name]*weapon.Kit
	shards  *shard.Progression
	tracker *tracker.Tracker

	altars    []*shard.Altar
	pickups   []*shard.Pickup
	occluders []Occluder

	scheduler  *Scheduler
	grid       *Grid
	gridDirty  bool
	perception *Perception
	motion     *Motion
	arena      *arena

	tick     uint64
	sequence uint64
	snapshot atomic.Pointer[Snapshot]

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	onTick       func(time.Duration)
	onDamage     func(events.DamagePayload)
	onDeath      func(id string, kind combat.Kind)
	onTransition func(from, to string)
}

// New creates an empty world and publishes its first snapshot.
func New(opts Options) *Engine {
	if opts.TickRate <= 0 {
		opts.TickRate = config.DefaultSim().TickRate
	}
	if opts.Tables == nil {
		opts.Tables = stats.Default()
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	e := &Engine{
		balance:   opts.Balance,
		tickRate:  opts.TickRate,
		tables:    opts.Tables,
		bus:       opts.Bus,
		logger:    opts.Logger,
		entities:  make(map[combat.EntityID]*combat.Entity),
		machines:  make(map[combat.EntityID]*ai.Machine),
		kits:      make(map[weapon.Name]*weapon.Kit),
		scheduler: NewScheduler(),
		grid:      NewGrid(opts.Balance.Combat.AreaDamageRadius),
		stopChan:  make(chan struct{}),
	}
	e.shards = shard.NewProgression(PlayerID, opts.Balance.Shards, e.bus)
	e.tracker = tracker.New(string(PlayerID), e.bus, e.logger)
	e.perception = &Perception{lookup: e.lookup, occluders: &e.occluders}
	e.motion = newMotion(e.lookup, opts.Balance.AI.MoveSpeed)
	e.arena = &arena{e: e}
	e.bus.Subscribe(e.dispatch)

	e.publish()
	return e
}

// Start runs Step at the tick rate until Stop.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))
	dt := 1.0 / float64(e.tickRate)

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.Step(dt)
			case <-e.stopChan:
				return
			}
		}
	}()

	e.logger.Info("world: engine started", "tps", e.tickRate)
}

// Stop halts the loop. The engine cannot be restarted.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	e.logger.Info("world: engine stopped", "ticks", e.tick)
}

// Running reports whether the loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// TickRate returns the configured steps per second.
func (e *Engine) TickRate() int { return e.tickRate }

// Bus returns the event bus every component publishes on.
func (e *Engine) Bus() *events.Bus { return e.bus }

// Tables returns the stat tables entities are built from.
func (e *Engine) Tables() *stats.Tables { return e.tables }

// Snapshot returns the most recently published world state.
func (e *Engine) Snapshot() *Snapshot { return e.snapshot.Load() }

// SetCallbacks registers hooks for metrics. Any may be nil.
func (e *Engine) SetCallbacks(onTick func(time.Duration), onDamage func(events.DamagePayload), onDeath func(id string, kind combat.Kind), onTransition func(from, to string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = onTick
	e.onDamage = onDamage
	e.onDeath = onDeath
	e.onTransition = onTransition
}

// Step advances the world by dt seconds.
func (e *Engine) Step(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.step(dt)
}

func (e *Engine) step(dt float64) {
	start := time.Now()

	e.tick++
	e.bus.SetTick(e.tick)
	e.bus.Emit(events.EventTypeTick, "", events.TickPayload{
		EntityCount: len(e.order),
		DeltaTimeNs: int64(dt * float64(time.Second)),
	})
	e.gridDirty = true

	ents := e.ordered()
	for _, ent := range ents {
		ent.Status.Tick(dt)
	}
	for _, ent := range ents {
		if s, ok := ent.TickAttack(dt); ok {
			e.executeStrike(ent, s)
		}
	}
	for _, ent := range ents {
		if out, dealt, expired := ent.TickDefense(dt); expired {
			e.logger.Debug("world: reaction expired", "entity", ent.ID, "zone", out.Zone, "dealt", dealt)
		}
	}
	if e.kit != nil {
		e.kit.Tick(dt)
		e.gridDirty = true
	}
	e.scheduler.Advance(dt)

	for _, id := range e.order {
		m, ok := e.machines[id]
		if !ok || !e.entities[id].IsAlive() {
			continue
		}
		m.Update(dt)
	}
	e.motion.Step(dt)
	e.gridDirty = true

	e.tickPickups(dt)
	e.tickAltars(dt)
	e.removeDead()
	e.publish()

	if e.onTick != nil {
		e.onTick(time.Since(start))
	}
}

// executeStrike lands a finished cast. The player's strikes go through the
// weapon kit; enemy strikes give their victims a chance to react.
func (e *Engine) executeStrike(attacker *combat.Entity, s combat.Strike) {
	if attacker.ID == PlayerID && e.kit != nil {
		e.kit.ExecuteStrike(s)
		return
	}

	target, ok := e.lookup(s.Target)
	if !ok || !target.IsAlive() {
		e.logger.Debug("world: strike target gone", "attacker", attacker.ID, "target", s.Target)
		return
	}

	victims := []*combat.Entity{target}
	if s.Damage.IsAreaDamage {
		victims = e.within(target.Position, e.balance.Combat.AreaDamageRadius)
	}

	total, hits := 0.0, 0
	for _, v := range victims {
		if v.ID == attacker.ID {
			continue
		}
		dealt, _ := v.ReceiveStrike(s.Damage, combat.DirectionFromTo(attacker.Position, v.Position))
		total += dealt
		hits++
	}

	e.bus.Emit(events.EventTypeAttackExecuted, string(attacker.ID), events.AttackPayload{
		TargetID:   string(s.Target),
		DamageType: s.Damage.Type.String(),
		Amount:     total,
		IsArea:     s.Damage.IsAreaDamage,
		Hits:       hits,
	})
}

func (e *Engine) tickPickups(dt float64) {
	kept := e.pickups[:0]
	for _, p := range e.pickups {
		p.Tick(dt)
		if e.player != nil && e.player.IsAlive() && p.Available() &&
			e.player.Position.Distance(p.Position) <= p.Radius {
			p.TryCollect(e.shards)
		}
		if !p.Consumed() {
			kept = append(kept, p)
		}
	}
	e.pickups = kept
}

func (e *Engine) tickAltars(dt float64) {
	for _, a := range e.altars {
		if !a.Activating() {
			continue
		}
		if e.player == nil || !e.player.IsAlive() || e.player.Position.Distance(a.Position) > altarReach {
			a.Cancel()
			continue
		}
		a.Tick(dt)
	}
}

// removeDead drops dead enemies. The player's body stays until respawn.
func (e *Engine) removeDead() {
	var dead []combat.EntityID
	for _, id := range e.order {
		ent := e.entities[id]
		if ent.Kind == combat.KindEnemy && !ent.IsAlive() {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		e.remove(id)
	}
}

func (e *Engine) dispatch(ev events.Event) {
	switch ev.Type {
	case events.EventTypeDamageDealt:
		if e.onDamage == nil {
			return
		}
		var p events.DamagePayload
		if err := ev.Decode(&p); err == nil {
			e.onDamage(p)
		}
	case events.EventTypeDeath:
		if e.onDeath == nil {
			return
		}
		kind := combat.KindEnemy
		if combat.EntityID(ev.EntityID) == PlayerID {
			kind = combat.KindPlayer
		}
		e.onDeath(ev.EntityID, kind)
	case events.EventTypeAIStateChanged:
		if e.onTransition == nil {
			return
		}
		var p events.AIStatePayload
		if err := ev.Decode(&p); err == nil {
			e.onTransition(p.From, p.To)
		}
	}
}

func (e *Engine) lookup(id combat.EntityID) (*combat.Entity, bool) {
	ent, ok := e.entities[id]
	return ent, ok
}

func (e *Engine) ordered() []*combat.Entity {
	out := make([]*combat.Entity, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.entities[id])
	}
	return out
}

func (e *Engine) add(ent *combat.Entity) {
	e.entities[ent.ID] = ent
	i := sort.Search(len(e.order), func(i int) bool { return e.order[i] >= ent.ID })
	e.order = append(e.order, "")
	copy(e.order[i+1:], e.order[i:])
	e.order[i] = ent.ID
	e.gridDirty = true

	e.bus.Emit(events.EventTypeEntitySpawned, string(ent.ID), events.SpawnPayload{
		Name:   ent.Name,
		Kind:   string(ent.Kind),
		Preset: ent.Preset,
	})
}

func (e *Engine) remove(id combat.EntityID) {
	if _, ok := e.entities[id]; !ok {
		return
	}
	delete(e.entities, id)
	if i := sort.Search(len(e.order), func(i int) bool { return e.order[i] >= id }); i < len(e.order) && e.order[i] == id {
		e.order = append(e.order[:i], e.order[i+1:]...)
	}
	delete(e.machines, id)
	e.motion.Stop(id)
	e.tracker.Unregister(id)
	e.gridDirty = true

	e.bus.Emit(events.EventTypeEntityRemoved, string(id), nil)
}

// within returns living entities inside radius of center, sorted by ID.
func (e *Engine) within(center combat.Vec3, radius float64) []*combat.Entity {
	if e.gridDirty {
		e.grid.Clear()
		for i, id := range e.order {
			p := e.entities[id].Position
			e.grid.Insert(uint32(i), p.X, p.Y)
		}
		e.gridDirty = false
	}

	var out []*combat.Entity
	for _, i := range e.grid.QueryRadius(center.X, center.Y, radius) {
		ent := e.entities[e.order[i]]
		if ent.IsAlive() && ent.Position.Distance(center) <= radius {
			out = append(out, ent)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GridStats reports spatial grid occupancy.
func (e *Engine) GridStats() GridStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Stats()
}
