package weapon

import (
	"errors"
	"log/slog"
	"math"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
)

var (
	ErrAbilityCooldown    = errors.New("weapon: ability on cooldown")
	ErrAbilityUnavailable = errors.New("weapon: ability unavailable")
)

// pullStopDistance is how close Gravity Pull drags a target to the wielder.
const pullStopDistance = 150.0

// Arena is the world as seen by a weapon.
type Arena interface {
	Lookup(id combat.EntityID) (*combat.Entity, bool)
	// Within returns living entities whose position is within radius of center.
	Within(center combat.Vec3, radius float64) []*combat.Entity
	// After runs fn once, delay seconds of simulation time from now.
	After(delay float64, fn func())
}

// DamageScaler scales outgoing damage, e.g. by active shards.
type DamageScaler interface {
	MultiplierFor(t combat.DamageType) float64
}

type pull struct {
	target    combat.EntityID
	velocity  combat.Vec3
	remaining float64
}

// Kit is a weapon held by an entity.
type Kit struct {
	stats  Stats
	owner  *combat.Entity
	arena  Arena
	scaler DamageScaler
	cfg    config.CombatConfig
	bus    *events.Bus
	logger *slog.Logger

	cooldowns [2]float64 // Indexed by Slot
	echoes    Echoes
	pulls     []pull
}

// New creates a kit for owner. scaler and logger may be nil.
func New(stats Stats, owner *combat.Entity, arena Arena, scaler DamageScaler, cfg config.CombatConfig, bus *events.Bus, logger *slog.Logger) *Kit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Kit{
		stats:  stats,
		owner:  owner,
		arena:  arena,
		scaler: scaler,
		cfg:    cfg,
		bus:    bus,
		logger: logger.With("weapon", string(stats.Name)),
	}
}

// Name returns the kit's name.
func (k *Kit) Name() Name { return k.stats.Name }

// Stats returns the kit's table row.
func (k *Kit) Stats() Stats { return k.stats }

// Equip applies the kit's basic attack to the owner and installs its perfect effect.
func (k *Kit) Equip() {
	k.owner.AttackRange = k.stats.BasicRange
	if k.owner.Attack != nil {
		k.owner.Attack.SetAttackSpeed(k.stats.BasicSpeed)
	}
	if k.owner.Defense != nil {
		k.owner.Defense.SetPerfectEffect(k.onPerfect)
	}
}

// Unequip removes the perfect effect and drops any echo mark.
func (k *Kit) Unequip() {
	if k.owner.Defense != nil {
		k.owner.Defense.SetPerfectEffect(nil)
	}
	k.echoes.Clear(k.arena)
	k.pulls = nil
}

// Cooldown returns seconds until slot is ready.
func (k *Kit) Cooldown(slot Slot) float64 {
	if slot > SlotE {
		return 0
	}
	return k.cooldowns[slot]
}

// Echoes returns the echo state.
func (k *Kit) Echoes() *Echoes { return &k.echoes }

// BasicAttack starts the owner's cast at target.
func (k *Kit) BasicAttack(targetID combat.EntityID) error {
	if k.owner.Attack == nil {
		return ErrAbilityUnavailable
	}
	target, ok := k.living(targetID)
	if !ok {
		return combat.ErrNoTarget
	}
	dist := k.owner.Position.Distance(target.Position)
	if err := k.owner.Attack.StartAttack(targetID, dist, k.stats.BasicRange, k.stats.BasicDamage, k.stats.BasicArea); err != nil {
		return err
	}
	k.owner.FaceTowards(target.Position)
	return nil
}

// ExecuteStrike lands a finished cast from the owner, after the kit's impact delay.
func (k *Kit) ExecuteStrike(s combat.Strike) {
	desc := k.scale(s.Damage)
	if k.stats.ImpactDelay > 0 && k.arena != nil {
		k.arena.After(k.stats.ImpactDelay, func() { k.land(s.Target, desc) })
		return
	}
	k.land(s.Target, desc)
}

func (k *Kit) land(targetID combat.EntityID, desc combat.DamageDescriptor) {
	if !k.owner.IsAlive() {
		return
	}

	var victims []*combat.Entity
	if desc.IsAreaDamage {
		victims = k.arena.Within(k.owner.Position, k.stats.BasicRange)
	} else if t, ok := k.living(targetID); ok {
		victims = []*combat.Entity{t}
	}

	total, hits := 0.0, 0
	for _, v := range victims {
		if v.ID == k.owner.ID {
			continue
		}
		total += k.Deal(v, desc)
		hits++
	}

	k.bus.Emit(events.EventTypeAttackExecuted, string(k.owner.ID), events.AttackPayload{
		TargetID:   string(targetID),
		DamageType: desc.Type.String(),
		Amount:     total,
		IsArea:     desc.IsAreaDamage,
		Hits:       hits,
	})
}

// Deal applies already-scaled damage from the owner to victim and feeds Echoes.
func (k *Kit) Deal(victim *combat.Entity, desc combat.DamageDescriptor) float64 {
	dir := combat.DirectionFromTo(k.owner.Position, victim.Position)
	dealt := victim.TakeDamage(desc, dir)
	k.echoes.OnDamageDealt(k.arena, k.owner.ID, victim, dealt, k.cfg.EchoDamageFraction)
	return dealt
}

// Ability casts slot at target. Area abilities ignore the target.
func (k *Kit) Ability(slot Slot, targetID combat.EntityID) error {
	var a AbilityStats
	switch slot {
	case SlotQ:
		a = k.stats.Q
	case SlotE:
		a = k.stats.E
	default:
		return ErrAbilityUnavailable
	}
	if a.Effect == EffectNone {
		return ErrAbilityUnavailable
	}
	if k.cooldowns[slot] > 0 {
		return ErrAbilityCooldown
	}
	if !k.owner.IsAlive() {
		return ErrAbilityUnavailable
	}

	var err error
	switch a.Effect {
	case EffectEchoes:
		err = k.castEchoes(a, targetID)
	case EffectCodeBreak:
		err = k.castCodeBreak(a, targetID)
	case EffectGravityPull:
		err = k.castGravityPull(a, targetID)
	case EffectHolyGravity:
		k.castHolyGravity(a)
	}
	if err != nil {
		return err
	}

	k.cooldowns[slot] = a.Cooldown
	k.logger.Debug("weapon: ability cast", "slot", slot.String(), "effect", string(a.Effect), "target", string(targetID))
	return nil
}

// targetInRange resolves a single-target ability's target.
func (k *Kit) targetInRange(id combat.EntityID, r float64) (*combat.Entity, error) {
	t, ok := k.living(id)
	if !ok || t.ID == k.owner.ID {
		return nil, combat.ErrNoTarget
	}
	if k.owner.Position.Distance(t.Position) > r {
		return nil, combat.ErrOutOfRange
	}
	return t, nil
}

func (k *Kit) castEchoes(a AbilityStats, id combat.EntityID) error {
	t, err := k.targetInRange(id, a.Range)
	if err != nil {
		return err
	}
	k.echoes.Mark(k.arena, t, a.Duration)
	return nil
}

func (k *Kit) castCodeBreak(a AbilityStats, id combat.EntityID) error {
	t, err := k.targetInRange(id, a.Range)
	if err != nil {
		return err
	}
	k.Deal(t, k.scale(k.ownerDamage(combat.DamageSoul, false)))
	return nil
}

func (k *Kit) castGravityPull(a AbilityStats, id combat.EntityID) error {
	t, err := k.targetInRange(id, a.Range)
	if err != nil {
		return err
	}

	t.Status.SetVulnerable(a.Duration)
	k.Deal(t, k.scale(k.ownerDamage(combat.DamagePhysical, false)))

	if a.PullDuration > 0 && t.IsAlive() {
		to := k.owner.Position.Sub(t.Position)
		to.Z = 0
		travel := math.Max(0, to.Length()-pullStopDistance)
		k.pulls = append(k.pullsExcept(t.ID), pull{
			target:    t.ID,
			velocity:  to.Normalized().Scale(travel / a.PullDuration),
			remaining: a.PullDuration,
		})
	}
	return nil
}

func (k *Kit) castHolyGravity(a AbilityStats) {
	desc := k.scale(k.ownerDamage(combat.DamagePhysical, true))
	for _, v := range k.arena.Within(k.owner.Position, a.Range) {
		if v.ID == k.owner.ID {
			continue
		}
		k.Deal(v, desc)
		v.Status.SetVulnerable(a.Duration)
	}
}

func (k *Kit) pullsExcept(id combat.EntityID) []pull {
	out := make([]pull, 0, len(k.pulls))
	for _, p := range k.pulls {
		if p.target != id {
			out = append(out, p)
		}
	}
	return out
}

// onPerfect runs when the owner's reaction lands in the perfect zone.
func (k *Kit) onPerfect(in combat.Incoming) {
	switch k.stats.Perfect {
	case PerfectResetE:
		k.cooldowns[SlotE] = 0
		k.logger.Debug("weapon: perfect dodge reset E")
	case PerfectCounter:
		attacker, ok := k.living(in.Attacker)
		if !ok {
			return
		}
		res := combat.CounterAttack(attacker, k.cfg.CounterArmorReduction)
		k.logger.Debug("weapon: perfect order counter", "attacker", string(in.Attacker), "result", res.String())
	}
}

// Tick advances cooldowns, the echo mark and active pulls.
func (k *Kit) Tick(dt float64) {
	for i := range k.cooldowns {
		if k.cooldowns[i] > 0 {
			k.cooldowns[i] = math.Max(0, k.cooldowns[i]-dt)
		}
	}
	k.echoes.Tick(k.arena, dt)

	active := k.pulls[:0]
	for _, p := range k.pulls {
		t, ok := k.living(p.target)
		if !ok {
			continue
		}
		step := math.Min(dt, p.remaining)
		t.Position = t.Position.Add(p.velocity.Scale(step))
		p.remaining -= step
		if p.remaining > 1e-9 {
			active = append(active, p)
		}
	}
	k.pulls = active
}

// Pulling reports whether id is being dragged by Gravity Pull.
func (k *Kit) Pulling(id combat.EntityID) bool {
	for _, p := range k.pulls {
		if p.target == id {
			return true
		}
	}
	return false
}

func (k *Kit) ownerDamage(t combat.DamageType, area bool) combat.DamageDescriptor {
	return combat.DamageDescriptor{
		Amount:       k.owner.Resources.Get().AttackPoint,
		Type:         t,
		Instigator:   k.owner.ID,
		IsAreaDamage: area,
	}
}

func (k *Kit) scale(d combat.DamageDescriptor) combat.DamageDescriptor {
	if k.scaler == nil {
		return d
	}
	return d.Scaled(k.scaler.MultiplierFor(d.Type))
}

func (k *Kit) living(id combat.EntityID) (*combat.Entity, bool) {
	if id == "" || k.arena == nil {
		return nil, false
	}
	e, ok := k.arena.Lookup(id)
	if !ok || !e.IsAlive() {
		return nil, false
	}
	return e, true
}
