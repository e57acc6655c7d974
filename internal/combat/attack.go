package combat

import (
	"errors"
	"math"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
)

var (
	ErrOnCooldown = errors.New("combat: attack on cooldown")
	ErrCasting    = errors.New("combat: attack already casting")
	ErrOutOfRange = errors.New("combat: target out of range")
	ErrNoTarget   = errors.New("combat: no target")
)

// timerEpsilon absorbs float drift when a countdown is meant to land on zero.
const timerEpsilon = 1e-9

// Strike is a cast that finished and is ready to be executed against its target.
type Strike struct {
	Attacker EntityID
	Target   EntityID
	Damage   DamageDescriptor
}

// pendingCast is the attack being wound up on the cast bar.
type pendingCast struct {
	target EntityID
	dtype  DamageType
	area   bool
}

// AttackComponent owns an entity's attack cooldown and cast bar.
// It holds the only attack cooldown; AI and weapons ask it for readiness.
type AttackComponent struct {
	owner     EntityID
	bus       *events.Bus
	resources *ResourceState
	profile   WindowProfile
	minSpeed  float64

	cast        *TimingWindow
	pending     pendingCast
	attackSpeed float64 // Attacks per second
	cooldown    float64 // Seconds until the next attack may start
}

// NewAttackComponent creates a ready component using the cast profile from cfg.
func NewAttackComponent(owner EntityID, resources *ResourceState, windows config.WindowConfig, cbt config.CombatConfig, bus *events.Bus) *AttackComponent {
	a := &AttackComponent{
		owner:     owner,
		bus:       bus,
		resources: resources,
		profile:   CastProfile(windows),
		minSpeed:  cbt.MinAttackSpeed,
		cast:      NewTimingWindow(),
	}
	a.SetAttackSpeed(1)
	return a
}

// SetAttackSpeed sets attacks per second, floored at the configured minimum.
func (a *AttackComponent) SetAttackSpeed(aps float64) {
	if math.IsNaN(aps) || aps < a.minSpeed {
		aps = a.minSpeed
	}
	if aps <= 0 {
		aps = 1
	}
	a.attackSpeed = aps
}

// AttackSpeed returns attacks per second.
func (a *AttackComponent) AttackSpeed() float64 { return a.attackSpeed }

// CanAttack reports whether the cooldown is over and nothing is casting.
func (a *AttackComponent) CanAttack() bool {
	return a.cooldown <= 0 && !a.cast.Active()
}

// StartAttack begins casting at target. It fails without side effects when the
// component is not ready or the target is missing or out of range.
func (a *AttackComponent) StartAttack(target EntityID, distance, attackRange float64, dtype DamageType, area bool) error {
	switch {
	case a.cast.Active():
		return ErrCasting
	case a.cooldown > 0:
		return ErrOnCooldown
	case target == "":
		return ErrNoTarget
	case distance > attackRange:
		return ErrOutOfRange
	}

	a.cast.Reset()
	if err := a.cast.Start(a.profile); err != nil {
		return err
	}
	a.pending = pendingCast{target: target, dtype: dtype, area: area}
	a.cooldown = 1 / a.attackSpeed

	a.bus.Emit(events.EventTypeAttackStarted, string(a.owner), events.AttackPayload{
		TargetID:   string(target),
		DamageType: dtype.String(),
		Amount:     a.resources.Get().AttackPoint,
		IsArea:     area,
	})
	return nil
}

// Tick advances the cooldown and the cast bar. It returns the strike on the
// tick the cast completes.
func (a *AttackComponent) Tick(dt float64) (Strike, bool) {
	if a.cooldown > 0 {
		a.cooldown -= dt
		if a.cooldown <= timerEpsilon {
			a.cooldown = 0
		}
	}
	if !a.cast.Tick(dt) {
		return Strike{}, false
	}

	p := a.pending
	a.pending = pendingCast{}
	a.cast.Reset()
	return Strike{
		Attacker: a.owner,
		Target:   p.target,
		Damage: DamageDescriptor{
			Amount:       a.resources.Get().AttackPoint,
			Type:         p.dtype,
			Instigator:   a.owner,
			IsAreaDamage: p.area,
		},
	}, true
}

// Cancel interrupts a cast. The cooldown keeps running.
func (a *AttackComponent) Cancel() {
	a.cast.Cancel()
	a.pending = pendingCast{}
}

// CooldownRemaining returns seconds until the next attack may start.
func (a *AttackComponent) CooldownRemaining() float64 { return a.cooldown }

// IsCasting reports whether a cast bar is running.
func (a *AttackComponent) IsCasting() bool { return a.cast.Active() }

// CastProgress returns the cast bar fill in [0, 1], 0 when idle.
func (a *AttackComponent) CastProgress() float64 {
	if !a.cast.Active() {
		return 0
	}
	return a.cast.Progress()
}

// CastZone classifies the running cast: Early while telegraphing, then Perfect.
func (a *AttackComponent) CastZone() Zone { return a.cast.Classify() }

// CastTarget returns the target of the running cast.
func (a *AttackComponent) CastTarget() EntityID { return a.pending.target }
