package combat

import (
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
)

// Kind separates the player from enemies.
type Kind string

const (
	KindPlayer Kind = "player"
	KindEnemy  Kind = "enemy"
)

// Entity is a combat participant. Components are wired once by Builder and
// never looked up at runtime; Attack is nil for entities that never cast and
// Defense is nil for entities that take strikes without reacting.
type Entity struct {
	ID     EntityID
	Name   string
	Kind   Kind
	Preset string

	Position Vec3
	Forward  Vec3

	SightRange  float64
	AttackRange float64

	Resources *ResourceState
	Tags      *TagState
	Status    *StatusState
	Attack    *AttackComponent
	Defense   *Reaction
}

// IsAlive reports whether health is above zero.
func (e *Entity) IsAlive() bool { return e.Resources.IsAlive() }

// TakeDamage resolves desc against this entity's defences and applies it.
// dir points from the attacker toward this entity. Returns the health lost.
func (e *Entity) TakeDamage(desc DamageDescriptor, dir Vec3) float64 {
	if !e.IsAlive() {
		return 0
	}
	amount := Resolve(desc, e.Resources.Get(), e.Tags.Tags(), dir, e.Forward)
	if amount <= 0 {
		return 0
	}
	return e.Resources.ApplyDamage(amount, desc)
}

// ReceiveStrike delivers an attack. An entity with a defense that is in combat
// gets to react first: the damage is held in its reaction window and deferred is
// true. Otherwise, or when a window is already open, the damage lands now.
func (e *Entity) ReceiveStrike(desc DamageDescriptor, dir Vec3) (dealt float64, deferred bool) {
	if !e.IsAlive() {
		return 0, false
	}
	if e.Defense != nil && e.Status.Has(StatusCombat) {
		err := e.Defense.Open(Incoming{Damage: desc, Attacker: desc.Instigator, Direction: dir})
		if err == nil {
			return 0, true
		}
	}
	return e.TakeDamage(desc, dir), false
}

// Defend triggers the defensive reaction and applies the resulting damage.
func (e *Entity) Defend() (Outcome, float64, error) {
	if e.Defense == nil {
		return Outcome{}, 0, ErrWindowInactive
	}
	out, err := e.Defense.Trigger()
	if err != nil {
		return Outcome{}, 0, err
	}
	return out, e.applyOutcome(out), nil
}

// TickDefense advances the reaction window, applying the full hit on expiry.
func (e *Entity) TickDefense(dt float64) (Outcome, float64, bool) {
	if e.Defense == nil {
		return Outcome{}, 0, false
	}
	out, expired := e.Defense.Tick(dt)
	if !expired {
		return Outcome{}, 0, false
	}
	return out, e.applyOutcome(out), true
}

func (e *Entity) applyOutcome(out Outcome) float64 {
	if out.Damage.Amount <= 0 {
		return 0
	}
	return e.TakeDamage(out.Damage, out.Incoming.Direction)
}

// TickAttack advances the attack component, returning a finished strike.
func (e *Entity) TickAttack(dt float64) (Strike, bool) {
	if e.Attack == nil || !e.IsAlive() {
		return Strike{}, false
	}
	return e.Attack.Tick(dt)
}

// FaceTowards turns the entity to look at p. Facing is unchanged when p is
// the entity's own position.
func (e *Entity) FaceTowards(p Vec3) {
	if dir := DirectionFromTo(e.Position, p); !dir.IsZero() {
		e.Forward = dir
	}
}

// Builder assembles entities with their components wired explicitly.
type Builder struct {
	balance config.BalanceConfig
	bus     *events.Bus

	id          EntityID
	name        string
	kind        Kind
	preset      string
	resources   Resources
	tags        Tag
	position    Vec3
	forward     Vec3
	sightRange  float64
	attackRange float64
	attackSpeed float64
	withAttack  bool
	withDefense bool
}

// NewBuilder starts an enemy with default resources.
func NewBuilder(balance config.BalanceConfig, bus *events.Bus) *Builder {
	return &Builder{
		balance:    balance,
		bus:        bus,
		kind:       KindEnemy,
		resources:  DefaultResources(),
		forward:    Forward,
		sightRange: balance.AI.SightRange,
	}
}

func (b *Builder) WithID(id EntityID) *Builder { b.id = id; return b }
func (b *Builder) WithName(name string) *Builder { b.name = name; return b }
func (b *Builder) WithKind(k Kind) *Builder { b.kind = k; return b }
func (b *Builder) WithPreset(name string) *Builder { b.preset = name; return b }
func (b *Builder) WithResources(r Resources) *Builder { b.resources = r; return b }
func (b *Builder) WithTags(t Tag) *Builder { b.tags = t; return b }
func (b *Builder) WithSightRange(r float64) *Builder { b.sightRange = r; return b }
func (b *Builder) At(p Vec3) *Builder { b.position = p; return b }
func (b *Builder) Facing(dir Vec3) *Builder { b.forward = dir; return b }
func (b *Builder) WithDefense() *Builder { b.withDefense = true; return b }

// WithAttack gives the entity a cast-bar attack. Range is capped by the AI's
// maximum attack range.
func (b *Builder) WithAttack(attackRange, attacksPerSecond float64) *Builder {
	if limit := b.balance.AI.MaxAttackRange; limit > 0 && attackRange > limit {
		attackRange = limit
	}
	b.withAttack = true
	b.attackRange = attackRange
	b.attackSpeed = attacksPerSecond
	return b
}

// Build creates the entity. It starts out of combat.
func (b *Builder) Build() *Entity {
	id := b.id
	if id == "" {
		id = NewEntityID()
	}
	forward := b.forward.Normalized()
	if forward.IsZero() {
		forward = Forward
	}

	res := NewResourceState(id, b.resources, b.bus)
	e := &Entity{
		ID:          id,
		Name:        b.name,
		Kind:        b.kind,
		Preset:      b.preset,
		Position:    b.position,
		Forward:     forward,
		SightRange:  b.sightRange,
		AttackRange: b.attackRange,
		Resources:   res,
		Tags:        NewTagState(id, b.tags, b.bus),
		Status:      NewStatusState(id, b.bus),
	}
	if b.withAttack {
		e.Attack = NewAttackComponent(id, res, b.balance.Windows, b.balance.Combat, b.bus)
		e.Attack.SetAttackSpeed(b.attackSpeed)
	}
	if b.withDefense {
		e.Defense = NewReaction(id, b.balance.Windows, b.bus)
	}
	return e
}
