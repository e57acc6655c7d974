package combat

import (
	"math"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
)

// Resources is the numeric state of a combat entity.
type Resources struct {
	Health       float64 `json:"health" yaml:"health"`
	MaxHealth    float64 `json:"maxHealth" yaml:"max_health"`
	AttackPoint  float64 `json:"attackPoint" yaml:"attack"`
	DefencePoint float64 `json:"defencePoint" yaml:"defence"`
}

// DefaultResources matches an unconfigured character.
func DefaultResources() Resources {
	return Resources{Health: 100, MaxHealth: 100, AttackPoint: 10, DefencePoint: 0}
}

// clamped enforces 0 <= health <= maxHealth.
func (r Resources) clamped() Resources {
	if r.MaxHealth < 0 {
		r.MaxHealth = 0
	}
	r.Health = math.Max(0, math.Min(r.Health, r.MaxHealth))
	return r
}

// ResourceState owns an entity's Resources and raises health and death
// notifications when they change.
type ResourceState struct {
	owner EntityID
	bus   *events.Bus
	res   Resources
	dead  bool
}

// NewResourceState creates the state with r clamped.
func NewResourceState(owner EntityID, r Resources, bus *events.Bus) *ResourceState {
	r = r.clamped()
	return &ResourceState{owner: owner, bus: bus, res: r, dead: r.Health <= 0}
}

// Get returns a copy of the current values.
func (s *ResourceState) Get() Resources { return s.res }

// IsAlive reports whether health is above zero.
func (s *ResourceState) IsAlive() bool { return !s.dead }

// ApplyDamage subtracts amount from health and returns the damage actually taken.
// Health never drops below zero; the death notification is raised once, on the
// hit that crosses from positive to zero.
func (s *ResourceState) ApplyDamage(amount float64, src DamageDescriptor) float64 {
	if s.dead || amount <= 0 || math.IsNaN(amount) {
		return 0
	}

	before := s.res.Health
	s.res.Health = math.Max(0, before-amount)
	taken := before - s.res.Health

	s.publishHealth()
	s.bus.Emit(events.EventTypeDamageDealt, string(s.owner), events.DamagePayload{
		TargetID:     string(s.owner),
		InstigatorID: string(src.Instigator),
		Amount:       taken,
		DamageType:   src.Type.String(),
		IsArea:       src.IsAreaDamage,
	})

	if s.res.Health <= 0 {
		s.dead = true
		s.bus.Emit(events.EventTypeDeath, string(s.owner), events.DeathPayload{
			KillerID: string(src.Instigator),
		})
	}
	return taken
}

// SetResources replaces every value. Input is clamped rather than rejected.
// Restoring health above zero re-arms the death notification.
func (s *ResourceState) SetResources(r Resources) {
	s.res = r.clamped()
	s.dead = s.res.Health <= 0
	s.publishHealth()
}

func (s *ResourceState) publishHealth() {
	s.bus.Emit(events.EventTypeHealthChanged, string(s.owner), events.HealthPayload{
		Health:    s.res.Health,
		MaxHealth: s.res.MaxHealth,
		Defence:   s.res.DefencePoint,
	})
}
