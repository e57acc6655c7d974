// Package shard implements shard collection, activation and the stance derived
// from active shard counts, together with the altars and pickups that feed them.
package shard

import (
	"fmt"
	"strings"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
)

// Category is a shard kind.
type Category uint8

const (
	Soul Category = iota
	Power
	numCategories
)

// Categories lists every shard category.
var Categories = [...]Category{Soul, Power}

func (c Category) String() string {
	switch c {
	case Soul:
		return "soul"
	case Power:
		return "power"
	default:
		return "unknown"
	}
}

// ParseCategory accepts "soul" or "power" in any case.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "soul":
		return Soul, nil
	case "power":
		return Power, nil
	default:
		return 0, fmt.Errorf("unknown shard category %q", s)
	}
}

// ForDamage maps a damage type to the category that boosts it.
func ForDamage(t combat.DamageType) Category {
	if t == combat.DamageSoul {
		return Soul
	}
	return Power
}

// Stance is derived from the active shard counts and never stored.
type Stance uint8

const (
	StanceBalanced Stance = iota
	StanceSoul
	StancePower
)

func (s Stance) String() string {
	switch s {
	case StanceSoul:
		return "soul"
	case StancePower:
		return "power"
	default:
		return "balanced"
	}
}

// Inventory is one category's counters.
type Inventory struct {
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// Progression is the player's shard inventory.
type Progression struct {
	owner combat.EntityID
	cfg   config.ShardConfig
	bus   *events.Bus
	inv   [numCategories]Inventory
}

// NewProgression creates an empty inventory.
func NewProgression(owner combat.EntityID, cfg config.ShardConfig, bus *events.Bus) *Progression {
	return &Progression{owner: owner, cfg: cfg, bus: bus}
}

// Collect adds one inactive shard and returns the new inactive count.
func (p *Progression) Collect(c Category) int {
	if c >= numCategories {
		return 0
	}
	p.inv[c].Inactive++
	p.bus.Emit(events.EventTypeShardCollected, string(p.owner), events.ShardPayload{
		Category: c.String(),
		Count:    1,
		Active:   p.inv[c].Active,
		Inactive: p.inv[c].Inactive,
	})
	return p.inv[c].Inactive
}

// Activate moves count shards from inactive to active. It returns false and
// changes nothing when count is not in [1, min(inactive, MaxPerActivation)].
func (p *Progression) Activate(c Category, count int) bool {
	if c >= numCategories || count <= 0 || count > p.cfg.MaxPerActivation || count > p.inv[c].Inactive {
		return false
	}

	before := p.Stance()
	p.inv[c].Inactive -= count
	p.inv[c].Active += count

	p.bus.Emit(events.EventTypeShardsActivated, string(p.owner), events.ShardPayload{
		Category: c.String(),
		Count:    count,
		Active:   p.inv[c].Active,
		Inactive: p.inv[c].Inactive,
	})
	p.bus.Emit(events.EventTypeDamageBonusChanged, string(p.owner), events.BonusPayload{
		SoulBonus:        p.DamageBonus(Soul),
		PowerBonus:       p.DamageBonus(Power),
		SoulStanceBonus:  p.StanceBonus(Soul),
		PowerStanceBonus: p.StanceBonus(Power),
	})
	if after := p.Stance(); after != before {
		p.bus.Emit(events.EventTypeStanceChanged, string(p.owner), events.StancePayload{
			From: before.String(),
			To:   after.String(),
		})
	}
	return true
}

// Counts returns a category's counters.
func (p *Progression) Counts(c Category) Inventory {
	if c >= numCategories {
		return Inventory{}
	}
	return p.inv[c]
}

// Total returns every shard held, active or not, across categories.
func (p *Progression) Total() int {
	n := 0
	for _, inv := range p.inv {
		n += inv.Active + inv.Inactive
	}
	return n
}

// Stance compares active counts.
func (p *Progression) Stance() Stance {
	soul, power := p.inv[Soul].Active, p.inv[Power].Active
	switch {
	case soul > power:
		return StanceSoul
	case power > soul:
		return StancePower
	default:
		return StanceBalanced
	}
}

// DamageBonus is the per-shard bonus of a category's active shards.
func (p *Progression) DamageBonus(c Category) float64 {
	return float64(p.Counts(c).Active) * p.cfg.BonusPerShard
}

// StanceBonus is the extra bonus for the category matching the current stance.
func (p *Progression) StanceBonus(c Category) float64 {
	switch {
	case c == Soul && p.Stance() == StanceSoul:
		return p.cfg.SoulStanceBonus
	case c == Power && p.Stance() == StancePower:
		return p.cfg.PowerStanceBonus
	default:
		return 0
	}
}

// Multiplier scales outgoing damage of the category.
func (p *Progression) Multiplier(c Category) float64 {
	return 1 + p.DamageBonus(c) + p.StanceBonus(c)
}

// MultiplierFor scales outgoing damage of the given type.
func (p *Progression) MultiplierFor(t combat.DamageType) float64 {
	return p.Multiplier(ForDamage(t))
}
