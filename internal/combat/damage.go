// Package combat holds the per-entity combat state and the rules that mutate it:
// damage resolution, resources, tags and statuses, timing windows, attack casting,
// defensive reactions and counter-attacks.
//
// Everything here is driven by an external fixed-step tick and is not safe for
// concurrent use; the world engine is the single writer.
package combat

import (
	"encoding/json"
	"fmt"
	"math"
)

// DamageType selects the resolution rule.
type DamageType uint8

const (
	DamagePhysical DamageType = iota // Reduced by defence, blocked by shields, ignored by ghosts
	DamageSoul                       // Doubled, bypasses defence, ignored by mechanical targets
)

func (d DamageType) String() string {
	switch d {
	case DamagePhysical:
		return "physical"
	case DamageSoul:
		return "soul"
	default:
		return "unknown"
	}
}

// ParseDamageType accepts the names produced by String.
func ParseDamageType(s string) (DamageType, error) {
	switch s {
	case "physical", "Physical":
		return DamagePhysical, nil
	case "soul", "Soul":
		return DamageSoul, nil
	default:
		return 0, fmt.Errorf("unknown damage type %q", s)
	}
}

func (d DamageType) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DamageType) UnmarshalText(b []byte) error {
	v, err := ParseDamageType(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

var _ json.Marshaler = (*DamageDescriptor)(nil)

// DamageDescriptor describes one hit before resolution.
type DamageDescriptor struct {
	Amount       float64
	Type         DamageType
	Instigator   EntityID
	IsAreaDamage bool
}

// MarshalJSON keeps the wire form in camelCase like the rest of the API.
func (d *DamageDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount       float64    `json:"amount"`
		Type         DamageType `json:"type"`
		Instigator   EntityID   `json:"instigator"`
		IsAreaDamage bool       `json:"isAreaDamage"`
	}{d.Amount, d.Type, d.Instigator, d.IsAreaDamage})
}

// Scaled returns a copy with the amount multiplied by m.
func (d DamageDescriptor) Scaled(m float64) DamageDescriptor {
	d.Amount *= m
	return d
}

// Resolve computes the damage a target takes from desc. It is pure; the caller
// applies the result to the target's ResourceState.
//
// attackDirection points from the attacker toward the target. A shield blocks
// when the attack approaches from the front, that is when -attackDirection and
// targetForward point the same way.
func Resolve(desc DamageDescriptor, target Resources, tags Tag, attackDirection, targetForward Vec3) float64 {
	if desc.Amount <= 0 || math.IsNaN(desc.Amount) {
		return 0
	}

	switch desc.Type {
	case DamagePhysical:
		if tags.Has(TagGhost) {
			return 0
		}
		if tags.Has(TagShielded) && attackDirection.Normalized().Neg().Dot(targetForward.Normalized()) > 0 {
			return 0
		}
		return desc.Amount * math.Max(0, 100-target.DefencePoint) / 100

	case DamageSoul:
		if tags.Has(TagMechanical) {
			return 0
		}
		return desc.Amount * 2

	default:
		return 0
	}
}
