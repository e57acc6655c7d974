// Package weapon implements the player's weapon kits: basic attacks, the Q and E
// abilities with their cooldowns, the perfect-defense effect and Echoes.
package weapon

import (
	"fmt"
	"strings"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
)

// Name identifies a weapon kit.
type Name string

const (
	OverrideKatana Name = "override_katana"
	DivineAnchor   Name = "divine_anchor"
	PhysicalKatana Name = "physical_katana"
)

// Names lists the kits in switching order.
var Names = []Name{OverrideKatana, DivineAnchor, PhysicalKatana}

// ParseName accepts snake_case or CamelCase kit names.
func ParseName(s string) (Name, error) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	for _, n := range Names {
		if strings.ReplaceAll(string(n), "_", "") == key {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown weapon %q", s)
}

// Effect is what an ability does when cast.
type Effect string

const (
	EffectNone        Effect = ""
	EffectEchoes      Effect = "echoes"       // Mark the target as the echo target
	EffectCodeBreak   Effect = "code_break"   // Soul damage to one target
	EffectGravityPull Effect = "gravity_pull" // Damage, pull toward the wielder, Vulnerable
	EffectHolyGravity Effect = "holy_gravity" // Area damage and Vulnerable around the wielder
)

// Perfect is the kit's reaction to a perfect defense.
type Perfect string

const (
	PerfectNone    Perfect = ""
	PerfectResetE  Perfect = "reset_e"
	PerfectCounter Perfect = "counter"
)

// AbilityStats configures one ability slot.
type AbilityStats struct {
	Effect       Effect  `yaml:"effect" json:"effect"`
	Range        float64 `yaml:"range" json:"range"`
	Cooldown     float64 `yaml:"cooldown" json:"cooldown"`
	Duration     float64 `yaml:"duration" json:"duration"` // Marked or Vulnerable seconds
	PullDuration float64 `yaml:"pull_duration,omitempty" json:"pullDuration,omitempty"`
}

// Stats is one weapon's table row.
type Stats struct {
	Name        Name              `yaml:"name" json:"name"`
	BasicRange  float64           `yaml:"basic_range" json:"basicRange"`
	BasicSpeed  float64           `yaml:"basic_speed" json:"basicSpeed"` // Attacks per second
	BasicDamage combat.DamageType `yaml:"basic_damage" json:"basicDamage"`
	BasicArea   bool              `yaml:"basic_area" json:"basicArea"` // Hits everything within BasicRange of the wielder
	ImpactDelay float64           `yaml:"impact_delay" json:"impactDelay"`
	Q           AbilityStats      `yaml:"q" json:"q"`
	E           AbilityStats      `yaml:"e" json:"e"`
	Perfect     Perfect           `yaml:"perfect" json:"perfect"`
}

// Validate rejects rows the kit cannot run.
func (s Stats) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("weapon: missing name")
	}
	if s.BasicRange <= 0 || s.BasicSpeed <= 0 {
		return fmt.Errorf("weapon %s: basic range and speed must be positive", s.Name)
	}
	if s.ImpactDelay < 0 {
		return fmt.Errorf("weapon %s: negative impact delay", s.Name)
	}
	for slot, a := range map[Slot]AbilityStats{SlotQ: s.Q, SlotE: s.E} {
		switch a.Effect {
		case EffectNone:
		case EffectEchoes, EffectCodeBreak, EffectGravityPull, EffectHolyGravity:
			if a.Range <= 0 || a.Cooldown < 0 {
				return fmt.Errorf("weapon %s: ability %s needs a range and a cooldown", s.Name, slot)
			}
		default:
			return fmt.Errorf("weapon %s: unknown effect %q", s.Name, a.Effect)
		}
	}
	switch s.Perfect {
	case PerfectNone, PerfectResetE, PerfectCounter:
	default:
		return fmt.Errorf("weapon %s: unknown perfect effect %q", s.Name, s.Perfect)
	}
	return nil
}

// Slot is an ability key.
type Slot uint8

const (
	SlotQ Slot = iota
	SlotE
)

func (s Slot) String() string {
	if s == SlotE {
		return "E"
	}
	return "Q"
}

// ParseSlot accepts "q" or "e" in any case.
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "q":
		return SlotQ, nil
	case "e":
		return SlotE, nil
	default:
		return 0, fmt.Errorf("unknown ability slot %q", s)
	}
}
