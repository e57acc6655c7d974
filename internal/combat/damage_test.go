package combat

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

var (
	front  = Vec3{X: -1} // Attacker in front of a target facing +X
	behind = Vec3{X: 1}  // Attacker behind a target facing +X
)

// TestResolve covers each resolution rule once
func TestResolve(t *testing.T) {
	standard := Resources{Health: 100, MaxHealth: 100, AttackPoint: 10, DefencePoint: 0}
	tank := Resources{Health: 200, MaxHealth: 200, AttackPoint: 15, DefencePoint: 30}

	tests := []struct {
		name string
		desc DamageDescriptor
		res  Resources
		tags Tag
		dir  Vec3
		want float64
	}{
		{"physical no defence", DamageDescriptor{Amount: 20, Type: DamagePhysical}, standard, TagHasSoul, behind, 20},
		{"physical with defence", DamageDescriptor{Amount: 20, Type: DamagePhysical}, tank, TagArmored, behind, 14},
		{"physical over 100 defence", DamageDescriptor{Amount: 20, Type: DamagePhysical}, Resources{DefencePoint: 150}, 0, behind, 0},
		{"physical ghost", DamageDescriptor{Amount: 50, Type: DamagePhysical}, standard, TagGhost, behind, 0},
		{"shield from front", DamageDescriptor{Amount: 20, Type: DamagePhysical}, standard, TagShielded, front, 0},
		{"shield from behind", DamageDescriptor{Amount: 20, Type: DamagePhysical}, standard, TagShielded, behind, 20},
		{"shield from side", DamageDescriptor{Amount: 20, Type: DamagePhysical}, standard, TagShielded, Vec3{Y: 1}, 20},
		{"soul doubled", DamageDescriptor{Amount: 20, Type: DamageSoul}, tank, TagHasSoul, front, 40},
		{"soul ignores shield", DamageDescriptor{Amount: 20, Type: DamageSoul}, standard, TagShielded, front, 40},
		{"soul mechanical", DamageDescriptor{Amount: 20, Type: DamageSoul}, standard, TagMechanical, behind, 0},
		{"negative amount", DamageDescriptor{Amount: -5, Type: DamageSoul}, standard, 0, behind, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.desc, tt.res, tt.tags, tt.dir, Forward)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveGhostPhysicalAlwaysZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.Float64Range(0, 1e6).Draw(t, "amount")
		def := rapid.Float64Range(0, 100).Draw(t, "defence")
		extra := Tag(rapid.IntRange(0, 31).Draw(t, "tags"))

		got := Resolve(DamageDescriptor{Amount: amount, Type: DamagePhysical},
			Resources{DefencePoint: def}, extra|TagGhost, front, Forward)
		if got != 0 {
			t.Fatalf("ghost took %v physical damage", got)
		}
	})
}

func TestResolveSoulRule(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.Float64Range(0, 1e6).Draw(t, "amount")
		def := rapid.Float64Range(0, 100).Draw(t, "defence")
		mechanical := rapid.Bool().Draw(t, "mechanical")

		tags := TagHasSoul
		want := amount * 2
		if mechanical {
			tags = TagMechanical
			want = 0
		}
		got := Resolve(DamageDescriptor{Amount: amount, Type: DamageSoul},
			Resources{DefencePoint: def}, tags, behind, Forward)
		if got != want {
			t.Fatalf("Resolve() = %v, want %v", got, want)
		}
	})
}

func TestResolvePhysicalDefenceMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.Float64Range(0, 1e6).Draw(t, "amount")
		lo := rapid.Float64Range(0, 100).Draw(t, "lo")
		hi := rapid.Float64Range(lo, 100).Draw(t, "hi")

		desc := DamageDescriptor{Amount: amount, Type: DamagePhysical}
		atLo := Resolve(desc, Resources{DefencePoint: lo}, 0, behind, Forward)
		atHi := Resolve(desc, Resources{DefencePoint: hi}, 0, behind, Forward)

		if want := amount * (100 - lo) / 100; math.Abs(atLo-want) > 1e-6 {
			t.Fatalf("Resolve() = %v, want %v", atLo, want)
		}
		if atHi > atLo {
			t.Fatalf("more defence (%v) took more damage: %v > %v", hi, atHi, atLo)
		}
	})
}

func TestResolveShieldDirection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dir := Vec3{
			X: rapid.Float64Range(-1, 1).Draw(t, "x"),
			Y: rapid.Float64Range(-1, 1).Draw(t, "y"),
		}
		if dir.Length() < 1e-3 {
			t.Skip("degenerate direction")
		}

		got := Resolve(DamageDescriptor{Amount: 10, Type: DamagePhysical}, Resources{}, TagShielded, dir, Forward)
		frontal := dir.Normalized().Neg().Dot(Forward) > 0
		if frontal && got != 0 {
			t.Fatalf("frontal attack %v went through the shield", dir)
		}
		if !frontal && got != 10 {
			t.Fatalf("attack %v from behind was reduced to %v", dir, got)
		}
	})
}

func TestResolveNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		desc := DamageDescriptor{
			Amount: rapid.Float64Range(-1e6, 1e6).Draw(t, "amount"),
			Type:   DamageType(rapid.IntRange(0, 1).Draw(t, "type")),
		}
		res := Resources{DefencePoint: rapid.Float64Range(-100, 500).Draw(t, "defence")}
		tags := Tag(rapid.IntRange(0, 31).Draw(t, "tags"))

		if got := Resolve(desc, res, tags, front, Forward); got < 0 {
			t.Fatalf("Resolve() = %v", got)
		}
	})
}

func TestParseDamageType(t *testing.T) {
	for _, dt := range []DamageType{DamagePhysical, DamageSoul} {
		got, err := ParseDamageType(dt.String())
		if err != nil || got != dt {
			t.Errorf("ParseDamageType(%q) = %v, %v", dt.String(), got, err)
		}
	}
	if _, err := ParseDamageType("fire"); err == nil {
		t.Error("Expected error for unknown damage type")
	}
}
