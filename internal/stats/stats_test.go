package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPresets(t *testing.T) {
	tables := Default()

	tests := []struct {
		name    string
		health  float64
		attack  float64
		defence float64
		tags    combat.Tag
	}{
		{"standard", 100, 10, 0, combat.TagHasSoul},
		{"phase", 100, 20, 0, combat.TagGhost},
		{"tank", 200, 15, 30, combat.TagHasSoul | combat.TagArmored},
		{"shielded_tank", 300, 20, 20, combat.TagHasSoul | combat.TagArmored | combat.TagShielded},
		{"shielded_tank_robot", 300, 30, 40, combat.TagMechanical | combat.TagArmored | combat.TagShielded},
		{"player", 100, 10, 0, combat.TagHasSoul},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := tables.Preset(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.name, p.Name)
			assert.Equal(t, tt.health, p.Resources.Health)
			assert.Equal(t, tt.health, p.Resources.MaxHealth)
			assert.Equal(t, tt.attack, p.Resources.AttackPoint)
			assert.Equal(t, tt.defence, p.Resources.DefencePoint)
			assert.Equal(t, tt.tags, p.Tags)
		})
	}

	std, _ := tables.Preset("standard")
	assert.InDelta(t, 1/1.5, std.AttackSpeed, 1e-9)
	assert.Equal(t, 300.0, std.AttackRange)
	assert.Equal(t, 1500.0, std.SightRange)
}

func TestDefaultWeapons(t *testing.T) {
	tables := Default()

	katana, ok := tables.Weapon(weapon.OverrideKatana)
	require.True(t, ok)
	assert.Equal(t, weapon.OverrideKatana, katana.Name)
	assert.Equal(t, combat.DamagePhysical, katana.BasicDamage)
	assert.Equal(t, weapon.EffectEchoes, katana.Q.Effect)
	assert.Equal(t, 4000.0, katana.Q.Range)
	assert.Equal(t, 6.0, katana.E.Cooldown)
	assert.Equal(t, weapon.PerfectResetE, katana.Perfect)

	anchor, ok := tables.Weapon(weapon.DivineAnchor)
	require.True(t, ok)
	assert.True(t, anchor.BasicArea)
	assert.Equal(t, 0.7, anchor.ImpactDelay)
	assert.Equal(t, weapon.PerfectCounter, anchor.Perfect)

	physical, ok := tables.Weapon(weapon.PhysicalKatana)
	require.True(t, ok)
	assert.Equal(t, weapon.EffectNone, physical.Q.Effect)
	assert.Equal(t, weapon.EffectNone, physical.E.Effect)
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.yaml")
	doc := `
presets:
  grunt:
    max_health: 50
    attack: 5
    tags: [has-soul, Armored]
weapons:
  physical_katana:
    basic_range: 200
    basic_speed: 2
    basic_damage: soul
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tables, err := Load(path)
	require.NoError(t, err)

	grunt, ok := tables.Preset("grunt")
	require.True(t, ok)
	assert.Equal(t, 50.0, grunt.Resources.Health, "health defaults to max")
	assert.Equal(t, combat.TagHasSoul|combat.TagArmored, grunt.Tags)
	assert.Equal(t, []string{"grunt"}, tables.PresetNames())

	w, ok := tables.Weapon(weapon.PhysicalKatana)
	require.True(t, ok)
	assert.Equal(t, combat.DamageSoul, w.BasicDamage)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "stats: read")

	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "presets: [unterminated"},
		{"no presets", "weapons: {}"},
		{"unknown tag", "presets:\n  x:\n    max_health: 10\n    tags: [flying]"},
		{"zero health", "presets:\n  x:\n    attack: 1"},
		{"bad weapon", "presets:\n  x:\n    max_health: 10\nweapons:\n  w:\n    basic_range: 0\n    basic_speed: 1"},
		{"bad damage type", "presets:\n  x:\n    max_health: 10\nweapons:\n  w:\n    basic_range: 1\n    basic_speed: 1\n    basic_damage: fire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
