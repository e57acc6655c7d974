// Package stats loads character presets and weapon tables from YAML.
package stats

import (
	_ "embed"
	"os"
	"sort"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var embeddedDefaults []byte

// Preset is a named character template.
type Preset struct {
	Name        string           `yaml:"-" json:"name"`
	Resources   combat.Resources `yaml:",inline" json:"resources"`
	TagNames    []string         `yaml:"tags" json:"tags"`
	AttackRange float64          `yaml:"attack_range" json:"attackRange"`
	AttackSpeed float64          `yaml:"attack_speed" json:"attackSpeed"`
	SightRange  float64          `yaml:"sight_range" json:"sightRange"`

	Tags combat.Tag `yaml:"-" json:"-"`
}

// Tables holds every preset and weapon row.
type Tables struct {
	Presets map[string]Preset             `yaml:"presets"`
	Weapons map[weapon.Name]weapon.Stats `yaml:"weapons"`
}

// Default returns the embedded tables. It panics if they are malformed,
// which can only happen with a broken build.
func Default() *Tables {
	t, err := Parse(embeddedDefaults)
	if err != nil {
		panic(errors.Wrap(err, "stats: embedded defaults"))
	}
	return t
}

// Load reads tables from path, or the embedded defaults when path is empty.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Parse(embeddedDefaults)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stats: read %s", path)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "stats: %s", path)
	}
	return t, nil
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	if len(t.Presets) == 0 {
		return nil, errors.New("no presets defined")
	}

	for name, p := range t.Presets {
		p.Name = name
		for _, tn := range p.TagNames {
			tag, ok := combat.ParseTag(tn)
			if !ok {
				return nil, errors.Errorf("preset %s: unknown tag %q", name, tn)
			}
			p.Tags |= tag
		}
		if p.Resources.MaxHealth <= 0 {
			return nil, errors.Errorf("preset %s: max_health must be positive", name)
		}
		if p.Resources.Health <= 0 {
			p.Resources.Health = p.Resources.MaxHealth
		}
		t.Presets[name] = p
	}

	for name, w := range t.Weapons {
		if w.Name == "" {
			w.Name = name
		}
		if err := w.Validate(); err != nil {
			return nil, err
		}
		t.Weapons[name] = w
	}
	return &t, nil
}

// Preset returns a preset by name.
func (t *Tables) Preset(name string) (Preset, bool) {
	p, ok := t.Presets[name]
	return p, ok
}

// Weapon returns a weapon row by name.
func (t *Tables) Weapon(name weapon.Name) (weapon.Stats, bool) {
	w, ok := t.Weapons[name]
	return w, ok
}

// PresetNames returns preset names in sorted order.
func (t *Tables) PresetNames() []string {
	names := make([]string, 0, len(t.Presets))
	for n := range t.Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
