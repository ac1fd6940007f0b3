package items

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weapon describes how an equipped weapon behaves in combat.
type Weapon struct {
	// Range is the maximum engagement distance in pixels.
	Range float64 `yaml:"range"`

	// DamageModifier scales the attacker's base attack.
	DamageModifier float64 `yaml:"damage_modifier"`

	// KeepOnDeath marks weapons that are never dropped as loot.
	KeepOnDeath bool `yaml:"keep_on_death"`
}

// WeaponsConfig holds the weapon table keyed by weapon name.
type WeaponsConfig struct {
	weapons map[string]Weapon
}

// Unarmed/unknown weapon behavior: melee range, no modifier.
const (
	DefaultRange          = 100.0
	DefaultDamageModifier = 1.0
)

// DefaultWeapons returns the built-in weapon table.
func DefaultWeapons() *WeaponsConfig {
	return &WeaponsConfig{
		weapons: map[string]Weapon{
			"bronze_sword": {Range: 100, DamageModifier: 1.2, KeepOnDeath: true},
			"bow":          {Range: 300, DamageModifier: 0.7, KeepOnDeath: true},
		},
	}
}

// LoadWeaponsFromYAML loads a weapon table from a YAML file.
// The file maps weapon names to their definitions under a "weapons" key.
func LoadWeaponsFromYAML(path string) (*WeaponsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weapons file: %w", err)
	}

	var raw struct {
		Weapons map[string]Weapon `yaml:"weapons"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse weapons file: %w", err)
	}
	if len(raw.Weapons) == 0 {
		return nil, fmt.Errorf("weapons file %s defines no weapons", path)
	}

	return &WeaponsConfig{weapons: raw.Weapons}, nil
}

// Lookup returns the weapon definition for the given name. Unknown names get
// the default melee behavior.
func (wc *WeaponsConfig) Lookup(name string) Weapon {
	if w, ok := wc.weapons[name]; ok {
		return w
	}
	return Weapon{Range: DefaultRange, DamageModifier: DefaultDamageModifier}
}

// KeptOnDeath reports whether an item with the given name survives its
// owner's death instead of being dropped as loot.
func (wc *WeaponsConfig) KeptOnDeath(name string) bool {
	w, ok := wc.weapons[name]
	return ok && w.KeepOnDeath
}
