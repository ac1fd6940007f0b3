// Package npc defines the monster archetypes and the level scaling applied
// when a player engages one.
package npc

import (
	"fmt"
	"math"
	"os"

	"github.com/arthur-zhuk/bangfall/internal/dice"
	"gopkg.in/yaml.v3"
)

// Archetype is the base stat block for a monster type at level 1.
type Archetype struct {
	Health   int `yaml:"health"`
	Attack   int `yaml:"attack"`
	Defense  int `yaml:"defense"`
	XPReward int `yaml:"xp_reward"`
}

// Config holds the archetype table keyed by monster type name.
type Config struct {
	archetypes map[string]Archetype
	fallback   string
}

// DefaultArchetypes returns the built-in monster table.
func DefaultArchetypes() *Config {
	return &Config{
		archetypes: map[string]Archetype{
			"goblin":   {Health: 30, Attack: 8, Defense: 2, XPReward: 15},
			"orc":      {Health: 60, Attack: 12, Defense: 4, XPReward: 25},
			"skeleton": {Health: 40, Attack: 10, Defense: 6, XPReward: 20},
		},
		fallback: "goblin",
	}
}

// LoadFromYAML loads a monster table from a YAML file. The file maps
// monster type names to their base stats under an "npcs" key.
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read npc file: %w", err)
	}

	var raw struct {
		NPCs     map[string]Archetype `yaml:"npcs"`
		Fallback string               `yaml:"fallback"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse npc file: %w", err)
	}
	if len(raw.NPCs) == 0 {
		return nil, fmt.Errorf("npc file %s defines no monsters", path)
	}

	fallback := raw.Fallback
	if _, ok := raw.NPCs[fallback]; !ok {
		for name := range raw.NPCs {
			fallback = name
			break
		}
	}

	return &Config{archetypes: raw.NPCs, fallback: fallback}, nil
}

// Stats is a concrete monster instance generated for one combat.
type Stats struct {
	Type      string `json:"type"`
	Level     int    `json:"level"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	XPReward  int    `json:"xpReward"`
}

// Generate builds a monster of the given type scaled to the player's level.
// Each stat is multiplied by 1 + 0.2 per level above 1 and floored. Unknown
// types fall back to the weakest configured archetype.
func (c *Config) Generate(npcType string, playerLevel int) Stats {
	arch, ok := c.archetypes[npcType]
	if !ok {
		npcType = c.fallback
		arch = c.archetypes[npcType]
	}
	if playerLevel < 1 {
		playerLevel = 1
	}

	mult := 1 + float64(playerLevel-1)*0.2
	health := int(math.Floor(float64(arch.Health) * mult))
	return Stats{
		Type:      npcType,
		Level:     playerLevel,
		Health:    health,
		MaxHealth: health,
		Attack:    int(math.Floor(float64(arch.Attack) * mult)),
		Defense:   int(math.Floor(float64(arch.Defense) * mult)),
		XPReward:  int(math.Floor(float64(arch.XPReward) * mult)),
	}
}

// Damage rolls the damage one combatant deals another. The base is attack
// minus defense with a floor of 1, scaled by the variance roll.
func Damage(attack, defense int) int {
	base := attack - defense
	if base < 1 {
		base = 1
	}
	return int(math.Floor(float64(base) * dice.Variance()))
}
