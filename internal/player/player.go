// Package player holds the authoritative per-connection player record:
// identity, position, stats, inventory, equipment, and combat bookkeeping.
package player

import (
	"fmt"
	"math"
	"time"

	"github.com/arthur-zhuk/bangfall/internal/items"
)

// Position is a point in world pixel coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another position.
func (p Position) Distance(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Stats holds the combat-relevant numbers for a player.
type Stats struct {
	Level     int `json:"level"`
	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	TotalXP   int `json:"totalXP"`
}

// Player is the authoritative record for one connected client. A new
// connection is always a brand-new Player; nothing survives disconnect.
type Player struct {
	ID             string
	Username       string
	Room           string
	Position       Position
	Direction      string
	Stats          Stats
	InCombat       bool
	CombatTarget   string // id of the active combat, empty when not fighting
	Inventory      []items.Item
	EquippedWeapon string
	JoinedAt       time.Time
}

// New creates a player at the given spawn position with the starting loadout.
func New(id, username, room string, spawn Position) *Player {
	if username == "" {
		username = fallbackName(id)
	}
	return &Player{
		ID:       id,
		Username: username,
		Room:     room,
		Position: spawn,
		Stats: Stats{
			Level:     1,
			Health:    100,
			MaxHealth: 100,
			Attack:    10,
			Defense:   5,
		},
		Inventory:      items.StarterKit(),
		EquippedWeapon: "bronze_sword",
		JoinedAt:       time.Now(),
	}
}

// fallbackName derives a display name from the connection id.
func fallbackName(id string) string {
	short := id
	if len(short) > 6 {
		short = short[:6]
	}
	return fmt.Sprintf("Player_%s", short)
}

// Payload is the wire representation of a player sent to clients.
type Payload struct {
	ID             string       `json:"id"`
	Username       string       `json:"username"`
	Room           string       `json:"room"`
	Position       Position     `json:"position"`
	Direction      string       `json:"direction,omitempty"`
	Stats          Stats        `json:"stats"`
	InCombat       bool         `json:"inCombat"`
	CombatTarget   string       `json:"combatTarget,omitempty"`
	Inventory      []items.Item `json:"inventory"`
	EquippedWeapon string       `json:"equippedWeapon"`
}

// Snapshot returns a copy of the player state for broadcasting.
func (p *Player) Snapshot() Payload {
	inv := make([]items.Item, len(p.Inventory))
	copy(inv, p.Inventory)
	return Payload{
		ID:             p.ID,
		Username:       p.Username,
		Room:           p.Room,
		Position:       p.Position,
		Direction:      p.Direction,
		Stats:          p.Stats,
		InCombat:       p.InCombat,
		CombatTarget:   p.CombatTarget,
		Inventory:      inv,
		EquippedWeapon: p.EquippedWeapon,
	}
}

// Heal restores health, clamping at max health.
func (p *Player) Heal(amount int) {
	p.Stats.Health += amount
	if p.Stats.Health > p.Stats.MaxHealth {
		p.Stats.Health = p.Stats.MaxHealth
	}
}

// ResetHealth restores the player to full health.
func (p *Player) ResetHealth() {
	p.Stats.Health = p.Stats.MaxHealth
}

// StartCombat marks the player as fighting in the given combat.
func (p *Player) StartCombat(combatID string) {
	p.InCombat = true
	p.CombatTarget = combatID
}

// EndCombat clears the player's combat state.
func (p *Player) EndCombat() {
	p.InCombat = false
	p.CombatTarget = ""
}

// AddItem adds an item to the inventory, stacking onto an existing entry
// with the same id.
func (p *Player) AddItem(item items.Item) {
	item = item.Normalize()
	for i := range p.Inventory {
		if p.Inventory[i].ID == item.ID {
			p.Inventory[i].Quantity += item.Quantity
			return
		}
	}
	p.Inventory = append(p.Inventory, item)
}

// HasItem reports whether an item with the given name is in the inventory.
func (p *Player) HasItem(name string) bool {
	for _, item := range p.Inventory {
		if item.Name == name {
			return true
		}
	}
	return false
}

// EquipWeapon equips the named weapon if it is present in the inventory.
// Returns false (and leaves the current weapon equipped) otherwise.
func (p *Player) EquipWeapon(name string) bool {
	if !p.HasItem(name) {
		return false
	}
	p.EquippedWeapon = name
	return true
}

// DropLoot removes and returns every inventory entry not retained by the
// given predicate. Dropped entries are normalized loot records.
func (p *Player) DropLoot(retain func(name string) bool) []items.Item {
	var drops []items.Item
	kept := p.Inventory[:0]
	for _, item := range p.Inventory {
		if retain(item.Name) {
			kept = append(kept, item)
		} else {
			drops = append(drops, item.Normalize())
		}
	}
	p.Inventory = kept
	return drops
}
