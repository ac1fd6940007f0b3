package player

import (
	"strings"
	"testing"

	"github.com/arthur-zhuk/bangfall/internal/items"
)

func TestNewPlayerDefaults(t *testing.T) {
	p := New("abc123def", "Alice", "main", Position{X: 800, Y: 600})

	if p.Stats.Level != 1 {
		t.Errorf("Expected level 1, got %d", p.Stats.Level)
	}
	if p.Stats.Health != 100 || p.Stats.MaxHealth != 100 {
		t.Errorf("Expected 100/100 health, got %d/%d", p.Stats.Health, p.Stats.MaxHealth)
	}
	if p.Stats.Attack != 10 || p.Stats.Defense != 5 {
		t.Errorf("Expected 10 attack / 5 defense, got %d/%d", p.Stats.Attack, p.Stats.Defense)
	}
	if len(p.Inventory) != 3 {
		t.Errorf("Expected 3 starter items, got %d", len(p.Inventory))
	}
	if p.EquippedWeapon != "bronze_sword" {
		t.Errorf("Expected bronze_sword equipped, got %s", p.EquippedWeapon)
	}
}

func TestNewPlayerFallbackName(t *testing.T) {
	p := New("abc123def456", "", "main", Position{})

	if !strings.HasPrefix(p.Username, "Player_") {
		t.Errorf("Expected generated username, got %s", p.Username)
	}
	if p.Username != "Player_abc123" {
		t.Errorf("Expected Player_abc123, got %s", p.Username)
	}
}

func TestHealClampsAtMax(t *testing.T) {
	p := New("id", "Bob", "main", Position{})
	p.Stats.Health = 90

	p.Heal(50)

	if p.Stats.Health != p.Stats.MaxHealth {
		t.Errorf("Expected health clamped at %d, got %d", p.Stats.MaxHealth, p.Stats.Health)
	}
}

func TestAddItemStacksByID(t *testing.T) {
	p := New("id", "Bob", "main", Position{})

	p.AddItem(items.Item{ID: 203, Name: "arrows", Quantity: 50})

	for _, item := range p.Inventory {
		if item.ID == 203 && item.Quantity != 150 {
			t.Errorf("Expected arrows stacked to 150, got %d", item.Quantity)
		}
	}
	if len(p.Inventory) != 3 {
		t.Errorf("Expected no new slot for stacked item, got %d slots", len(p.Inventory))
	}

	p.AddItem(items.Item{ID: 1, Name: "Rock"})
	if len(p.Inventory) != 4 {
		t.Errorf("Expected new slot for new item, got %d slots", len(p.Inventory))
	}
}

func TestEquipWeaponRequiresInventory(t *testing.T) {
	p := New("id", "Bob", "main", Position{})

	if p.EquipWeapon("excalibur") {
		t.Error("Expected equipping an unowned weapon to fail")
	}
	if p.EquippedWeapon != "bronze_sword" {
		t.Errorf("Expected weapon unchanged after failed equip, got %s", p.EquippedWeapon)
	}

	if !p.EquipWeapon("bow") {
		t.Error("Expected equipping an owned weapon to succeed")
	}
	if p.EquippedWeapon != "bow" {
		t.Errorf("Expected bow equipped, got %s", p.EquippedWeapon)
	}
}

func TestDropLootRetainsKeptItems(t *testing.T) {
	p := New("id", "Bob", "main", Position{})
	p.AddItem(items.Item{ID: 1, Name: "Rock", Quantity: 5})

	kept := map[string]bool{"bronze_sword": true, "bow": true}
	drops := p.DropLoot(func(name string) bool { return kept[name] })

	if len(drops) != 2 {
		t.Fatalf("Expected arrows and Rock dropped, got %d drops", len(drops))
	}
	for _, d := range drops {
		if kept[d.Name] {
			t.Errorf("Kept item %s should not be dropped", d.Name)
		}
	}
	if len(p.Inventory) != 2 {
		t.Errorf("Expected 2 items retained, got %d", len(p.Inventory))
	}
	if !p.HasItem("bronze_sword") || !p.HasItem("bow") {
		t.Error("Expected bronze_sword and bow retained after death")
	}
}

func TestSnapshotCopiesInventory(t *testing.T) {
	p := New("id", "Bob", "main", Position{})

	snap := p.Snapshot()
	snap.Inventory[0].Quantity = 999

	if p.Inventory[0].Quantity == 999 {
		t.Error("Snapshot inventory should not alias the player inventory")
	}
}

func TestDistance(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 3, Y: 4}

	if d := a.Distance(b); d != 5 {
		t.Errorf("Expected distance 5, got %f", d)
	}
}
