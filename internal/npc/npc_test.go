package npc

import "testing"

func TestGenerateLevelOneUsesBaseStats(t *testing.T) {
	cfg := DefaultArchetypes()

	goblin := cfg.Generate("goblin", 1)

	if goblin.Health != 30 || goblin.MaxHealth != 30 {
		t.Errorf("Expected 30/30 health, got %d/%d", goblin.Health, goblin.MaxHealth)
	}
	if goblin.Attack != 8 || goblin.Defense != 2 {
		t.Errorf("Expected 8 attack / 2 defense, got %d/%d", goblin.Attack, goblin.Defense)
	}
	if goblin.XPReward != 15 {
		t.Errorf("Expected 15 XP reward, got %d", goblin.XPReward)
	}
}

func TestGenerateScalesWithPlayerLevel(t *testing.T) {
	cfg := DefaultArchetypes()

	// Level 3 applies a 1.4x multiplier, floored per stat.
	orc := cfg.Generate("orc", 3)

	if orc.Health != 84 {
		t.Errorf("Expected 84 health (60 * 1.4), got %d", orc.Health)
	}
	if orc.Attack != 16 {
		t.Errorf("Expected 16 attack (floor of 12 * 1.4), got %d", orc.Attack)
	}
	if orc.Defense != 5 {
		t.Errorf("Expected 5 defense (floor of 4 * 1.4), got %d", orc.Defense)
	}
	if orc.XPReward != 35 {
		t.Errorf("Expected 35 XP reward (25 * 1.4), got %d", orc.XPReward)
	}
}

func TestGenerateUnknownTypeFallsBack(t *testing.T) {
	cfg := DefaultArchetypes()

	m := cfg.Generate("dragon", 1)

	if m.Type != "goblin" {
		t.Errorf("Expected fallback to goblin, got %s", m.Type)
	}
}

func TestGenerateClampsLevel(t *testing.T) {
	cfg := DefaultArchetypes()

	m := cfg.Generate("skeleton", 0)

	if m.Level != 1 {
		t.Errorf("Expected level clamped to 1, got %d", m.Level)
	}
	if m.Health != 40 {
		t.Errorf("Expected base stats at clamped level, got %d health", m.Health)
	}
}

func TestDamageRespectsFloorAndVariance(t *testing.T) {
	// Defense exceeding attack still deals at least the floored minimum.
	for i := 0; i < 100; i++ {
		dmg := Damage(5, 50)
		if dmg < 0 || dmg > 1 {
			t.Fatalf("Damage(5, 50) = %d, expected 0 or 1 from base 1", dmg)
		}
	}

	// Base 10 scaled by [0.8, 1.2) stays within [8, 12).
	for i := 0; i < 100; i++ {
		dmg := Damage(15, 5)
		if dmg < 8 || dmg > 11 {
			t.Fatalf("Damage(15, 5) = %d, expected [8, 11]", dmg)
		}
	}
}
