package player

import "testing"

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		xp    int
	}{
		{1, 150},
		{2, 500},
		{3, 1050},
		{5, 2750},
	}

	for _, tt := range tests {
		if got := XPForLevel(tt.level); got != tt.xp {
			t.Errorf("XPForLevel(%d) = %d, expected %d", tt.level, got, tt.xp)
		}
	}
}

func TestGainXPNoLevelUp(t *testing.T) {
	p := New("id", "Bob", "main", Position{})

	ups := p.GainXP(100)

	if len(ups) != 0 {
		t.Errorf("Expected no level-ups at 100 XP, got %d", len(ups))
	}
	if p.Stats.TotalXP != 100 {
		t.Errorf("Expected 100 total XP, got %d", p.Stats.TotalXP)
	}
	if p.Stats.Level != 1 {
		t.Errorf("Expected level 1, got %d", p.Stats.Level)
	}
}

func TestGainXPSingleLevelUp(t *testing.T) {
	p := New("id", "Bob", "main", Position{})
	p.Stats.Health = 60

	ups := p.GainXP(500)

	if len(ups) != 1 {
		t.Fatalf("Expected 1 level-up at 500 XP, got %d", len(ups))
	}
	if p.Stats.Level != 2 {
		t.Errorf("Expected level 2, got %d", p.Stats.Level)
	}
	if p.Stats.MaxHealth != 120 {
		t.Errorf("Expected max health 120, got %d", p.Stats.MaxHealth)
	}
	if p.Stats.Health != 80 {
		t.Errorf("Expected heal by the health gained (60+20), got %d", p.Stats.Health)
	}
	if p.Stats.Attack != 12 || p.Stats.Defense != 6 {
		t.Errorf("Expected 12 attack / 6 defense, got %d/%d", p.Stats.Attack, p.Stats.Defense)
	}
}

func TestGainXPMultipleLevelUps(t *testing.T) {
	p := New("id", "Bob", "main", Position{})

	// 1050 XP clears the level 2 (500) and level 3 (1050) thresholds.
	ups := p.GainXP(1050)

	if len(ups) != 2 {
		t.Fatalf("Expected 2 level-ups, got %d", len(ups))
	}
	if ups[0].NewLevel != 2 || ups[1].NewLevel != 3 {
		t.Errorf("Expected levels 2 then 3, got %d then %d", ups[0].NewLevel, ups[1].NewLevel)
	}
	if p.Stats.Level != 3 {
		t.Errorf("Expected level 3, got %d", p.Stats.Level)
	}
	if p.Stats.MaxHealth != 140 {
		t.Errorf("Expected max health 140, got %d", p.Stats.MaxHealth)
	}
}

func TestGainXPIgnoresNonPositive(t *testing.T) {
	p := New("id", "Bob", "main", Position{})

	if ups := p.GainXP(0); ups != nil {
		t.Error("Expected zero XP to be a no-op")
	}
	if ups := p.GainXP(-10); ups != nil {
		t.Error("Expected negative XP to be a no-op")
	}
	if p.Stats.TotalXP != 0 {
		t.Errorf("Expected total XP unchanged, got %d", p.Stats.TotalXP)
	}
}
