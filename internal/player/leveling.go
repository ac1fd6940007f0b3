package player

// Per-level stat growth applied on each level gained.
const (
	healthPerLevel  = 20
	attackPerLevel  = 2
	defensePerLevel = 1
)

// LevelUp describes a single level gained while awarding experience.
type LevelUp struct {
	NewLevel    int `json:"newLevel"`
	HealthGain  int `json:"healthGain"`
	AttackGain  int `json:"attackGain"`
	DefenseGain int `json:"defenseGain"`
}

// XPForLevel returns the total experience required to reach the given level.
func XPForLevel(level int) int {
	return level*level*100 + level*50
}

// GainXP adds experience and applies any level-ups earned. Each level gained
// raises max health, attack, and defense, and heals the player by the health
// gained. Returns one entry per level gained, oldest first.
func (p *Player) GainXP(amount int) []LevelUp {
	if amount <= 0 {
		return nil
	}
	p.Stats.TotalXP += amount

	var ups []LevelUp
	for p.Stats.TotalXP >= XPForLevel(p.Stats.Level+1) {
		p.Stats.Level++
		p.Stats.MaxHealth += healthPerLevel
		p.Stats.Attack += attackPerLevel
		p.Stats.Defense += defensePerLevel
		p.Heal(healthPerLevel)
		ups = append(ups, LevelUp{
			NewLevel:    p.Stats.Level,
			HealthGain:  healthPerLevel,
			AttackGain:  attackPerLevel,
			DefenseGain: defensePerLevel,
		})
	}
	return ups
}
