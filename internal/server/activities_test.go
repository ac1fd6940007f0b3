package server

import (
	"testing"
	"time"

	"github.com/arthur-zhuk/bangfall/internal/player"
)

func TestActivityLookup(t *testing.T) {
	cfg := DefaultActivities()

	mining := cfg.Lookup("mining")
	if mining.XP != 15 || len(mining.Items) != 1 || mining.Items[0].Name != "Rock" {
		t.Errorf("Unexpected mining rewards %+v", mining)
	}

	unknown := cfg.Lookup("basket-weaving")
	if unknown.XP != 5 || len(unknown.Items) != 0 {
		t.Errorf("Expected fallback rewards for unknown activity, got %+v", unknown)
	}
}

func TestActivityCompletionAwardsRewards(t *testing.T) {
	s := newTestServer()
	s.activityCfg.Duration = 10 * time.Millisecond

	alice := joinTestPlayer(t, s, "Alice", "main")
	bob := joinTestPlayer(t, s, "Bob", "main")
	drainMessages(alice)
	drainMessages(bob)

	s.handleStartActivity(alice, mustJSON(t, StartActivityPayload{
		Activity: "mining",
		Position: player.Position{X: 500, Y: 500},
	}))

	bobMsgs := drainMessages(bob)
	if _, ok := findEvent(bobMsgs, EventActivityStart); !ok {
		t.Error("Expected the room to see player-activity-start")
	}

	time.Sleep(60 * time.Millisecond)

	msgs := drainMessages(alice)
	complete, ok := findEvent(msgs, EventActivityComplete)
	if !ok {
		t.Fatal("Expected activity-complete after the duration")
	}
	payload := complete.Data.(ActivityCompletePayload)
	if payload.Activity != "mining" || payload.Rewards.XP != 15 {
		t.Errorf("Unexpected completion payload %+v", payload)
	}

	if alice.player.Stats.TotalXP != 15 {
		t.Errorf("Expected 15 XP awarded, got %d", alice.player.Stats.TotalXP)
	}
	if !alice.player.HasItem("Rock") {
		t.Error("Expected the mined Rock in the inventory")
	}

	bobMsgs = drainMessages(bob)
	if _, ok := findEvent(bobMsgs, EventPlayerActivityComplete); !ok {
		t.Error("Expected the room to see player-activity-complete")
	}

	s.mu.RLock()
	pending := len(s.activities)
	s.mu.RUnlock()
	if pending != 0 {
		t.Errorf("Expected no pending activities, got %d", pending)
	}
}

func TestActivityCanceledOnDisconnect(t *testing.T) {
	s := newTestServer()
	s.activityCfg.Duration = 10 * time.Millisecond

	alice := joinTestPlayer(t, s, "Alice", "main")
	drainMessages(alice)

	s.handleStartActivity(alice, mustJSON(t, StartActivityPayload{Activity: "fishing"}))
	s.cancelActivitiesFor(alice.ID)

	time.Sleep(60 * time.Millisecond)

	if alice.player.Stats.TotalXP != 0 {
		t.Errorf("Canceled activity must not award XP, got %d", alice.player.Stats.TotalXP)
	}
	if countEvent(drainMessages(alice), EventActivityComplete) != 0 {
		t.Error("Canceled activity must not complete")
	}
}

// Timer-driven completions race against connection handlers for the same
// player record. Run with -race to catch unguarded mutation.
func TestConcurrentActivityCompletionAndEquip(t *testing.T) {
	s := newTestServer()
	s.activityCfg.Duration = time.Millisecond

	alice := joinTestPlayer(t, s, "Alice", "main")
	drainMessages(alice)

	for i := 0; i < 20; i++ {
		s.handleStartActivity(alice, mustJSON(t, StartActivityPayload{Activity: "woodcutting"}))
		s.handleEquipWeapon(alice, mustJSON(t, EquipWeaponPayload{Weapon: "bow"}))
		s.handleEquipWeapon(alice, mustJSON(t, EquipWeaponPayload{Weapon: "bronze_sword"}))
		drainMessages(alice)
	}

	time.Sleep(100 * time.Millisecond)

	s.mu.RLock()
	totalXP := alice.player.Stats.TotalXP
	s.mu.RUnlock()
	if totalXP != 20*10 {
		t.Errorf("Expected %d XP from 20 woodcutting completions, got %d", 20*10, totalXP)
	}
}

func TestActivityCompletionTriggersLevelUp(t *testing.T) {
	s := newTestServer()
	s.activityCfg.Duration = time.Millisecond

	alice := joinTestPlayer(t, s, "Alice", "main")
	drainMessages(alice)
	alice.player.Stats.TotalXP = 490 // 10 XP short of level 2

	s.handleStartActivity(alice, mustJSON(t, StartActivityPayload{Activity: "mining"}))
	time.Sleep(50 * time.Millisecond)

	if alice.player.Stats.Level != 2 {
		t.Fatalf("Expected level 2 after crossing the threshold, got %d", alice.player.Stats.Level)
	}

	msgs := drainMessages(alice)
	up, ok := findEvent(msgs, EventPlayerLevelUp)
	if !ok {
		t.Fatal("Expected player-level-up broadcast")
	}
	payload := up.Data.(LevelUpPayload)
	if len(payload.Levels) != 1 || payload.Levels[0].NewLevel != 2 {
		t.Errorf("Unexpected level-up payload %+v", payload)
	}
}
