package database

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndRecentMatches(t *testing.T) {
	db := openTestDB(t)

	base := time.Now().Add(-time.Hour)
	records := []MatchRecord{
		{Room: "main", WinnerName: "Alice", LoserName: "Bob", WinnerLevel: 2, LoserLevel: 1, Rounds: 6, XPAwarded: 50, EndedBy: "defeat", FinishedAt: base},
		{Room: "main", WinnerName: "Bob", LoserName: "Carol", WinnerLevel: 1, LoserLevel: 3, Rounds: 9, XPAwarded: 50, EndedBy: "defeat", FinishedAt: base.Add(time.Minute)},
		{Room: "arena", WinnerName: "Alice", LoserName: "Carol", WinnerLevel: 2, LoserLevel: 3, Rounds: 2, XPAwarded: 50, EndedBy: "disconnect", FinishedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range records {
		if err := db.RecordMatch(r); err != nil {
			t.Fatalf("Failed to record match: %v", err)
		}
	}

	matches, err := db.RecentMatches(10)
	if err != nil {
		t.Fatalf("Failed to query recent matches: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(matches))
	}
	if matches[0].WinnerName != "Alice" || matches[0].EndedBy != "disconnect" {
		t.Errorf("Expected newest match first, got %+v", matches[0])
	}
	if matches[2].LoserName != "Bob" {
		t.Errorf("Expected oldest match last, got %+v", matches[2])
	}
}

func TestRecentMatchesHonorsLimit(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 5; i++ {
		err := db.RecordMatch(MatchRecord{
			Room: "main", WinnerName: "Alice", LoserName: "Bob",
			WinnerLevel: 1, LoserLevel: 1, Rounds: 1, XPAwarded: 50,
			EndedBy: "defeat", FinishedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("Failed to record match: %v", err)
		}
	}

	matches, err := db.RecentMatches(2)
	if err != nil {
		t.Fatalf("Failed to query recent matches: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 matches, got %d", len(matches))
	}
}

func TestLeaderboardAggregatesWinsAndLosses(t *testing.T) {
	db := openTestDB(t)

	duels := []struct{ winner, loser string }{
		{"Alice", "Bob"},
		{"Alice", "Carol"},
		{"Bob", "Carol"},
	}
	for _, duel := range duels {
		err := db.RecordMatch(MatchRecord{
			Room: "main", WinnerName: duel.winner, LoserName: duel.loser,
			WinnerLevel: 1, LoserLevel: 1, Rounds: 3, XPAwarded: 50,
			EndedBy: "defeat", FinishedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("Failed to record match: %v", err)
		}
	}

	entries, err := db.Leaderboard(10)
	if err != nil {
		t.Fatalf("Failed to query leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 leaderboard entries, got %d", len(entries))
	}

	if entries[0].PlayerName != "Alice" || entries[0].Wins != 2 || entries[0].Losses != 0 {
		t.Errorf("Expected Alice 2-0 at the top, got %+v", entries[0])
	}

	for _, e := range entries {
		if e.PlayerName == "Carol" {
			if e.Wins != 0 || e.Losses != 2 {
				t.Errorf("Expected Carol 0-2, got %+v", e)
			}
		}
	}
}

func TestMatchCount(t *testing.T) {
	db := openTestDB(t)

	count, err := db.MatchCount()
	if err != nil {
		t.Fatalf("Failed to count matches: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 matches in a fresh database, got %d", count)
	}

	err = db.RecordMatch(MatchRecord{
		Room: "main", WinnerName: "Alice", LoserName: "Bob",
		WinnerLevel: 1, LoserLevel: 1, Rounds: 1, XPAwarded: 50,
		EndedBy: "defeat", FinishedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to record match: %v", err)
	}

	count, err = db.MatchCount()
	if err != nil {
		t.Fatalf("Failed to count matches: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 match, got %d", count)
	}
}
