package database

import (
	"time"
)

// MatchRecord is one finished duel.
type MatchRecord struct {
	ID          int64     `json:"id"`
	Room        string    `json:"room"`
	WinnerName  string    `json:"winner"`
	LoserName   string    `json:"loser"`
	WinnerLevel int       `json:"winnerLevel"`
	LoserLevel  int       `json:"loserLevel"`
	Rounds      int       `json:"rounds"`
	XPAwarded   int       `json:"xpAwarded"`
	EndedBy     string    `json:"endedBy"` // "defeat" or "disconnect"
	FinishedAt  time.Time `json:"finishedAt"`
}

// LeaderboardEntry aggregates a player's duel record by display name.
type LeaderboardEntry struct {
	PlayerName string `json:"player"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
}

// RecordMatch stores a finished duel.
func (d *Database) RecordMatch(m MatchRecord) error {
	query := d.qb.Build(`
		INSERT INTO matches (room, winner_name, loser_name, winner_level, loser_level, rounds, xp_awarded, ended_by, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := d.db.Exec(query,
		m.Room, m.WinnerName, m.LoserName, m.WinnerLevel, m.LoserLevel,
		m.Rounds, m.XPAwarded, m.EndedBy, m.FinishedAt)
	return err
}

// RecentMatches returns the most recently finished duels, newest first.
func (d *Database) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := d.qb.Build(`
		SELECT id, room, winner_name, loser_name, winner_level, loser_level, rounds, xp_awarded, ended_by, finished_at
		FROM matches
		ORDER BY finished_at DESC
		LIMIT ?
	`)
	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []MatchRecord
	for rows.Next() {
		var m MatchRecord
		if err := rows.Scan(&m.ID, &m.Room, &m.WinnerName, &m.LoserName,
			&m.WinnerLevel, &m.LoserLevel, &m.Rounds, &m.XPAwarded,
			&m.EndedBy, &m.FinishedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Leaderboard returns players ranked by wins. Players who only ever lost
// still appear with zero wins.
func (d *Database) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := d.qb.Build(`
		SELECT player, SUM(wins) AS wins, SUM(losses) AS losses
		FROM (
			SELECT winner_name AS player, 1 AS wins, 0 AS losses FROM matches
			UNION ALL
			SELECT loser_name AS player, 0 AS wins, 1 AS losses FROM matches
		) outcomes
		GROUP BY player
		ORDER BY wins DESC, losses ASC
		LIMIT ?
	`)
	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerName, &e.Wins, &e.Losses); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MatchCount returns the total number of recorded duels.
func (d *Database) MatchCount() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM matches`).Scan(&count)
	return count, err
}
