package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/arthur-zhuk/bangfall/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.StartTime).Seconds(),
	})
}

// handleStatus reports live session counts.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	players := len(s.clients)
	activities := len(s.activities)
	combats := len(s.npcCombats) + len(s.pvpCombats)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"players":    players,
		"rooms":      s.rooms.RoomCount(),
		"activities": activities,
		"combats":    combats,
		"uptime":     time.Since(s.StartTime).Seconds(),
	})
}

// queryLimit parses the optional ?limit= parameter.
func queryLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// handleMatches serves the recent duel history.
func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "Match history unavailable", http.StatusServiceUnavailable)
		return
	}

	matches, err := s.db.RecentMatches(queryLimit(r, 20))
	if err != nil {
		logger.Error("Failed to query matches", "error", err)
		http.Error(w, "Failed to query matches", http.StatusInternalServerError)
		return
	}
	total, err := s.db.MatchCount()
	if err != nil {
		logger.Error("Failed to count matches", "error", err)
		http.Error(w, "Failed to query matches", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches, "total": total})
}

// handleLeaderboard serves the duel win/loss ranking.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "Leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}

	entries, err := s.db.Leaderboard(queryLimit(r, 10))
	if err != nil {
		logger.Error("Failed to query leaderboard", "error", err)
		http.Error(w, "Failed to query leaderboard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}
