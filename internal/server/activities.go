package server

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-zhuk/bangfall/internal/items"
	"github.com/arthur-zhuk/bangfall/internal/logger"
	"github.com/arthur-zhuk/bangfall/internal/player"
)

// Rewards is what a completed activity pays out.
type Rewards struct {
	XP    int          `json:"xp" yaml:"xp"`
	Items []items.Item `json:"items" yaml:"items"`
}

// ActivityConfig holds the reward table keyed by activity name, plus the
// shared activity duration.
type ActivityConfig struct {
	Duration time.Duration
	rewards  map[string]Rewards
	fallback Rewards
}

// DefaultActivities returns the built-in activity table.
func DefaultActivities() *ActivityConfig {
	return &ActivityConfig{
		Duration: 2 * time.Second,
		rewards: map[string]Rewards{
			"mining":      {XP: 15, Items: []items.Item{{ID: 1, Name: "Rock", Quantity: 1}}},
			"fishing":     {XP: 12, Items: []items.Item{{ID: 7, Name: "Raw Fish", Quantity: 1}}},
			"cooking":     {XP: 18, Items: []items.Item{{ID: 8, Name: "Cooked Fish", Quantity: 1}}},
			"woodcutting": {XP: 10, Items: []items.Item{{ID: 2, Name: "Wood", Quantity: 1}}},
		},
		fallback: Rewards{XP: 5, Items: []items.Item{}},
	}
}

// LoadActivitiesFromYAML loads the activity table from a YAML file.
func LoadActivitiesFromYAML(path string) (*ActivityConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read activities file: %w", err)
	}

	var raw struct {
		DurationMS int                `yaml:"duration_ms"`
		Activities map[string]Rewards `yaml:"activities"`
		Fallback   *Rewards           `yaml:"fallback"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse activities file: %w", err)
	}
	if len(raw.Activities) == 0 {
		return nil, fmt.Errorf("activities file %s defines no activities", path)
	}

	cfg := DefaultActivities()
	cfg.rewards = raw.Activities
	if raw.DurationMS > 0 {
		cfg.Duration = time.Duration(raw.DurationMS) * time.Millisecond
	}
	if raw.Fallback != nil {
		cfg.fallback = *raw.Fallback
	}
	return cfg, nil
}

// Lookup returns the rewards for an activity. Unknown activities pay the
// fallback reward.
func (ac *ActivityConfig) Lookup(activity string) Rewards {
	if r, ok := ac.rewards[activity]; ok {
		return r
	}
	return ac.fallback
}

// activityRecord is one in-flight activity. The timer fires its completion.
type activityRecord struct {
	ID       string
	PlayerID string
	Activity string
	Position player.Position
	timer    *time.Timer
}

// handleStartActivity registers the activity, announces it to the room, and
// schedules its completion.
func (s *Server) handleStartActivity(client *Client, data json.RawMessage) {
	p := client.player
	if p == nil {
		return
	}

	var payload StartActivityPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	activityID := fmt.Sprintf("%s_%d", client.ID, time.Now().UnixMilli())
	record := &activityRecord{
		ID:       activityID,
		PlayerID: client.ID,
		Activity: payload.Activity,
		Position: payload.Position,
	}

	s.mu.Lock()
	s.activities[activityID] = record
	s.mu.Unlock()

	s.broadcastToRoom(p.Room, Message{Event: EventActivityStart, Data: ActivityStartPayload{
		PlayerID: client.ID,
		Activity: payload.Activity,
		Position: payload.Position,
	}}, client.ID)

	record.timer = time.AfterFunc(s.activityCfg.Duration, func() {
		s.completeActivity(activityID)
	})
}

// completeActivity awards the rewards if the activity is still live and the
// player is still connected.
func (s *Server) completeActivity(activityID string) {
	s.mu.Lock()
	record, ok := s.activities[activityID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.activities, activityID)
	s.mu.Unlock()

	client, ok := s.getClient(record.PlayerID)
	if !ok {
		return
	}

	rewards := s.activityCfg.Lookup(record.Activity)

	s.mu.Lock()
	p := client.player
	if p == nil {
		s.mu.Unlock()
		return
	}
	ups := p.GainXP(rewards.XP)
	for _, item := range rewards.Items {
		p.AddItem(item)
	}
	s.mu.Unlock()

	client.Send(Message{Event: EventActivityComplete, Data: ActivityCompletePayload{
		Activity: record.Activity,
		Rewards:  rewards,
	}})

	s.broadcastToRoom(p.Room, Message{Event: EventPlayerActivityComplete, Data: PlayerActivityCompletePayload{
		PlayerID: record.PlayerID,
		Activity: record.Activity,
		Rewards:  rewards,
	}}, record.PlayerID)

	s.announceLevelUps(client, ups)

	logger.Debug("Activity completed",
		"player", p.Username,
		"activity", record.Activity,
		"xp", rewards.XP)
}

// cancelActivitiesFor stops and removes every pending activity owned by the
// player. Called on disconnect so timers cannot fire for a gone player.
func (s *Server) cancelActivitiesFor(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, record := range s.activities {
		if record.PlayerID != playerID {
			continue
		}
		if record.timer != nil {
			record.timer.Stop()
		}
		delete(s.activities, id)
	}
}

// announceLevelUps tells the player and the room about any levels gained.
// Callers must not hold the state lock.
func (s *Server) announceLevelUps(client *Client, ups []player.LevelUp) {
	if len(ups) == 0 {
		return
	}

	s.mu.RLock()
	p := client.player
	if p == nil {
		s.mu.RUnlock()
		return
	}
	payload := LevelUpPayload{
		PlayerID: client.ID,
		Username: p.Username,
		Levels:   ups,
		Stats:    p.Stats,
	}
	room := p.Room
	level, totalXP := p.Stats.Level, p.Stats.TotalXP
	s.mu.RUnlock()

	s.broadcastToRoom(room, Message{Event: EventPlayerLevelUp, Data: payload}, "")

	logger.Info("Player leveled up",
		"player", payload.Username,
		"level", level,
		"total_xp", totalXP)
}
