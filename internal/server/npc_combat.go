package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arthur-zhuk/bangfall/internal/logger"
	"github.com/arthur-zhuk/bangfall/internal/npc"
	"github.com/arthur-zhuk/bangfall/internal/player"
)

// npcCombat is one player-versus-monster fight. Combat runs on stat
// snapshots; the live player record is only touched when the fight ends.
type npcCombat struct {
	ID          string
	PlayerID    string
	NPCType     string
	PlayerStats player.Stats
	NPC         npc.Stats
	Position    player.Position
	Turn        string
	StartTime   time.Time
}

// handleStartCombat spins up an NPC fight scaled to the player's level.
func (s *Server) handleStartCombat(client *Client, data json.RawMessage) {
	p := client.player
	if p == nil {
		return
	}

	var payload StartCombatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}
	if payload.TargetType != "npc" {
		return
	}

	combatID := fmt.Sprintf("combat_%s_%d", client.ID, time.Now().UnixMilli())

	s.mu.Lock()
	if p.InCombat {
		s.mu.Unlock()
		return
	}
	combat := &npcCombat{
		ID:          combatID,
		PlayerID:    client.ID,
		NPCType:     payload.TargetID,
		PlayerStats: p.Stats,
		NPC:         s.npcs.Generate(payload.TargetID, p.Stats.Level),
		Position:    payload.Position,
		Turn:        "player",
		StartTime:   time.Now(),
	}
	s.npcCombats[combatID] = combat
	p.StartCombat(combatID)
	s.mu.Unlock()

	started := CombatStartedPayload{
		ID:          combatID,
		Type:        "npc",
		PlayerID:    client.ID,
		TargetType:  "npc",
		TargetID:    payload.TargetID,
		PlayerStats: combat.PlayerStats,
		NPCStats:    combat.NPC,
		Position:    payload.Position,
		Turn:        "player",
	}
	client.Send(Message{Event: EventCombatStarted, Data: started})
	s.broadcastToRoom(p.Room, Message{Event: EventPlayerCombatStart, Data: PlayerCombatStartPayload{
		PlayerID: client.ID,
		Position: payload.Position,
		Combat:   started,
	}}, client.ID)

	logger.Debug("NPC combat started",
		"player", p.Username,
		"npc", combat.NPC.Type,
		"combat_id", combatID)
}

// handleCombatAction resolves one round: the player strikes, and if the
// monster survives it strikes back.
func (s *Server) handleCombatAction(client *Client, data json.RawMessage) {
	p := client.player
	if p == nil {
		return
	}

	var payload CombatActionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	s.mu.Lock()
	combat, ok := s.npcCombats[payload.CombatID]
	if !ok || combat.PlayerID != client.ID {
		s.mu.Unlock()
		return
	}

	result := resolveCombatRound(combat, payload.Action)
	if result.CombatEnded {
		delete(s.npcCombats, payload.CombatID)
	}
	s.mu.Unlock()

	if result.CombatEnded && result.Victory {
		result.XPGained = combat.NPC.XPReward
	}
	client.Send(Message{Event: EventCombatUpdate, Data: result})

	if result.CombatEnded {
		s.endNPCCombat(client, result.Victory, combat.NPC.XPReward)
	}
}

// resolveCombatRound mutates the combat snapshot and reports the outcome.
// Caller holds the server lock.
func resolveCombatRound(combat *npcCombat, action string) CombatUpdatePayload {
	result := CombatUpdatePayload{
		CombatID:     combat.ID,
		PlayerAction: action,
		PlayerHealth: combat.PlayerStats.Health,
	}

	playerDamage := npc.Damage(combat.PlayerStats.Attack, combat.NPC.Defense)
	combat.NPC.Health -= playerDamage
	if combat.NPC.Health < 0 {
		combat.NPC.Health = 0
	}
	result.PlayerDamage = playerDamage
	result.NPCHealth = combat.NPC.Health

	if combat.NPC.Health <= 0 {
		result.CombatEnded = true
		result.Victory = true
		return result
	}

	npcDamage := npc.Damage(combat.NPC.Attack, combat.PlayerStats.Defense)
	combat.PlayerStats.Health -= npcDamage
	if combat.PlayerStats.Health < 0 {
		combat.PlayerStats.Health = 0
	}
	result.NPCDamage = npcDamage
	result.PlayerHealth = combat.PlayerStats.Health

	if combat.PlayerStats.Health <= 0 {
		result.CombatEnded = true
	}
	return result
}

// endNPCCombat settles the fight on the live player record. Victory pays
// the monster's XP reward; defeat restores the player to full health.
func (s *Server) endNPCCombat(client *Client, victory bool, xpReward int) {
	s.mu.Lock()
	p := client.player
	if p == nil {
		s.mu.Unlock()
		return
	}
	var ups []player.LevelUp
	if victory {
		ups = p.GainXP(xpReward)
	} else {
		p.ResetHealth()
	}
	p.EndCombat()
	room, name := p.Room, p.Username
	s.mu.Unlock()

	s.broadcastToRoom(room, Message{Event: EventPlayerCombatEnd, Data: PlayerCombatEndPayload{
		PlayerID: client.ID,
		Victory:  victory,
	}}, "")

	s.announceLevelUps(client, ups)

	logger.Debug("NPC combat ended",
		"player", name,
		"victory", victory,
		"xp", xpReward)
}

// abortNPCCombatFor drops any NPC fight owned by the client without paying
// rewards. Used on disconnect.
func (s *Server) abortNPCCombatFor(client *Client) {
	p := client.player
	if p == nil {
		return
	}

	s.mu.Lock()
	combat, ok := s.npcCombats[p.CombatTarget]
	if ok && combat.PlayerID == client.ID {
		delete(s.npcCombats, p.CombatTarget)
		p.EndCombat()
	} else {
		ok = false
	}
	room := p.Room
	s.mu.Unlock()

	if ok {
		s.broadcastToRoom(room, Message{Event: EventPlayerCombatEnd, Data: PlayerCombatEndPayload{
			PlayerID: client.ID,
			Victory:  false,
		}}, client.ID)
	}
}
