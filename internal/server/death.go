package server

import (
	"github.com/google/uuid"

	"github.com/arthur-zhuk/bangfall/internal/items"
	"github.com/arthur-zhuk/bangfall/internal/logger"
	"github.com/arthur-zhuk/bangfall/internal/player"
)

// lootDrop is a pile of items on the ground waiting to be picked up.
type lootDrop struct {
	ID       string
	Room     string
	Position player.Position
	Items    []items.Item
}

// handlePlayerDeath runs the duel death sequence: the loser drops
// everything except death-protected weapons, both duelists are healed to
// full, and the loser respawns at the world center.
func (s *Server) handlePlayerDeath(deadID, winnerID string) {
	deadClient, okDead := s.getClient(deadID)
	winnerClient, okWinner := s.getClient(winnerID)
	if !okDead || !okWinner {
		logger.Error("Player not found during death handling",
			"dead_id", deadID, "winner_id", winnerID)
		return
	}

	s.mu.Lock()
	dead := deadClient.player
	winner := winnerClient.player
	if dead == nil || winner == nil {
		s.mu.Unlock()
		logger.Error("Player not found during death handling",
			"dead_id", deadID, "winner_id", winnerID)
		return
	}

	// A completely empty inventory still yields loot.
	if len(dead.Inventory) == 0 {
		for _, item := range items.StarterKit() {
			dead.AddItem(item)
		}
	}

	dropPosition := dead.Position
	drops := dead.DropLoot(s.weapons.KeptOnDeath)

	dead.ResetHealth()
	winner.ResetHealth()

	center := player.Position{}
	center.X, center.Y = s.bounds.Center()
	dead.Position = center

	room := dead.Room
	deadName, winnerName := dead.Username, winner.Username

	var drop *lootDrop
	if len(drops) > 0 {
		drop = &lootDrop{
			ID:       uuid.NewString(),
			Room:     room,
			Position: dropPosition,
			Items:    drops,
		}
		s.groundLoot[drop.ID] = drop
	}
	s.mu.Unlock()

	logger.Info("Player died", "player", deadName, "killer", winnerName)

	if drop != nil {
		s.broadcastToRoom(room, Message{Event: EventLootDropped, Data: LootDroppedPayload{
			LootID:           drop.ID,
			DeadPlayerID:     deadID,
			WinnerPlayerID:   winnerID,
			DeadPlayerName:   deadName,
			WinnerPlayerName: winnerName,
			Position:         dropPosition,
			Loot:             drops,
		}}, "")

		logger.Debug("Loot dropped", "player", deadName, "items", len(drops))
	}

	s.broadcastToRoom(room, Message{Event: EventPlayerRespawned, Data: RespawnedPayload{
		DeadPlayerID:     deadID,
		WinnerPlayerID:   winnerID,
		DeadPlayerName:   deadName,
		WinnerPlayerName: winnerName,
		NewPosition:      center,
	}}, "")

	// The respawned player and the room both need the new position.
	moved := Message{Event: EventPlayerMoved, Data: MovedPayload{
		PlayerID: deadID,
		Position: center,
	}}
	deadClient.Send(moved)
	s.broadcastToRoom(room, moved, deadID)

	logger.Info("Player respawned", "player", deadName, "x", center.X, "y", center.Y)
}
