package server

import (
	"encoding/json"
	"time"

	"github.com/arthur-zhuk/bangfall/internal/logger"
	"github.com/arthur-zhuk/bangfall/internal/player"
	"github.com/arthur-zhuk/bangfall/internal/world"
)

// handleJoinGame creates the player record and announces it to the room.
// A client may only join once per connection.
func (s *Server) handleJoinGame(client *Client, data json.RawMessage) {
	if client.player != nil {
		client.Send(Message{Event: EventError, Data: ErrorPayload{Message: "Already joined"}})
		return
	}

	var payload JoinGamePayload
	if data != nil {
		json.Unmarshal(data, &payload)
	}

	room := payload.Room
	if room == "" {
		room = world.DefaultRoom
	}

	username := s.nameFilter.Clean(payload.Username)
	if reason := s.nameFilter.Check(username); reason != "" {
		logger.Info("Username rejected", "client_id", client.ID, "reason", reason)
		username = ""
	}

	x, y := s.bounds.SpawnPoint()
	p := player.New(client.ID, username, room, player.Position{X: x, Y: y})

	s.mu.Lock()
	client.player = p
	s.mu.Unlock()

	s.rooms.Join(room, client.ID)

	client.Send(Message{Event: EventPlayerData, Data: p.Snapshot()})

	// Send the rest of the room to the new player.
	others := make([]player.Payload, 0)
	s.mu.RLock()
	for _, id := range s.rooms.Players(room) {
		if id == client.ID {
			continue
		}
		if other, ok := s.clients[id]; ok && other.player != nil {
			others = append(others, other.player.Snapshot())
		}
	}
	s.mu.RUnlock()
	client.Send(Message{Event: EventOtherPlayers, Data: others})

	s.broadcastToRoom(room, Message{Event: EventPlayerJoined, Data: p.Snapshot()}, client.ID)

	logger.Info("Player joined", "player", p.Username, "room", room, "client_id", client.ID)
}

// handlePlayerMove updates the player's position, clamped to the playable
// area, and relays it to the room.
func (s *Server) handlePlayerMove(client *Client, data json.RawMessage) {
	p := client.player
	if p == nil {
		return
	}

	var payload MovePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	x, y := s.bounds.Clamp(payload.X, payload.Y)

	s.mu.Lock()
	p.Position = player.Position{X: x, Y: y}
	p.Direction = payload.Direction
	moved := MovedPayload{
		PlayerID:  client.ID,
		Position:  p.Position,
		Direction: p.Direction,
	}
	s.mu.Unlock()

	s.broadcastToRoom(p.Room, Message{Event: EventPlayerMoved, Data: moved}, client.ID)
}

// handleChatMessage runs the message through the spam tracker and the word
// filter, then broadcasts it to the sender's room (sender included).
func (s *Server) handleChatMessage(client *Client, data json.RawMessage) {
	p := client.player
	if p == nil {
		return
	}

	var payload ChatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	verdict := client.spam.Check(payload.Message)
	if !verdict.Allowed {
		client.Send(Message{Event: EventChatBlocked, Data: ChatBlockedPayload{
			Reason:      verdict.Reason,
			WaitSeconds: verdict.WaitSeconds,
		}})
		return
	}

	message, ok := s.chatFilter.Sanitize(payload.Message)
	if !ok {
		client.Send(Message{Event: EventChatBlocked, Data: ChatBlockedPayload{
			Reason: "Message not allowed.",
		}})
		return
	}

	s.broadcastToRoom(p.Room, Message{
		Event: EventChatMessage,
		Data: ChatBroadcastPayload{
			PlayerID:  client.ID,
			Username:  p.Username,
			Message:   message,
			Timestamp: time.Now().UnixMilli(),
		},
	}, "")
}

// handleEquipWeapon equips a weapon the player actually owns. Unknown or
// unowned weapons are ignored.
func (s *Server) handleEquipWeapon(client *Client, data json.RawMessage) {
	p := client.player
	if p == nil {
		return
	}

	var payload EquipWeaponPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	s.mu.Lock()
	equipped := p.EquipWeapon(payload.Weapon)
	s.mu.Unlock()

	if equipped {
		client.Send(Message{Event: EventWeaponEquipped, Data: WeaponEquippedPayload{Weapon: payload.Weapon}})
		logger.Debug("Weapon equipped", "player", p.Username, "weapon", payload.Weapon)
	}
}

// handlePickupLoot transfers a ground loot drop into the player's inventory
// if the player is close enough to it.
func (s *Server) handlePickupLoot(client *Client, data json.RawMessage) {
	p := client.player
	if p == nil {
		return
	}

	var payload PickupLootPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	s.mu.Lock()
	drop, ok := s.groundLoot[payload.LootID]
	if !ok || drop.Room != p.Room {
		s.mu.Unlock()
		client.Send(Message{Event: EventLootPickupFailed, Data: LootPickupFailedPayload{Reason: "Loot not found"}})
		return
	}

	distance := p.Position.Distance(drop.Position)
	if distance > s.serverConfig.Combat.PickupRange {
		s.mu.Unlock()
		client.Send(Message{Event: EventLootPickupFailed, Data: LootPickupFailedPayload{
			Reason:   "Too far away",
			Distance: int(distance),
		}})
		return
	}

	delete(s.groundLoot, payload.LootID)
	for _, item := range drop.Items {
		p.AddItem(item)
	}
	s.mu.Unlock()

	client.Send(Message{Event: EventLootPickupSuccess, Data: LootPickupSuccessPayload{
		LootID: payload.LootID,
		Items:  drop.Items,
	}})

	s.broadcastToRoom(p.Room, Message{Event: EventLootPickedUp, Data: LootPickedUpPayload{
		PlayerID:   client.ID,
		PlayerName: p.Username,
		LootID:     payload.LootID,
	}}, client.ID)

	logger.Debug("Loot picked up", "player", p.Username, "loot_id", payload.LootID, "distance", int(distance))
}
