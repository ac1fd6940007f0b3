package server

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/arthur-zhuk/bangfall/internal/database"
	"github.com/arthur-zhuk/bangfall/internal/dice"
	"github.com/arthur-zhuk/bangfall/internal/items"
	"github.com/arthur-zhuk/bangfall/internal/logger"
	"github.com/arthur-zhuk/bangfall/internal/player"
)

// challenge is a pending duel invitation.
type challenge struct {
	ID             string
	ChallengerID   string
	ChallengerName string
	TargetID       string
	TargetName     string
	CreatedAt      time.Time
}

// pvpFighter is one side of a duel. Stats are a snapshot taken when the
// duel starts; position and weapon are read live from the player each tick.
type pvpFighter struct {
	ID    string
	Name  string
	Stats player.Stats
}

// pvpCombat is a running duel driven by its own ticker goroutine.
type pvpCombat struct {
	ID        string
	Room      string
	Player1   *pvpFighter
	Player2   *pvpFighter
	Turn      string
	Round     int
	Status    string // "active" or "ended"
	StartTime time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func (c *pvpCombat) halt() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// fighterFor returns the fighter entry and its opponent for the given id.
func (c *pvpCombat) fighterFor(id string) (self, opponent *pvpFighter) {
	if c.Player1.ID == id {
		return c.Player1, c.Player2
	}
	return c.Player2, c.Player1
}

// combatTypeLabel names a combat for challenge rejection messages.
func (s *Server) combatTypeLabel(combatID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.pvpCombats[combatID]; ok {
		return "PvP combat"
	}
	return "NPC combat"
}

// handleChallengePlayer validates and delivers a duel invitation.
func (s *Server) handleChallengePlayer(client *Client, data json.RawMessage) {
	challenger := client.player
	if challenger == nil {
		return
	}

	var payload ChallengePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	target, ok := s.getClient(payload.TargetPlayerID)
	if !ok {
		client.Send(Message{Event: EventChallengeFailed, Data: ChallengeFailedPayload{Reason: "Player not found"}})
		return
	}

	s.mu.RLock()
	targetP := target.player
	var targetBusy bool
	var targetCombat string
	if targetP != nil {
		targetBusy, targetCombat = targetP.InCombat, targetP.CombatTarget
	}
	challengerBusy, challengerCombat := challenger.InCombat, challenger.CombatTarget
	s.mu.RUnlock()

	if targetP == nil {
		client.Send(Message{Event: EventChallengeFailed, Data: ChallengeFailedPayload{Reason: "Player not found"}})
		return
	}

	if targetP.Room != challenger.Room {
		client.Send(Message{Event: EventChallengeFailed, Data: ChallengeFailedPayload{Reason: "Player is in a different room"}})
		return
	}

	if challengerBusy {
		label := s.combatTypeLabel(challengerCombat)
		client.Send(Message{Event: EventChallengeFailed, Data: ChallengeFailedPayload{
			Reason: fmt.Sprintf("You are already in %s! Finish your current fight first.", label),
		}})
		return
	}

	if targetBusy {
		label := s.combatTypeLabel(targetCombat)
		client.Send(Message{Event: EventChallengeFailed, Data: ChallengeFailedPayload{
			Reason: fmt.Sprintf("%s is already in %s! Wait for them to finish.", targetP.Username, label),
		}})
		return
	}

	ch := &challenge{
		ID:             fmt.Sprintf("challenge_%s_%s_%d", client.ID, payload.TargetPlayerID, time.Now().UnixMilli()),
		ChallengerID:   client.ID,
		ChallengerName: challenger.Username,
		TargetID:       payload.TargetPlayerID,
		TargetName:     targetP.Username,
		CreatedAt:      time.Now(),
	}

	s.mu.Lock()
	s.challenges[ch.ID] = ch
	s.mu.Unlock()

	target.Send(Message{Event: EventPvPChallengeReceived, Data: ChallengeReceivedPayload{
		ChallengeID:    ch.ID,
		ChallengerName: challenger.Username,
		ChallengerID:   client.ID,
	}})
	client.Send(Message{Event: EventChallengeSent, Data: ChallengeSentPayload{
		ChallengeID: ch.ID,
		TargetName:  targetP.Username,
	}})

	logger.Info("PvP challenge sent",
		"challenger", challenger.Username,
		"target", targetP.Username)
}

// handleRespondToChallenge accepts or declines a pending invitation. An
// accepted challenge starts the automatic duel ticker.
func (s *Server) handleRespondToChallenge(client *Client, data json.RawMessage) {
	responder := client.player
	if responder == nil {
		return
	}

	var payload ChallengeResponsePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	s.mu.RLock()
	responderBusy := responder.InCombat
	s.mu.RUnlock()
	if responderBusy {
		return
	}

	// Only the challenged player may consume the challenge. A response
	// from anyone else leaves it pending for the real target.
	s.mu.Lock()
	ch, ok := s.challenges[payload.ChallengeID]
	if ok && ch.TargetID == client.ID {
		delete(s.challenges, payload.ChallengeID)
	}
	s.mu.Unlock()

	if !ok || ch.TargetID != client.ID {
		client.Send(Message{Event: EventChallengeRespFailed, Data: ChallengeFailedPayload{Reason: "Invalid challenge"}})
		return
	}

	challengerClient, ok := s.getClient(ch.ChallengerID)
	var challengerP *player.Player
	challengerBusy := false
	if ok {
		s.mu.RLock()
		challengerP = challengerClient.player
		if challengerP != nil {
			challengerBusy = challengerP.InCombat
		}
		s.mu.RUnlock()
	}
	if challengerP == nil || challengerBusy {
		client.Send(Message{Event: EventChallengeRespFailed, Data: ChallengeFailedPayload{Reason: "Challenger no longer available"}})
		return
	}

	if !payload.Accepted {
		challengerClient.Send(Message{Event: EventChallengeDeclined, Data: ChallengeDeclinedPayload{
			TargetName: responder.Username,
		}})
		logger.Info("PvP challenge declined",
			"challenger", challengerP.Username,
			"target", responder.Username)
		return
	}

	s.mu.Lock()
	combat := &pvpCombat{
		ID:        fmt.Sprintf("pvp_%s_%s_%d", ch.ChallengerID, client.ID, time.Now().UnixMilli()),
		Room:      responder.Room,
		Player1:   &pvpFighter{ID: ch.ChallengerID, Name: challengerP.Username, Stats: challengerP.Stats},
		Player2:   &pvpFighter{ID: client.ID, Name: responder.Username, Stats: responder.Stats},
		Turn:      ch.ChallengerID, // challenger strikes first
		Round:     1,
		Status:    "active",
		StartTime: time.Now(),
		stop:      make(chan struct{}),
	}
	s.pvpCombats[combat.ID] = combat
	challengerP.StartCombat(combat.ID)
	responder.StartCombat(combat.ID)
	s.mu.Unlock()

	challengerClient.Send(Message{Event: EventPvPCombatStarted, Data: PvPCombatStartedPayload{
		CombatID:      combat.ID,
		YourTurn:      true,
		Opponent:      PvPFighterPayload{ID: combat.Player2.ID, Name: combat.Player2.Name, Stats: combat.Player2.Stats},
		YourStats:     combat.Player1.Stats,
		OpponentStats: combat.Player2.Stats,
		Round:         combat.Round,
	}})
	client.Send(Message{Event: EventPvPCombatStarted, Data: PvPCombatStartedPayload{
		CombatID:      combat.ID,
		YourTurn:      false,
		Opponent:      PvPFighterPayload{ID: combat.Player1.ID, Name: combat.Player1.Name, Stats: combat.Player1.Stats},
		YourStats:     combat.Player2.Stats,
		OpponentStats: combat.Player1.Stats,
		Round:         combat.Round,
	}})

	s.broadcastToRoom(combat.Room, Message{Event: EventPvPSpectate, Data: PvPSpectatePayload{
		CombatID: combat.ID,
		Player1:  combat.Player1.Name,
		Player2:  combat.Player2.Name,
	}}, combat.Player2.ID)

	go s.runPvPCombat(combat.ID)

	logger.Info("PvP combat started",
		"combat_id", combat.ID,
		"challenger", combat.Player1.Name,
		"opponent", combat.Player2.Name)
}

// runPvPCombat drives a duel with a fixed-interval ticker until the duel
// ends or the server shuts down.
func (s *Server) runPvPCombat(combatID string) {
	s.mu.RLock()
	combat, ok := s.pvpCombats[combatID]
	s.mu.RUnlock()
	if !ok {
		return
	}

	interval := time.Duration(s.serverConfig.Combat.PvPTickMS) * time.Millisecond
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-combat.stop:
			return
		case <-s.shutdown:
			return
		case <-ticker.C:
			if done := s.pvpTick(combatID); done {
				return
			}
		}
	}
}

// pvpTick resolves one automatic attack. Out-of-range attacks miss but
// still consume the attacker's turn. Returns true when the duel is over.
func (s *Server) pvpTick(combatID string) bool {
	s.mu.Lock()
	combat, ok := s.pvpCombats[combatID]
	if !ok || combat.Status != "active" {
		s.mu.Unlock()
		return true
	}

	attacker, defender := combat.fighterFor(combat.Turn)

	attackerClient, okA := s.clients[attacker.ID]
	defenderClient, okD := s.clients[defender.ID]
	if !okA || !okD || attackerClient.player == nil || defenderClient.player == nil {
		// Disconnect cleanup owns this case; stop ticking.
		s.mu.Unlock()
		return true
	}

	distance := attackerClient.player.Position.Distance(defenderClient.player.Position)
	weaponName := attackerClient.player.EquippedWeapon
	weapon := s.weapons.Lookup(weaponName)

	update := PvPCombatUpdatePayload{
		CombatID:     combat.ID,
		Action:       "attack",
		AttackerName: attacker.Name,
		DefenderName: defender.Name,
		Distance:     int(distance),
		IsRanged:     weapon.Range > items.DefaultRange,
	}

	if distance <= weapon.Range {
		damage := int(math.Floor(float64(attacker.Stats.Attack) * weapon.DamageModifier * dice.Variance()))
		defender.Stats.Health -= damage
		if defender.Stats.Health < 0 {
			defender.Stats.Health = 0
		}
		update.Damage = damage
		update.ActionResult = fmt.Sprintf("%s attacks %s with %s for %d damage!",
			attacker.Name, defender.Name, weaponLabel(weaponName), damage)
	} else {
		update.ActionResult = fmt.Sprintf("%s swings at %s but they're too far away! (Distance: %dpx)",
			attacker.Name, defender.Name, int(distance))
	}

	if defender.Stats.Health <= 0 {
		update.CombatEnded = true
		update.WinnerID = attacker.ID
		combat.Status = "ended"
	} else {
		combat.Turn = defender.ID
		combat.Round++
	}
	update.Round = combat.Round

	p1, p2 := combat.Player1, combat.Player2
	turn := combat.Turn
	s.mu.Unlock()

	view1 := update
	view1.YourTurn = turn == p1.ID
	view1.YourStats = p1.Stats
	view1.OpponentStats = p2.Stats
	s.sendTo(p1.ID, Message{Event: EventPvPCombatUpdate, Data: view1})

	view2 := update
	view2.YourTurn = turn == p2.ID
	view2.YourStats = p2.Stats
	view2.OpponentStats = p1.Stats
	s.sendTo(p2.ID, Message{Event: EventPvPCombatUpdate, Data: view2})

	if update.CombatEnded {
		s.handlePlayerDeath(defender.ID, attacker.ID)
		s.endPvPCombat(combatID, attacker.ID, "defeat")
		return true
	}
	return false
}

// weaponLabel names the weapon for combat narration.
func weaponLabel(weapon string) string {
	if weapon == "" {
		return "bare fists"
	}
	return weapon
}

// endPvPCombat settles a duel: the winner gains XP, both players leave
// combat state, and the result is broadcast and recorded.
func (s *Server) endPvPCombat(combatID, winnerID, endedBy string) {
	s.mu.Lock()
	combat, ok := s.pvpCombats[combatID]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pvpCombats, combatID)
	s.mu.Unlock()

	combat.halt()

	winner, loser := combat.fighterFor(winnerID)
	winnerName := winner.Name
	victoryXP := s.serverConfig.Combat.PvPVictoryXP

	for _, fighter := range []*pvpFighter{combat.Player1, combat.Player2} {
		c, ok := s.getClient(fighter.ID)
		if !ok {
			continue
		}

		won := fighter.ID == winnerID

		s.mu.Lock()
		p := c.player
		if p == nil {
			s.mu.Unlock()
			continue
		}
		p.EndCombat()
		var ups []player.LevelUp
		if won {
			ups = p.GainXP(victoryXP)
		} else {
			p.ResetHealth()
		}
		s.mu.Unlock()

		s.announceLevelUps(c, ups)

		xp := 0
		if won {
			xp = victoryXP
		}
		c.Send(Message{Event: EventPvPCombatEnded, Data: PvPCombatEndedPayload{
			Victory:    won,
			WinnerName: winnerName,
			XPGained:   xp,
			EndedBy:    endedBy,
		}})
	}

	s.broadcastToRoom(combat.Room, Message{Event: EventPvPSpectateEnded, Data: PvPSpectateEndedPayload{
		CombatID:    combatID,
		WinnerName:  winnerName,
		Player1Name: combat.Player1.Name,
		Player2Name: combat.Player2.Name,
	}}, "")

	s.recordMatch(combat, winner, loser, endedBy, victoryXP)

	logger.Info("PvP combat ended",
		"combat_id", combatID,
		"winner", winnerName,
		"loser", loser.Name,
		"ended_by", endedBy)
}

// recordMatch writes the duel outcome to the match history. Best effort;
// a write failure never disturbs the game session.
func (s *Server) recordMatch(combat *pvpCombat, winner, loser *pvpFighter, endedBy string, xp int) {
	if s.db == nil {
		return
	}
	record := database.MatchRecord{
		Room:        combat.Room,
		WinnerName:  winner.Name,
		LoserName:   loser.Name,
		WinnerLevel: winner.Stats.Level,
		LoserLevel:  loser.Stats.Level,
		Rounds:      combat.Round,
		XPAwarded:   xp,
		EndedBy:     endedBy,
		FinishedAt:  time.Now(),
	}
	go func() {
		if err := s.db.RecordMatch(record); err != nil {
			logger.Error("Failed to record match", "error", err)
		}
	}()
}

// terminateCombatsFor ends whatever fight the client is in because the
// client is gone. In a duel the survivor wins without a death sequence.
func (s *Server) terminateCombatsFor(client *Client) {
	p := client.player
	if p == nil {
		return
	}

	s.mu.Lock()
	if !p.InCombat {
		s.mu.Unlock()
		return
	}
	combatID := p.CombatTarget
	combat, isPvP := s.pvpCombats[combatID]
	if isPvP {
		p.EndCombat()
	}
	s.mu.Unlock()

	if !isPvP {
		s.abortNPCCombatFor(client)
		return
	}

	_, survivor := combat.fighterFor(client.ID)
	s.endPvPCombat(combatID, survivor.ID, "disconnect")
}
