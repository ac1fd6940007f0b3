package server

import (
	"encoding/json"

	"github.com/arthur-zhuk/bangfall/internal/items"
	"github.com/arthur-zhuk/bangfall/internal/npc"
	"github.com/arthur-zhuk/bangfall/internal/player"
)

// Envelope is an inbound client message. Data stays raw until the event
// handler knows which payload type to decode.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Message is an outbound server message.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Inbound event names.
const (
	EventJoinGame           = "join-game"
	EventPlayerMove         = "player-move"
	EventStartActivity      = "start-activity"
	EventStartCombat        = "start-combat"
	EventCombatAction       = "combat-action"
	EventChallengePlayer    = "challenge-player"
	EventRespondToChallenge = "respond-to-challenge"
	EventPickupLoot         = "pickup-loot"
	EventChatMessage        = "chat-message"
	EventEquipWeapon        = "equip-weapon"
)

// Outbound event names.
const (
	EventPlayerData             = "player-data"
	EventOtherPlayers           = "other-players"
	EventPlayerJoined           = "player-joined"
	EventPlayerLeft             = "player-left"
	EventPlayerMoved            = "player-moved"
	EventActivityStart          = "player-activity-start"
	EventActivityComplete       = "activity-complete"
	EventPlayerActivityComplete = "player-activity-complete"
	EventCombatStarted          = "combat-started"
	EventPlayerCombatStart      = "player-combat-start"
	EventCombatUpdate           = "combat-update"
	EventPlayerCombatEnd        = "player-combat-end"
	EventChallengeSent          = "challenge-sent"
	EventChallengeFailed        = "challenge-failed"
	EventChallengeDeclined      = "challenge-declined"
	EventChallengeRespFailed    = "challenge-response-failed"
	EventPvPChallengeReceived   = "pvp-challenge-received"
	EventPvPCombatStarted       = "pvp-combat-started"
	EventPvPCombatUpdate        = "pvp-combat-update"
	EventPvPCombatEnded         = "pvp-combat-ended"
	EventPvPSpectate            = "pvp-combat-spectate"
	EventPvPSpectateEnded       = "pvp-combat-spectate-ended"
	EventLootDropped            = "player-loot-dropped"
	EventPlayerRespawned        = "player-respawned"
	EventLootPickupSuccess      = "loot-pickup-success"
	EventLootPickupFailed       = "loot-pickup-failed"
	EventLootPickedUp           = "loot-picked-up"
	EventWeaponEquipped         = "weapon-equipped"
	EventChatBlocked            = "chat-blocked"
	EventPlayerLevelUp          = "player-level-up"
	EventError                  = "error"
)

// Inbound payloads.

type JoinGamePayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type MovePayload struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction string  `json:"direction"`
}

type StartActivityPayload struct {
	Activity string          `json:"activity"`
	Position player.Position `json:"position"`
}

type StartCombatPayload struct {
	TargetType string          `json:"targetType"`
	TargetID   string          `json:"targetId"`
	Position   player.Position `json:"position"`
}

type CombatActionPayload struct {
	CombatID string `json:"combatId"`
	Action   string `json:"action"`
}

type ChallengePayload struct {
	TargetPlayerID string `json:"targetPlayerId"`
}

type ChallengeResponsePayload struct {
	ChallengeID string `json:"challengeId"`
	Accepted    bool   `json:"accepted"`
}

type PickupLootPayload struct {
	LootID string `json:"lootId"`
}

type ChatPayload struct {
	Message string `json:"message"`
}

type EquipWeaponPayload struct {
	Weapon string `json:"weapon"`
}

// Outbound payloads.

type MovedPayload struct {
	PlayerID  string          `json:"playerId"`
	Position  player.Position `json:"position"`
	Direction string          `json:"direction,omitempty"`
}

type ActivityStartPayload struct {
	PlayerID string          `json:"playerId"`
	Activity string          `json:"activity"`
	Position player.Position `json:"position"`
}

type ActivityCompletePayload struct {
	Activity string  `json:"activity"`
	Rewards  Rewards `json:"rewards"`
}

type PlayerActivityCompletePayload struct {
	PlayerID string  `json:"playerId"`
	Activity string  `json:"activity"`
	Rewards  Rewards `json:"rewards"`
}

type CombatStartedPayload struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	PlayerID    string          `json:"playerId"`
	TargetType  string          `json:"targetType"`
	TargetID    string          `json:"targetId"`
	PlayerStats player.Stats    `json:"playerStats"`
	NPCStats    npc.Stats       `json:"npcStats"`
	Position    player.Position `json:"position"`
	Turn        string          `json:"turn"`
}

type PlayerCombatStartPayload struct {
	PlayerID string               `json:"playerId"`
	Position player.Position      `json:"position"`
	Combat   CombatStartedPayload `json:"combat"`
}

type CombatUpdatePayload struct {
	CombatID     string `json:"combatId"`
	PlayerAction string `json:"playerAction"`
	PlayerDamage int    `json:"playerDamage"`
	NPCHealth    int    `json:"npcHealth"`
	NPCDamage    int    `json:"npcDamage,omitempty"`
	PlayerHealth int    `json:"playerHealth"`
	CombatEnded  bool   `json:"combatEnded"`
	Victory      bool   `json:"victory"`
	XPGained     int    `json:"xpGained,omitempty"`
}

type PlayerCombatEndPayload struct {
	PlayerID string `json:"playerId"`
	Victory  bool   `json:"victory"`
}

type ChallengeSentPayload struct {
	ChallengeID string `json:"challengeId"`
	TargetName  string `json:"targetName"`
}

type ChallengeFailedPayload struct {
	Reason string `json:"reason"`
}

type ChallengeReceivedPayload struct {
	ChallengeID    string `json:"challengeId"`
	ChallengerName string `json:"challengerName"`
	ChallengerID   string `json:"challengerId"`
}

type ChallengeDeclinedPayload struct {
	TargetName string `json:"targetName"`
}

type PvPFighterPayload struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Stats player.Stats `json:"stats"`
}

type PvPCombatStartedPayload struct {
	CombatID      string            `json:"combatId"`
	YourTurn      bool              `json:"yourTurn"`
	Opponent      PvPFighterPayload `json:"opponent"`
	YourStats     player.Stats      `json:"yourStats"`
	OpponentStats player.Stats      `json:"opponentStats"`
	Round         int               `json:"round"`
}

type PvPCombatUpdatePayload struct {
	CombatID      string       `json:"combatId"`
	Action        string       `json:"action"`
	AttackerName  string       `json:"attackerName"`
	DefenderName  string       `json:"defenderName"`
	Damage        int          `json:"damage"`
	ActionResult  string       `json:"actionResult"`
	CombatEnded   bool         `json:"combatEnded"`
	WinnerID      string       `json:"winnerId,omitempty"`
	Round         int          `json:"round"`
	Distance      int          `json:"distance"`
	IsRanged      bool         `json:"isRanged"`
	YourTurn      bool         `json:"yourTurn"`
	YourStats     player.Stats `json:"yourStats"`
	OpponentStats player.Stats `json:"opponentStats"`
}

type PvPCombatEndedPayload struct {
	Victory    bool   `json:"victory"`
	WinnerName string `json:"winnerName"`
	XPGained   int    `json:"xpGained"`
	EndedBy    string `json:"endedBy"`
}

type PvPSpectatePayload struct {
	CombatID string `json:"combatId"`
	Player1  string `json:"player1"`
	Player2  string `json:"player2"`
}

type PvPSpectateEndedPayload struct {
	CombatID    string `json:"combatId"`
	WinnerName  string `json:"winnerName"`
	Player1Name string `json:"player1Name"`
	Player2Name string `json:"player2Name"`
}

type LootDroppedPayload struct {
	LootID           string          `json:"lootId"`
	DeadPlayerID     string          `json:"deadPlayerId"`
	WinnerPlayerID   string          `json:"winnerPlayerId"`
	DeadPlayerName   string          `json:"deadPlayerName"`
	WinnerPlayerName string          `json:"winnerPlayerName"`
	Position         player.Position `json:"position"`
	Loot             []items.Item    `json:"loot"`
}

type RespawnedPayload struct {
	DeadPlayerID     string          `json:"deadPlayerId"`
	WinnerPlayerID   string          `json:"winnerPlayerId"`
	DeadPlayerName   string          `json:"deadPlayerName"`
	WinnerPlayerName string          `json:"winnerPlayerName"`
	NewPosition      player.Position `json:"newPosition"`
}

type LootPickupSuccessPayload struct {
	LootID string       `json:"lootId"`
	Items  []items.Item `json:"items"`
}

type LootPickupFailedPayload struct {
	Reason   string `json:"reason"`
	Distance int    `json:"distance,omitempty"`
}

type LootPickedUpPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	LootID     string `json:"lootId"`
}

type ChatBroadcastPayload struct {
	PlayerID  string `json:"playerId"`
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type ChatBlockedPayload struct {
	Reason      string `json:"reason"`
	WaitSeconds int    `json:"waitSeconds,omitempty"`
}

type WeaponEquippedPayload struct {
	Weapon string `json:"weapon"`
}

type LevelUpPayload struct {
	PlayerID string           `json:"playerId"`
	Username string           `json:"username"`
	Levels   []player.LevelUp `json:"levels"`
	Stats    player.Stats     `json:"stats"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
