// Package server is the authoritative game session server. It accepts
// WebSocket connections, tracks players and rooms, and runs the activity
// and combat engines. All game state lives in memory and is scoped to the
// lifetime of each connection.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/arthur-zhuk/bangfall/internal/antispam"
	"github.com/arthur-zhuk/bangfall/internal/chatfilter"
	"github.com/arthur-zhuk/bangfall/internal/config"
	"github.com/arthur-zhuk/bangfall/internal/database"
	"github.com/arthur-zhuk/bangfall/internal/items"
	"github.com/arthur-zhuk/bangfall/internal/logger"
	"github.com/arthur-zhuk/bangfall/internal/namefilter"
	"github.com/arthur-zhuk/bangfall/internal/npc"
	"github.com/arthur-zhuk/bangfall/internal/world"
)

type Server struct {
	serverConfig *config.ServerConfig
	httpServer   *http.Server
	connLimiter  *ConnLimiter
	StartTime    time.Time

	rooms  *world.Manager
	bounds world.Bounds

	weapons     *items.WeaponsConfig
	activityCfg *ActivityConfig
	npcs        *npc.Config
	chatFilter  *chatfilter.Filter
	antispamCfg antispam.Config
	nameFilter  *namefilter.NameFilter
	db          *database.Database

	// mu guards the registries below and all mutable Player state.
	// Handlers and timer callbacks mutate under it and release it
	// before sending or broadcasting.
	mu         sync.RWMutex
	clients    map[string]*Client
	activities map[string]*activityRecord
	npcCombats map[string]*npcCombat
	pvpCombats map[string]*pvpCombat
	challenges map[string]*challenge
	groundLoot map[string]*lootDrop

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

func NewServer(cfg *config.ServerConfig) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		serverConfig: cfg,
		connLimiter:  NewConnLimiter(cfg.Connections),
		StartTime:    time.Now(),
		rooms:        world.NewManager(),
		bounds: world.Bounds{
			MinX: cfg.World.MinX, MaxX: cfg.World.MaxX,
			MinY: cfg.World.MinY, MaxY: cfg.World.MaxY,
			SpawnX: cfg.World.SpawnX, SpawnY: cfg.World.SpawnY,
			Jitter: cfg.World.SpawnJitter,
		},
		weapons:     items.DefaultWeapons(),
		activityCfg: DefaultActivities(),
		npcs:        npc.DefaultArchetypes(),
		chatFilter:  chatfilter.New(nil),
		antispamCfg: antispam.DefaultConfig(),
		nameFilter:  namefilter.New(nil),
		clients:     make(map[string]*Client),
		activities:  make(map[string]*activityRecord),
		npcCombats:  make(map[string]*npcCombat),
		pvpCombats:  make(map[string]*pvpCombat),
		challenges:  make(map[string]*challenge),
		groundLoot:  make(map[string]*lootDrop),
		shutdown:    make(chan struct{}),
	}
}

// SetDatabase sets the match history database.
func (s *Server) SetDatabase(db *database.Database) {
	s.db = db
}

// SetWeapons sets the weapon table used for combat range and damage.
func (s *Server) SetWeapons(weapons *items.WeaponsConfig) {
	if weapons != nil {
		s.weapons = weapons
	}
}

// SetActivities sets the activity reward table.
func (s *Server) SetActivities(cfg *ActivityConfig) {
	if cfg != nil {
		s.activityCfg = cfg
	}
}

// SetNPCs sets the monster archetype table.
func (s *Server) SetNPCs(cfg *npc.Config) {
	if cfg != nil {
		s.npcs = cfg
	}
}

// SetChatFilter sets the chat filter and the anti-spam settings that ride
// along in its config file.
func (s *Server) SetChatFilter(cfg *chatfilter.Config) {
	s.chatFilter = chatfilter.New(cfg)
	if cfg != nil && cfg.Antispam != nil {
		s.antispamCfg = antispam.ConfigFromYAML(
			cfg.Antispam.Enabled,
			cfg.Antispam.MaxMessages,
			cfg.Antispam.TimeWindowSeconds,
			cfg.Antispam.RepeatCooldownSeconds,
		)
	}
}

// SetNameFilter sets the username filter.
func (s *Server) SetNameFilter(cfg *namefilter.Config) {
	s.nameFilter = namefilter.New(cfg)
}

// Start runs the HTTP server until Shutdown is called. It blocks.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/matches", s.handleMatches)
	mux.HandleFunc("/leaderboard", s.handleLeaderboard)

	s.httpServer = &http.Server{
		Addr:    s.serverConfig.Listen,
		Handler: mux,
	}

	logger.Info("Server listening", "address", s.serverConfig.Listen)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and disconnects every client.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.shutdown)

		s.mu.Lock()
		clients := make([]*Client, 0, len(s.clients))
		for _, c := range s.clients {
			clients = append(clients, c)
		}
		s.mu.Unlock()

		for _, c := range clients {
			c.Close()
		}

		if s.httpServer != nil {
			err = s.httpServer.Shutdown(ctx)
		}
	})
	return err
}

// GetOnlinePlayerCount returns the number of connected clients.
func (s *Server) GetOnlinePlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("Connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.serverConfig.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("Connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}

	go s.handleConnection(wsConn, clientIP)
}

// handleConnection runs one client from upgrade to disconnect.
func (s *Server) handleConnection(wsConn *websocket.Conn, clientIP string) {
	client := newClient(uuid.NewString(), wsConn, clientIP, s.antispamCfg)

	defer func() {
		s.connLimiter.Release(clientIP)
		client.Close()
	}()

	if s.serverConfig.WebSocket.MaxMessageSize > 0 {
		wsConn.SetReadLimit(s.serverConfig.WebSocket.MaxMessageSize)
	}

	s.mu.Lock()
	s.clients[client.ID] = client
	s.mu.Unlock()

	go client.writePump()

	logger.Info("Client connected", "client_id", client.ID, "remote_addr", wsConn.RemoteAddr().String())

	defer func() {
		s.handleDisconnect(client)

		s.mu.Lock()
		delete(s.clients, client.ID)
		s.mu.Unlock()

		logger.Info("Client disconnected", "client_id", client.ID, "player", client.Username())
	}()

	for {
		select {
		case <-s.shutdown:
			return
		default:
		}

		_, data, err := wsConn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			client.Send(Message{Event: EventError, Data: ErrorPayload{Message: "Malformed message"}})
			continue
		}

		s.dispatch(client, env)
	}
}

// dispatch routes an inbound event to its handler. A panicking handler
// takes down only the offending message, not the server.
func (s *Server) dispatch(client *Client, env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Handler panicked",
				"event", env.Event,
				"client_id", client.ID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()))
			client.Send(Message{Event: EventError, Data: ErrorPayload{Message: "Internal error"}})
		}
	}()

	switch env.Event {
	case EventJoinGame:
		s.handleJoinGame(client, env.Data)
	case EventPlayerMove:
		s.handlePlayerMove(client, env.Data)
	case EventStartActivity:
		s.handleStartActivity(client, env.Data)
	case EventStartCombat:
		s.handleStartCombat(client, env.Data)
	case EventCombatAction:
		s.handleCombatAction(client, env.Data)
	case EventChallengePlayer:
		s.handleChallengePlayer(client, env.Data)
	case EventRespondToChallenge:
		s.handleRespondToChallenge(client, env.Data)
	case EventPickupLoot:
		s.handlePickupLoot(client, env.Data)
	case EventChatMessage:
		s.handleChatMessage(client, env.Data)
	case EventEquipWeapon:
		s.handleEquipWeapon(client, env.Data)
	default:
		logger.Debug("Unknown event", "event", env.Event, "client_id", client.ID)
		client.Send(Message{Event: EventError, Data: ErrorPayload{Message: "Unknown event: " + env.Event}})
	}
}

// handleDisconnect tears down everything the client owned. It runs before
// the client is removed from the registry so combat cleanup can still see it.
func (s *Server) handleDisconnect(client *Client) {
	p := client.player
	if p == nil {
		return
	}

	// A fight never survives a missing combatant.
	s.terminateCombatsFor(client)

	// Cancel any pending activity timers.
	s.cancelActivitiesFor(client.ID)

	s.mu.Lock()
	for id, ch := range s.challenges {
		if ch.ChallengerID == client.ID || ch.TargetID == client.ID {
			delete(s.challenges, id)
		}
	}
	s.mu.Unlock()

	s.rooms.Leave(p.Room, client.ID)
	s.broadcastToRoom(p.Room, Message{Event: EventPlayerLeft, Data: client.ID}, client.ID)
}

// getClient returns a connected client by id.
func (s *Server) getClient(id string) (*Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	return c, ok
}

// broadcastToRoom sends a message to every joined player in the room,
// optionally excluding one client.
func (s *Server) broadcastToRoom(roomID string, msg Message, excludeID string) {
	for _, id := range s.rooms.Players(roomID) {
		if id == excludeID {
			continue
		}
		if c, ok := s.getClient(id); ok {
			c.Send(msg)
		}
	}
}

// sendTo sends a message to one client by id, if still connected.
func (s *Server) sendTo(clientID string, msg Message) {
	if c, ok := s.getClient(clientID); ok {
		c.Send(msg)
	}
}
