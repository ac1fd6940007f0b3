// Package world tracks room membership and the playable area bounds.
package world

import (
	"math/rand"
	"sync"
)

// DefaultRoom is the room every player joins unless they ask for another.
const DefaultRoom = "default"

// Manager tracks which players are in which room. Rooms are created when the
// first player joins and removed when the last player leaves.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]map[string]bool
}

// NewManager creates an empty room manager.
func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]map[string]bool),
	}
}

// Join adds a player to a room, creating the room if needed.
func (m *Manager) Join(roomID, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		room = make(map[string]bool)
		m.rooms[roomID] = room
	}
	room[playerID] = true
}

// Leave removes a player from a room. The room itself is removed once it
// holds no players.
func (m *Manager) Leave(roomID, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return
	}
	delete(room, playerID)
	if len(room) == 0 {
		delete(m.rooms, roomID)
	}
}

// Players returns the ids of every player in the room.
func (m *Manager) Players(roomID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(room))
	for id := range room {
		ids = append(ids, id)
	}
	return ids
}

// Contains reports whether the player is in the room.
func (m *Manager) Contains(roomID, playerID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	return ok && room[playerID]
}

// Count returns the number of players in the room.
func (m *Manager) Count(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.rooms[roomID])
}

// RoomCount returns the number of active rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.rooms)
}

// Bounds is the rectangle players may occupy, plus the spawn point.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	SpawnX     float64
	SpawnY     float64
	Jitter     float64
}

// Clamp pins a coordinate pair inside the playable area.
func (b Bounds) Clamp(x, y float64) (float64, float64) {
	if x < b.MinX {
		x = b.MinX
	}
	if x > b.MaxX {
		x = b.MaxX
	}
	if y < b.MinY {
		y = b.MinY
	}
	if y > b.MaxY {
		y = b.MaxY
	}
	return x, y
}

// SpawnPoint picks a spawn position near the world center, offset by up to
// Jitter on each axis and clamped to the playable area.
func (b Bounds) SpawnPoint() (float64, float64) {
	x := b.SpawnX + (rand.Float64()*2-1)*b.Jitter
	y := b.SpawnY + (rand.Float64()*2-1)*b.Jitter
	return b.Clamp(x, y)
}

// Center returns the exact world center, used for respawns after death.
func (b Bounds) Center() (float64, float64) {
	return b.SpawnX, b.SpawnY
}
