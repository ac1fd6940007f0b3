package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-wide configuration settings.
type ServerConfig struct {
	Listen      string            `yaml:"listen"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	World       WorldConfig       `yaml:"world"`
	Combat      CombatConfig      `yaml:"combat"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited (not recommended).
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// WorldConfig holds the playable area and spawn settings.
type WorldConfig struct {
	// MinX..MaxY describe the rectangle players may occupy.
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`

	// SpawnX/SpawnY is the world center; new players appear near it and
	// defeated players respawn exactly on it.
	SpawnX float64 `yaml:"spawn_x"`
	SpawnY float64 `yaml:"spawn_y"`

	// SpawnJitter is the maximum offset applied on each axis when a new
	// player spawns, to avoid stacking everyone on the same tile.
	SpawnJitter float64 `yaml:"spawn_jitter"`
}

// CombatConfig holds combat loop tuning.
type CombatConfig struct {
	// PvPTickMS is the interval between automatic PvP attacks, in milliseconds.
	PvPTickMS int `yaml:"pvp_tick_ms"`

	// PickupRange is the maximum distance (in pixels) at which loot may be
	// picked up.
	PickupRange float64 `yaml:"pickup_range"`

	// PvPVictoryXP is the flat experience bonus awarded for winning a duel.
	PvPVictoryXP int `yaml:"pvp_victory_xp"`
}

// DefaultConfig returns a ServerConfig with the reference gameplay values.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Listen: ":3001",
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 4,
			MaxTotal: 200,
		},
		World: WorldConfig{
			MinX:        100,
			MaxX:        1500,
			MinY:        100,
			MaxY:        1100,
			SpawnX:      800,
			SpawnY:      600,
			SpawnJitter: 150,
		},
		Combat: CombatConfig{
			PvPTickMS:    2000,
			PickupRange:  50,
			PvPVictoryXP: 50,
		},
	}
}

// LoadConfig loads server configuration from a YAML file.
// If the file doesn't exist or can't be parsed, returns default config.
func LoadConfig(path string) (*ServerConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	// If no origins configured, enforce same-origin policy
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		// Wildcard allows all origins
		if allowed == "*" {
			return true
		}
		// Exact match
		if allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// Extract host from origin URL (e.g., "http://localhost:3000" -> "localhost:3000")
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
