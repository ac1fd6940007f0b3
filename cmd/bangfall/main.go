package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arthur-zhuk/bangfall/internal/chatfilter"
	"github.com/arthur-zhuk/bangfall/internal/config"
	"github.com/arthur-zhuk/bangfall/internal/database"
	"github.com/arthur-zhuk/bangfall/internal/items"
	"github.com/arthur-zhuk/bangfall/internal/logger"
	"github.com/arthur-zhuk/bangfall/internal/namefilter"
	"github.com/arthur-zhuk/bangfall/internal/npc"
	"github.com/arthur-zhuk/bangfall/internal/server"
)

func main() {
	// Parse command-line flags
	listen := flag.String("listen", "", "Listen address (overrides server config)")
	serverConfigFile := flag.String("config", "data/server.yaml", "Path to server config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	activitiesFile := flag.String("activities", "data/activities.yaml", "Path to activities YAML file")
	npcsFile := flag.String("npcs", "data/npcs.yaml", "Path to NPC archetypes YAML file")
	weaponsFile := flag.String("weapons", "data/weapons.yaml", "Path to weapons YAML file")
	chatFilterConfig := flag.String("chatfilter", "data/chat_filter.yaml", "Path to chat filter config YAML file")
	nameFilterConfig := flag.String("namefilter", "data/name_filter.yaml", "Path to name filter config YAML file")
	dbDriver := flag.String("db-driver", "sqlite", "Match history database driver (sqlite or postgres)")
	dbFile := flag.String("db", "data/bangfall.db", "Path to SQLite match history database file")
	noDB := flag.Bool("no-db", false, "Disable the match history database")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	logger.Info("Starting Bangfall game server")

	// Load server config (listen address, world bounds, combat tuning)
	serverCfg, err := config.LoadConfig(*serverConfigFile)
	if err != nil {
		logger.Warning("Failed to load server config, using defaults", "path", *serverConfigFile, "error", err)
		serverCfg = config.DefaultConfig()
	}
	if *listen != "" {
		serverCfg.Listen = *listen
	}

	if len(serverCfg.WebSocket.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(serverCfg.WebSocket.AllowedOrigins) == 1 && serverCfg.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", serverCfg.WebSocket.AllowedOrigins)
	}

	srv := server.NewServer(serverCfg)

	// Load activity rewards
	activityCfg, err := server.LoadActivitiesFromYAML(*activitiesFile)
	if err != nil {
		logger.Warning("Failed to load activities config, using defaults", "path", *activitiesFile, "error", err)
	} else {
		srv.SetActivities(activityCfg)
		logger.Info("Activities loaded", "path", *activitiesFile)
	}

	// Load NPC archetypes
	npcCfg, err := npc.LoadFromYAML(*npcsFile)
	if err != nil {
		logger.Warning("Failed to load NPC config, using defaults", "path", *npcsFile, "error", err)
	} else {
		srv.SetNPCs(npcCfg)
		logger.Info("NPC archetypes loaded", "path", *npcsFile)
	}

	// Load weapon table
	weaponsCfg, err := items.LoadWeaponsFromYAML(*weaponsFile)
	if err != nil {
		logger.Warning("Failed to load weapons config, using defaults", "path", *weaponsFile, "error", err)
	} else {
		srv.SetWeapons(weaponsCfg)
		logger.Info("Weapons loaded", "path", *weaponsFile)
	}

	// Load chat filter (carries anti-spam settings)
	filterCfg, err := chatfilter.LoadConfig(*chatFilterConfig)
	if err != nil {
		logger.Warning("Failed to load chat filter config, chat filter disabled", "path", *chatFilterConfig, "error", err)
	} else {
		srv.SetChatFilter(filterCfg)
		if filterCfg.Enabled {
			logger.Info("Chat filter enabled", "mode", filterCfg.Mode, "words", len(filterCfg.BannedWords))
		}
		if filterCfg.Antispam != nil && filterCfg.Antispam.Enabled {
			logger.Info("Anti-spam enabled", "max_messages", filterCfg.Antispam.MaxMessages, "time_window", filterCfg.Antispam.TimeWindowSeconds)
		}
	}

	// Load name filter
	nameCfg, err := namefilter.LoadConfig(*nameFilterConfig)
	if err != nil {
		logger.Warning("Failed to load name filter config, name filter disabled", "path", *nameFilterConfig, "error", err)
	} else {
		srv.SetNameFilter(nameCfg)
		if nameCfg.Enabled {
			logger.Info("Name filter enabled", "banned_words", len(nameCfg.BannedWords), "banned_names", len(nameCfg.BannedNames))
		}
	}

	// Open the match history database
	if !*noDB {
		dbCfg := database.DefaultConfig(*dbFile)
		if *dbDriver == "postgres" {
			dbCfg.Driver = "postgres"
			dbCfg.Postgres = postgresConfigFromEnv()
		}
		db, err := database.Open(dbCfg)
		if err != nil {
			logger.Warning("Failed to open match history database, match history disabled", "error", err)
		} else {
			defer db.Close()
			srv.SetDatabase(db)
			logger.Info("Match history database initialized", "driver", dbCfg.Driver)
		}
	}

	// Start the server
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	logger.Info("Game server running", "address", serverCfg.Listen)
	logger.Info("Press Ctrl+C to shutdown")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// postgresConfigFromEnv reads PostgreSQL connection settings from the
// environment, falling back to the recommended pool defaults.
func postgresConfigFromEnv() database.PostgresConfig {
	cfg := database.DefaultPostgresConfig()
	if host := os.Getenv("BANGFALL_PG_HOST"); host != "" {
		cfg.Host = host
	}
	if user := os.Getenv("BANGFALL_PG_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("BANGFALL_PG_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if dbname := os.Getenv("BANGFALL_PG_DATABASE"); dbname != "" {
		cfg.Database = dbname
	}
	if sslmode := os.Getenv("BANGFALL_PG_SSLMODE"); sslmode != "" {
		cfg.SSLMode = sslmode
	}
	return cfg
}
