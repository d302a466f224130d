// Package main starts the REST API server for the collection manager.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/api"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/api/handlers"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/cards"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/config"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/deck"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/scan"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/scryfall"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/storage/repository"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/version"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	dbPath      = flag.String("db-path", "", "Database path (default: ~/.magicapp/data.db)")
	configPath  = flag.String("config", "", "Config file path (default: ~/.magicapp/config.toml)")
	showVersion = flag.Bool("version", false, "Print the version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("magicapp", version.GetVersion())
		return
	}

	cfgPath := *configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if cfg.Database.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		cfg.Database.Path = filepath.Join(home, ".magicapp", "data.db")
	}

	log.Printf("Database: %s", cfg.Database.Path)

	dbConfig := storage.DefaultConfig(cfg.Database.Path)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	conn := db.Conn()
	users := repository.NewUserRepository(conn)
	sessions := repository.NewSessionRepository(conn)
	decks := repository.NewDeckRepository(conn)
	inventories := repository.NewInventoryRepository(conn)

	// Scryfall client and the pipeline built on it
	client := scryfall.NewClient(
		scryfall.WithBaseURL(cfg.Scryfall.BaseURL),
		scryfall.WithTimeout(time.Duration(cfg.Scryfall.TimeoutSeconds)*time.Second),
		scryfall.WithUserAgent(cfg.Scryfall.UserAgent),
	)
	importer := deck.NewImporter(cards.NewResolver(client), decks)
	scanner := scan.NewResolver(client)

	sessionTTL := time.Duration(cfg.Auth.SessionTTLHours) * time.Hour
	userHandler := handlers.NewUserHandler(users, sessions, sessionTTL)

	server := api.NewServer(
		&api.Config{
			Port:           cfg.Server.Port,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
		&api.Handlers{
			User:      userHandler,
			Deck:      handlers.NewDeckHandler(decks, importer),
			Card:      handlers.NewCardHandler(client, scanner),
			Inventory: handlers.NewInventoryHandler(inventories),
		},
		sessions,
	)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reload config on file change. Runtime-tunable settings apply live;
	// a restart is still needed for port/database changes.
	go func() {
		err := config.Watch(ctx, cfgPath, func(newCfg *config.Config) {
			userHandler.SetSessionTTL(time.Duration(newCfg.Auth.SessionTTLHours) * time.Hour)
			log.Printf("Config reloaded from %s", cfgPath)
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("Config watcher stopped: %v", err)
		}
	}()

	// Periodic expired-session sweep
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sessions.DeleteExpired(ctx); err != nil {
					log.Printf("Session cleanup failed: %v", err)
				}
			}
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
