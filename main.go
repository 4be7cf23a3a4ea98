// ABOUTME: Entry point for the pastoral-hub calendar backend
// ABOUTME: Loads config, opens the database, and starts the HTTP server
package main

import (
	"flag"
	"log"

	"github.com/brenocwb02/pastoral-hub-plus-sub000/config"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/db"
	"github.com/brenocwb02/pastoral-hub-plus-sub000/web"
)

func main() {
	dbPath := flag.String("db-path", "", "Database path (default: $XDG_DATA_HOME/pastoral-hub/pastoral.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")
	flag.Parse()

	cfg := config.Load()
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	log.Printf("Database: %s", cfg.DBPath)

	if *initOnly {
		log.Println("Database initialized successfully")
		return
	}

	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET not set; calendar endpoints will fail")
	}

	server := web.NewServer(database, cfg)
	if err := server.Start(cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
