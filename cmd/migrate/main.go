package main

import (
	"bank_portal/internal/config" // Custom import path (Config)
	"bank_portal/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Run schema migration against MySQL
}
