package main

import (
	"log"

	"fin-analyst-be/internal/bootstrap"
	"fin-analyst-be/internal/config"
	"fin-analyst-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running migrations...")
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	for _, m := range bootstrap.Models() {
		if !db.Migrator().HasTable(m) {
			log.Fatalf("Error: table for %T is missing after migration", m)
		}
	}
	log.Printf("Migration completed: %d tables", len(bootstrap.Models()))
}
