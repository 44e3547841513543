package main

import (
	"context"
	"log"
	"os"

	"fin-analyst-be/internal/config"
	"fin-analyst-be/pkg/database"
	"fin-analyst-be/pkg/sqlengine"
)

// seed loads financial_overview into Postgres from the CSV or XLSX table file.
// An optional argument overrides FINANCIAL_TABLE_PATH.
func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	path := cfg.Data.TablePath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	companies, err := sqlengine.ReadCompanies(path)
	if err != nil {
		log.Fatalf("Error: read %s: %v", path, err)
	}

	ctx := context.Background()
	engine := sqlengine.NewGormEngine(db)
	if err := engine.Migrate(ctx); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}
	if err := engine.Load(ctx, companies); err != nil {
		log.Fatal("Error: Seeding failed:", err)
	}

	for _, c := range companies {
		log.Printf("Seeded %s (%s)", c.Ticker, c.CompanyName)
	}
	log.Printf("Seeding completed: %d companies", len(companies))
}
