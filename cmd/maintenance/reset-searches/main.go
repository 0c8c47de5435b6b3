package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/parkeasy/parkeasy-backend/internal/config"
	"github.com/parkeasy/parkeasy-backend/internal/database"
	"github.com/parkeasy/parkeasy-backend/internal/models"
)

// Resets stored monthly search counters, for when the scheduled job was missed
func main() {
	var dbURLFlag string
	var period string
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.StringVar(&period, "period", models.SearchPeriodOf(time.Now().UTC()), "Search period to reset into (YYYY-MM)")
	flag.Parse()

	_ = godotenv.Load()

	if _, err := time.Parse("2006-01", period); err != nil {
		log.Fatalf("invalid period %q: expected YYYY-MM", period)
	}

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewUserDocumentRepository(db)
	rows, err := repo.ResetMonthlySearches(period)
	if err != nil {
		log.Fatalf("failed to reset monthly searches: %v", err)
	}

	fmt.Printf("Reset monthly searches for %d documents into period %s\n", rows, period)
}
