package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/parkeasy/parkeasy-backend/internal/config"
	"github.com/parkeasy/parkeasy-backend/internal/database"
)

// tables in dependency order; TRUNCATE ... CASCADE handles the rest
var tables = []string{
	"spot_reviews",
	"spot_submissions",
	"login_attempts",
	"refresh_tokens",
	"user_documents",
	"accounts",
}

func main() {
	var dbURLFlag string
	var confirm bool
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&confirm, "yes", false, "Confirm that all data should be deleted")
	flag.Parse()

	_ = godotenv.Load()

	if !confirm {
		log.Fatal("Refusing to clear data without -yes")
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
		MaxConnections:     5,
		MaxIdleConnections: 2,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to database. Truncating tables...")

	truncateSQL := "TRUNCATE TABLE "
	for i, t := range tables {
		if i > 0 {
			truncateSQL += ", "
		}
		truncateSQL += t
	}
	truncateSQL += " RESTART IDENTITY CASCADE"

	if _, err := db.Exec(truncateSQL); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	fmt.Println("All data cleared successfully (tables truncated, identities reset).")

	fmt.Println("Post-clear row counts:")
	for _, t := range tables {
		var count int
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
