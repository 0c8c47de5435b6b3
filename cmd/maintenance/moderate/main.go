package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/parkeasy/parkeasy-backend/internal/catalog"
	"github.com/parkeasy/parkeasy-backend/internal/config"
	"github.com/parkeasy/parkeasy-backend/internal/database"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/pkg/parkapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const usage = `usage: moderate [flags] <command> [args]

commands:
  pending                 list submissions awaiting review
  approve <id>            approve a submission
  reject <id>             reject a submission
  submissions <email>     list a user's submissions and points
  disable <email>         disable an account and revoke its sessions
  enable <email>          re-enable an account
  devices <email>         list the devices an account is signed in on
  refresh-city <city_id>  drop the cached catalog of a city and reload it
`

func main() {
	var dbURLFlag string
	var limit int
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.IntVar(&limit, "limit", 50, "Maximum submissions to list")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	_ = godotenv.Load()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if args[0] == "refresh-city" {
		if len(args) != 2 {
			log.Fatal("refresh-city requires a city id")
		}
		refreshCity(args[1])
		return
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

	submissions := database.NewSubmissionRepository(db)
	accounts := database.NewAccountRepository(db)
	tokens := database.NewRefreshTokenRepository(db)

	switch args[0] {
	case "pending":
		subs, err := submissions.ListByStatus([]string{models.SubmissionStatusPending}, limit)
		if err != nil {
			log.Fatal(err)
		}
		printSubmissions(subs)

	case "approve", "reject":
		if len(args) != 2 {
			log.Fatalf("%s requires a submission id", args[0])
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			log.Fatalf("invalid submission id %q", args[1])
		}
		status := models.SubmissionStatusApproved
		if args[0] == "reject" {
			status = models.SubmissionStatusRejected
		}
		if err := submissions.UpdateStatus(id, status); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Submission %d marked %s\n", id, status)

	case "submissions":
		account := mustAccount(accounts, args)
		subs, err := submissions.ListByUser(account.ID)
		if err != nil {
			log.Fatal(err)
		}
		points, err := submissions.SumPoints(account.ID)
		if err != nil {
			log.Fatal(err)
		}
		printSubmissions(subs)
		fmt.Printf("Total points: %d\n", points)

	case "disable":
		account := mustAccount(accounts, args)
		if err := accounts.SetDisabled(account.ID, true); err != nil {
			log.Fatal(err)
		}
		n, err := tokens.RevokeAccount(account.ID)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Account %s disabled and signed out of %d devices\n", account.Email, n)

	case "devices":
		account := mustAccount(accounts, args)
		devices, err := tokens.ActiveDevices(account.ID)
		if err != nil {
			log.Fatal(err)
		}
		printDevices(devices)

	case "enable":
		account := mustAccount(accounts, args)
		if err := accounts.SetDisabled(account.ID, false); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Account %s enabled\n", account.Email)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func mustAccount(accounts *database.AccountRepository, args []string) *models.Account {
	if len(args) != 2 {
		log.Fatalf("%s requires an email", args[0])
	}
	account, err := accounts.GetByEmail(args[1])
	if err != nil {
		log.Fatal(err)
	}
	if account == nil {
		log.Fatalf("no account for %s", args[1])
	}
	return account
}

func printSubmissions(subs []models.SpotSubmission) {
	if len(subs) == 0 {
		fmt.Println("No submissions")
		return
	}
	for _, s := range subs {
		fmt.Printf("%6d  %-9s  %-30s  %-20s  %s\n",
			s.ID, s.Status, s.Name, s.Type, s.SubmittedDate.Format(time.RFC3339))
	}
}

func printDevices(devices []models.RefreshToken) {
	if len(devices) == 0 {
		fmt.Println("No active devices")
		return
	}
	for _, d := range devices {
		lastUsed := "never"
		if d.LastUsedAt.Valid {
			lastUsed = d.LastUsedAt.Time.Format(time.RFC3339)
		}
		fmt.Printf("%-8s  %-15s  %-25s  expires %s  %s\n",
			d.DeviceType.String, d.IPAddress.String, lastUsed, d.ExpiresAt.Format(time.RFC3339), d.UserAgent.String)
	}
}

func refreshCity(cityID string) {
	if _, ok := catalog.FindCity(cityID); !ok {
		log.Fatalf("unknown city %q", cityID)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.Redis.Addr == "" {
		log.Fatal("REDIS_ADDR is not set; there is no cache to refresh")
	}

	logger := logrus.New()
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	loader := catalog.NewLoader(
		parkapi.NewClient(parkapi.Config{BaseURL: cfg.ParkAPI.BaseURL, Timeout: cfg.ParkAPI.Timeout}),
		catalog.NewRedisCache(client, cfg.Redis.CacheTTL),
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ParkAPI.Timeout+5*time.Second)
	defer cancel()

	spots := loader.Refresh(ctx, cityID)
	fmt.Printf("Reloaded %s: %d spots\n", cityID, len(spots))
}
