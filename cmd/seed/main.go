package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"carwash/internal/config"
	"carwash/internal/db"
	"carwash/internal/repository"
	"carwash/internal/service"
)

// defaultCatalog is used when no -catalog source is given.
var defaultCatalog = []service.SeedService{
	{
		Name:        "Basic Wash",
		Description: "Exterior hand wash and dry",
		Price:       decimal.RequireFromString("15.00"),
		Duration:    30,
		SlotTimes:   []string{"09:00", "10:00", "11:00", "14:00", "15:00"},
	},
	{
		Name:        "Premium Wash",
		Description: "Exterior wash, interior vacuum and tyre shine",
		Price:       decimal.RequireFromString("35.00"),
		Duration:    60,
		SlotTimes:   []string{"09:00", "11:00", "14:00", "16:00"},
	},
	{
		Name:        "Full Detailing",
		Description: "Clay bar, polish, wax and full interior detailing",
		Price:       decimal.RequireFromString("120.00"),
		Duration:    180,
		SlotTimes:   []string{"09:00", "13:00"},
	},
}

func main() {
	catalogSrc := flag.String("catalog", "", "path or http(s) URL of a JSON catalog; built-in catalog when empty")
	days := flag.Int("days", 7, "number of days of slots to open per service")
	usersOnly := flag.Bool("users-only", false, "seed only the admin and demo users")
	flag.Parse()

	logger := log.New("seed")
	logger.SetHeader("${time_rfc3339} ${level} ${prefix}")
	logger.Info("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	gormDB, err := db.Open(db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations completed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	seeder := service.NewSeeder(repository.New(gormDB), logger)
	users, err := seeder.SeedUsers(ctx, service.DefaultSeedUsers(cfg.AdminEmail, cfg.AdminPassword))
	if err != nil {
		logger.Fatalf("Failed to seed users: %v", err)
	}
	logger.Infof("  - Users created: %d", users)
	if *usersOnly {
		return
	}

	catalog := defaultCatalog
	if *catalogSrc != "" {
		logger.Infof("Loading catalog from: %s", *catalogSrc)
		catalog, err = loadCatalog(ctx, *catalogSrc)
		if err != nil {
			logger.Fatalf("Failed to load catalog: %v", err)
		}
	}

	services, slots, err := seeder.SeedCatalog(ctx, catalog, time.Now().UTC(), *days)
	if err != nil {
		logger.Fatalf("Failed to seed catalog: %v", err)
	}
	logger.Info("Seed completed successfully!")
	logger.Infof("  - Services created: %d", services)
	logger.Infof("  - Slots created: %d", slots)
}

// loadCatalog reads a JSON array of services from a local file or an http(s) URL.
func loadCatalog(ctx context.Context, src string) ([]service.SeedService, error) {
	var r io.ReadCloser
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch catalog: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("catalog source returned status code: %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		r = f
	}
	defer r.Close()

	var catalog []service.SeedService
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return catalog, nil
}
